package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/comedor/admin-api/internal/core/domain"
	"github.com/comedor/admin-api/internal/core/ports"
)

// AuthService implements login for provisioned users.
type AuthService struct {
	users     ports.UserRepository
	hasher    ports.PasswordHasher
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, hasher: hasher, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Login verifies the password and returns a signed token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, persistence("login", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	role := ""
	if user.Role != nil {
		role = user.Role.Name
	}
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
