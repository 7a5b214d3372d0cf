package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/comedor/admin-api/internal/core/domain"
	"github.com/comedor/admin-api/internal/core/ports"
	"github.com/comedor/admin-api/internal/pkg/metrics"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// UserService implements the user provisioning workflow.
type UserService struct {
	users     ports.UserRepository
	roles     ports.RoleDirectory
	generator ports.PasswordGenerator
	hasher    ports.PasswordHasher
	notifier  ports.Notifier
	validate  *inputValidator
	log       zerolog.Logger
}

// UserServiceDeps groups the collaborators of UserService.
type UserServiceDeps struct {
	Users       ports.UserRepository
	Roles       ports.RoleDirectory
	Generator   ports.PasswordGenerator
	Hasher      ports.PasswordHasher
	Notifier    ports.Notifier
	PhoneRegion string
}

func NewUserService(deps UserServiceDeps, log zerolog.Logger) *UserService {
	return &UserService{
		users:     deps.Users,
		roles:     deps.Roles,
		generator: deps.Generator,
		hasher:    deps.Hasher,
		notifier:  deps.Notifier,
		validate:  newInputValidator(deps.PhoneRegion),
		log:       log,
	}
}

// CreateUser provisions a new user, issues a generated password and hands it
// to the notifier. The plaintext password is never part of the result.
func (s *UserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	isPartnerRequest := in.RoleName == domain.RolePartner
	if !isPartnerRequest {
		// Partner-only fields are dropped for other roles, so they are not validated either.
		in.PhoneNumber, in.PartnerNumber, in.StudentIDs = "", "", nil
	}
	if in.Username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}

	// 1. Username pre-check, ahead of the remaining fields. The unique index still decides races.
	exists, err := s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, persistence("create user", err)
	}
	if exists {
		return nil, domain.ErrDuplicateUsername
	}
	if err := s.validate.check(in); err != nil {
		return nil, err
	}

	// 2. Resolve role.
	role, err := s.resolveRole(ctx, in.RoleName)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// 3. Credentials.
	password, err := s.generator.Generate()
	if err != nil {
		return nil, fmt.Errorf("create user: generate password: %w", err)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("create user: hash password: %w", err)
	}

	// 4. Build record with the role-selected profile.
	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Lastname:     in.Lastname,
		RoleID:       role.ID,
		Profile:      domain.ProfileFor(role, s.validate.normalizePhone(in.PhoneNumber), in.PartnerNumber, in.StudentIDs),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 5. Persist.
	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, err
		}
		s.log.Error().Err(err).Str("username", in.Username).Msg("failed to persist user")
		return nil, persistence("create user", err)
	}
	if created.Role == nil {
		created.Role = role
	}

	metrics.UsersCreatedTotal.WithLabelValues(role.Name).Inc()
	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Str("role", role.Name).Msg("user created")

	// 6. Deliver credentials. Best-effort: the user is already committed.
	notice := ports.CredentialEmail{To: created.Email, Name: created.Name, Username: created.Username, Password: password}
	if err := s.notifier.SendCredentialEmail(ctx, notice); err != nil {
		s.log.Warn().Err(err).Str("user_id", created.ID).Str("email", created.Email).Msg("credential email not delivered")
	}

	return created, nil
}

// ListUsers returns one page of users, optionally filtered by role name.
func (s *UserService) ListUsers(ctx context.Context, in ports.ListUsersInput) (*ports.ListUsersResult, error) {
	page := in.Page
	if page < 1 {
		page = defaultPage
	}
	size := in.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	filter := ports.ListUsersFilter{Page: page, Limit: size}
	if in.RoleName != "" {
		role, err := s.resolveRole(ctx, in.RoleName)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		filter.RoleID = role.ID
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, persistence("list users", err)
	}

	return &ports.ListUsersResult{
		Users:       users,
		Total:       total,
		TotalPages:  totalPages(total, size),
		CurrentPage: page,
		PageSize:    size,
	}, nil
}

// GetUsersByRole returns every user holding the named role.
func (s *UserService) GetUsersByRole(ctx context.Context, roleName string) ([]*domain.User, error) {
	role, err := s.resolveRole(ctx, roleName)
	if err != nil {
		return nil, fmt.Errorf("users by role: %w", err)
	}
	users, err := s.users.FindByRole(ctx, role.ID)
	if err != nil {
		return nil, persistence("users by role", err)
	}
	return users, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, persistence("get user", err)
	}
	return user, nil
}

// UpdateUserByID applies a partial update. The effective role decides the
// profile: partner fields are merged for partners and cleared for everyone else.
func (s *UserService) UpdateUserByID(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	// The requested role is resolved before the user lookup, so an unknown
	// role is reported even when the id does not exist.
	var role *domain.Role
	var roleID *string
	if in.RoleName != "" {
		resolved, err := s.resolveRole(ctx, in.RoleName)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		role, roleID = resolved, &resolved.ID
	}

	current, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if role == nil {
		role = current.Role
	}

	partner := role != nil && role.IsPartner()
	if !partner {
		in.PhoneNumber, in.PartnerNumber, in.StudentIDs = nil, nil, nil
	}
	if err := s.validate.check(in); err != nil {
		return nil, err
	}

	update := ports.UserUpdate{
		Username: in.Username,
		Email:    in.Email,
		Name:     in.Name,
		Lastname: in.Lastname,
		RoleID:   roleID,
	}
	if partner {
		profile, _ := current.Partner()
		if in.PhoneNumber != nil {
			profile.PhoneNumber = s.validate.normalizePhone(*in.PhoneNumber)
		}
		if in.PartnerNumber != nil {
			profile.PartnerNumber = *in.PartnerNumber
		}
		if in.StudentIDs != nil {
			profile.StudentIDs = in.StudentIDs
		}
		update.Profile = profile
	} else {
		update.Profile = domain.StandardProfile{}
	}

	updated, err := s.users.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, fmt.Errorf("update user: %w", err)
		}
		return nil, persistence("update user", err)
	}

	s.log.Info().Str("user_id", id).Msg("user updated")
	return updated, nil
}

func (s *UserService) DeleteUserByID(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return persistence("delete user", err)
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// GetPartnersWithStudents lists partner users with their students joined.
// A missing partner role is a deployment error, reported as ErrRoleMissing.
func (s *UserService) GetPartnersWithStudents(ctx context.Context) ([]*domain.User, error) {
	role, err := s.roles.FindByName(ctx, domain.RolePartner)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			s.log.Error().Msg("partner role missing from role directory")
			return nil, domain.ErrRoleMissing
		}
		return nil, persistence("partners", err)
	}

	partners, err := s.users.FindByRoleWithStudents(ctx, role.ID)
	if err != nil {
		return nil, persistence("partners", err)
	}
	return partners, nil
}

// resolveRole maps a directory miss to ErrUnknownRole.
func (s *UserService) resolveRole(ctx context.Context, name string) (*domain.Role, error) {
	role, err := s.roles.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRole, name)
		}
		return nil, persistence("resolve role", err)
	}
	return role, nil
}

func persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
}

func totalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
