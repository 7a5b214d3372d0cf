package ports

import (
	"context"

	"github.com/comedor/admin-api/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
