package ports

import (
	"context"

	"github.com/comedor/admin-api/internal/core/domain"
)

// RoleDirectory resolves roles by exact name.
type RoleDirectory interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
}

// RoleRepository is the full role store used by role administration.
type RoleRepository interface {
	RoleDirectory
	List(ctx context.Context) ([]*domain.Role, error)
	Delete(ctx context.Context, name string) error
	// EnsureRoles inserts the given role names when missing.
	EnsureRoles(ctx context.Context, names []string) error
}
