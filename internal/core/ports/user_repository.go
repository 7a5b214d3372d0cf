package ports

import (
	"context"

	"github.com/comedor/admin-api/internal/core/domain"
)

// ListUsersFilter carries the query parameters for a paginated user listing.
type ListUsersFilter struct {
	RoleID string // empty = all roles
	Page   int    // 1-based
	Limit  int
}

// UserUpdate is a partial update. Nil fields are left untouched.
// A StandardProfile clears the partner fields; a PartnerProfile replaces them.
type UserUpdate struct {
	Username *string
	Email    *string
	Name     *string
	Lastname *string
	RoleID   *string
	Profile  domain.Profile
}

// UserRepository defines persistence operations for users. Reads return the
// user with its Role attached.
type UserRepository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Create inserts the user. A unique-index violation on username is
	// reported as domain.ErrDuplicateUsername.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByRole(ctx context.Context, roleID string) ([]*domain.User, error)
	// FindByRoleWithStudents is FindByRole with each user's student records joined.
	FindByRoleWithStudents(ctx context.Context, roleID string) ([]*domain.User, error)
	// List returns a page of users matching filter and the total count.
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, roleID string) (int64, error)
	// FindByUsername is used by the login flow only.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
