package ports

import (
	"context"

	"github.com/comedor/admin-api/internal/core/domain"
)

// CreateUserInput carries the data needed to provision a user.
type CreateUserInput struct {
	Username      string   `json:"username" validate:"required"`
	Email         string   `json:"email" validate:"required,email"`
	RoleName      string   `json:"roleName" validate:"required"`
	Name          string   `json:"name"`
	Lastname      string   `json:"lastname"`
	PhoneNumber   string   `json:"phone_number" validate:"omitempty,phone"`
	PartnerNumber string   `json:"partner_number"`
	StudentIDs    []string `json:"student_ids" validate:"omitempty,dive,mongodb"`
}

// UpdateUserInput is a partial update. Nil pointers mean "not supplied".
type UpdateUserInput struct {
	Username      *string  `json:"username" validate:"omitempty,min=1"`
	Email         *string  `json:"email" validate:"omitempty,email"`
	Name          *string  `json:"name"`
	Lastname      *string  `json:"lastname"`
	RoleName      string   `json:"roleName"`
	PhoneNumber   *string  `json:"phone_number" validate:"omitempty,phone"`
	PartnerNumber *string  `json:"partner_number"`
	StudentIDs    []string `json:"student_ids" validate:"omitempty,dive,mongodb"`
}

// ListUsersInput carries the list endpoint parameters. Zero or negative
// values fall back to defaults.
type ListUsersInput struct {
	Page     int
	PageSize int
	RoleName string
}

// ListUsersResult is one page of users.
type ListUsersResult struct {
	Users       []*domain.User
	Total       int64
	TotalPages  int
	CurrentPage int
	PageSize    int
}

// UserService is the user provisioning workflow.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	ListUsers(ctx context.Context, input ListUsersInput) (*ListUsersResult, error)
	GetUsersByRole(ctx context.Context, roleName string) ([]*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	UpdateUserByID(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	DeleteUserByID(ctx context.Context, id string) error
	GetPartnersWithStudents(ctx context.Context) ([]*domain.User, error)
}

// RoleService administrates reference roles.
type RoleService interface {
	ListRoles(ctx context.Context) ([]*domain.Role, error)
	DeleteRole(ctx context.Context, name string) error
}
