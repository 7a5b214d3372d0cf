package handler

import (
	"time"

	"github.com/comedor/admin-api/internal/core/domain"
	"github.com/comedor/admin-api/internal/core/ports"
)

// --- Requests ---

type createUserRequest struct {
	Username      string   `json:"username"`
	Email         string   `json:"email"`
	RoleName      string   `json:"roleName"`
	Name          string   `json:"name"`
	Lastname      string   `json:"lastname"`
	PhoneNumber   string   `json:"phone_number"`
	PartnerNumber string   `json:"partner_number"`
	StudentIDs    []string `json:"student_ids"`
}

type updateUserRequest struct {
	Username      *string  `json:"username"`
	Email         *string  `json:"email"`
	Name          *string  `json:"name"`
	Lastname      *string  `json:"lastname"`
	RoleName      string   `json:"roleName"`
	PhoneNumber   *string  `json:"phone_number"`
	PartnerNumber *string  `json:"partner_number"`
	StudentIDs    []string `json:"student_ids"`
}

func (r createUserRequest) toInput() ports.CreateUserInput {
	return ports.CreateUserInput{
		Username:      r.Username,
		Email:         r.Email,
		RoleName:      r.RoleName,
		Name:          r.Name,
		Lastname:      r.Lastname,
		PhoneNumber:   r.PhoneNumber,
		PartnerNumber: r.PartnerNumber,
		StudentIDs:    r.StudentIDs,
	}
}

func (r updateUserRequest) toInput() ports.UpdateUserInput {
	return ports.UpdateUserInput{
		Username:      r.Username,
		Email:         r.Email,
		Name:          r.Name,
		Lastname:      r.Lastname,
		RoleName:      r.RoleName,
		PhoneNumber:   r.PhoneNumber,
		PartnerNumber: r.PartnerNumber,
		StudentIDs:    r.StudentIDs,
	}
}

// --- Responses ---

type roleResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// userResponse never carries the password hash.
type userResponse struct {
	ID            string           `json:"id"`
	Username      string           `json:"username"`
	Email         string           `json:"email"`
	Name          string           `json:"name,omitempty"`
	Lastname      string           `json:"lastname,omitempty"`
	Role          *roleResponse    `json:"role,omitempty"`
	PhoneNumber   string           `json:"phone_number,omitempty"`
	PartnerNumber string           `json:"partner_number,omitempty"`
	StudentIDs    []string         `json:"student_ids,omitempty"`
	Students      []domain.Student `json:"students,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type listUsersResponse struct {
	Users       []userResponse `json:"users"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
	PageSize    int            `json:"pageSize"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toRoleResponse(r *domain.Role) *roleResponse {
	if r == nil {
		return nil
	}
	return &roleResponse{ID: r.ID, Name: r.Name}
}

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Lastname:  u.Lastname,
		Role:      toRoleResponse(u.Role),
		Students:  u.Students,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if resp.Role == nil && u.RoleID != "" {
		resp.Role = &roleResponse{ID: u.RoleID}
	}
	if p, ok := u.Partner(); ok {
		resp.PhoneNumber = p.PhoneNumber
		resp.PartnerNumber = p.PartnerNumber
		resp.StudentIDs = p.StudentIDs
	}
	return resp
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}
