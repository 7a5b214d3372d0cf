package domain

const (
	RoleAdmin   = "admin"
	RolePartner = "partner"
	RoleStudent = "student"
)

// Role is a named category assigned to users. Roles are reference data.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IsPartner reports whether users of this role carry a PartnerProfile.
func (r Role) IsPartner() bool {
	return r.Name == RolePartner
}
