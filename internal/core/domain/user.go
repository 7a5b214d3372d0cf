package domain

import "time"

// Profile is the role-dependent part of a user. The concrete type is chosen
// from the resolved Role, never from the raw request.
type Profile interface {
	isProfile()
}

// StandardProfile carries no extra fields.
type StandardProfile struct{}

// PartnerProfile holds the fields that only exist for partner users.
type PartnerProfile struct {
	PhoneNumber   string
	PartnerNumber string
	StudentIDs    []string
}

func (StandardProfile) isProfile() {}
func (PartnerProfile) isProfile()  {}

// ProfileFor returns the profile variant that applies to role. Partner values
// are discarded for every other role.
func ProfileFor(role *Role, phoneNumber, partnerNumber string, studentIDs []string) Profile {
	if role == nil || !role.IsPartner() {
		return StandardProfile{}
	}
	return PartnerProfile{
		PhoneNumber:   phoneNumber,
		PartnerNumber: partnerNumber,
		StudentIDs:    studentIDs,
	}
}

// User models an administrated account.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Name         string
	Lastname     string
	RoleID       string
	Role         *Role // populated on reads that join the roles collection
	Profile      Profile
	Students     []Student // populated only by partner listings
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Partner returns the partner profile and whether the user has one.
func (u *User) Partner() (PartnerProfile, bool) {
	p, ok := u.Profile.(PartnerProfile)
	return p, ok
}

// Student is the read-only projection of a student record.
type Student struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
}
