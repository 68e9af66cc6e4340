package domain

import "time"

// Role enumerates account types. A role is fixed at signup.
type Role string

const (
	RoleOrganizer   Role = "organizer"
	RoleParticipant Role = "participant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleOrganizer, RoleParticipant:
		return true
	}
	return false
}

// User is an account holder, either organizing symposiums or attending them.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
