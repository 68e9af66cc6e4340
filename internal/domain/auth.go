package domain

// AuthContext identifies the caller of a service operation.
type AuthContext struct {
	UserID string
	Email  string
	Role   Role
}

// IsOrganizer reports whether the caller holds the organizer role.
func (a AuthContext) IsOrganizer() bool {
	return a.Role == RoleOrganizer
}
