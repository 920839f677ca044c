package domain

import "time"

// Role enumerates supported account roles.
type Role string

const (
	RoleMember Role = "Member"
	RoleAdmin  Role = "Admin"
)

// ParseRole normalizes a stored role string into the closed enumeration.
// Unknown values degrade to Member rather than failing a read.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleMember
}

// User represents a registered account within the platform.
type User struct {
	ID        string
	Email     string
	Name      string
	PhotoURL  string
	Role      Role
	CreatedAt time.Time
}

// IsAdmin reports whether the user holds the Admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
