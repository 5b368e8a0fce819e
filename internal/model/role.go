package model

import "fmt"

// Role is the capacity a user acts in for a single session. A user with both
// capability flags still acts in exactly one role at a time, chosen at login.
type Role string

// Roles.
const (
	RoleDonor    Role = "donor"
	RoleAffected Role = "affected"
)

// ParseRole converts a wire-format role string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleDonor:
		return RoleDonor, nil
	case RoleAffected:
		return RoleAffected, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Actor is an authenticated user acting in a single role. Handlers build it
// from verified session claims; the core trusts it only after re-checking the
// capability flags against the stored user.
type Actor struct {
	UserID int64
	Role   Role
}
