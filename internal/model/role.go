package model

import "fmt"

// Role is the closed set of user roles. Branch on it with a switch that
// lists every constant; the default arm is reserved for corrupt data.
type Role string

const (
	RoleProfessor Role = "professor"
	RoleStudent   Role = "student"
)

// ParseRole converts a raw string (from the DB, a flag, a session row) into a
// Role, rejecting anything outside the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleProfessor:
		return RoleProfessor, nil
	case RoleStudent:
		return RoleStudent, nil
	default:
		return "", fmt.Errorf("model: unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}
