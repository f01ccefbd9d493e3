package models

import (
	"fmt"
	"strings"
)

// Role governs authorization decisions across the API.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
	RoleHR       Role = "HR"
	RoleApprover Role = "APPROVER"
)

// Roles enumerates every recognised role value.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEmployee, RoleHR, RoleApprover}
}

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(value string) (Role, error) {
	candidate := Role(strings.ToUpper(strings.TrimSpace(value)))
	for _, role := range Roles() {
		if candidate == role {
			return role, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", value)
}

// Valid reports whether the role is one of the recognised values.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// IsAdmin reports whether the role grants unrestricted access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanReview reports whether the role may own submitted ideas.
func (r Role) CanReview() bool {
	return r == RoleAdmin || r == RoleHR
}

func (r Role) String() string {
	return string(r)
}
