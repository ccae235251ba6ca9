package auth

import (
	"strings"
)

// Role is an account's role
type Role string

const (
	// RoleAdmin can read and mutate employees
	RoleAdmin Role = "ADMIN"
	// RoleUser can read employees
	RoleUser Role = "USER"
)

// IsValid checks if the role is one of the predefined roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleUser,
	}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(roleStr)))
	return role, role.IsValid()
}

// RoleSet is the allow-list attached to a route. It is built once at
// registration time and never mutated.
type RoleSet struct {
	members map[Role]struct{}
	ordered []Role
}

// NewRoleSet builds an allow-list. It panics on an empty list or a blank
// role since both are programming errors in route registration.
func NewRoleSet(roles ...Role) RoleSet {
	if len(roles) == 0 {
		panic("AUTH: role set requires at least one role")
	}

	set := RoleSet{
		members: make(map[Role]struct{}, len(roles)),
		ordered: make([]Role, 0, len(roles)),
	}

	for _, role := range roles {
		if strings.TrimSpace(string(role)) == "" {
			panic("AUTH: role set contains a blank role")
		}
		if _, seen := set.members[role]; seen {
			continue
		}
		set.members[role] = struct{}{}
		set.ordered = append(set.ordered, role)
	}

	return set
}

// Contains reports exact membership; there is no role hierarchy
func (s RoleSet) Contains(role Role) bool {
	_, ok := s.members[role]
	return ok
}

// Roles returns a copy of the roles in declaration order
func (s RoleSet) Roles() []Role {
	out := make([]Role, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Len returns the number of roles
func (s RoleSet) Len() int {
	return len(s.ordered)
}

func (s RoleSet) String() string {
	parts := make([]string, len(s.ordered))
	for i, r := range s.ordered {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}
