// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// UserRole is the platform-wide authorization level of an account.
//
// Authoring rights are not a role: they come from the poet capability,
// which is stored separately and resolved per request.
type UserRole string

const (
	// RoleAdmin verifies poets and moderates the catalogue.
	RoleAdmin UserRole = "admin"

	// RoleMember is the default role for registered readers.
	RoleMember UserRole = "member"
)

// AtLeast checks if the current role meets or exceeds the target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 20
	case RoleMember:
		return 10
	default:
		return 0
	}
}
