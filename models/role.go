// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Role is the closed set of user roles.
type Role string

const (
	// RoleUser is the default role of every new account.
	RoleUser Role = "user"

	// RoleAdmin may list, create, update and delete any account.
	RoleAdmin Role = "admin"
)

// Roles lists every valid role in declaration order.
var Roles = []Role{RoleUser, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}
