// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the type of role a user can have in the marketplace.
type Role string

const (
	// RoleArtisan indicates a seller who owns products and ideas.
	RoleArtisan Role = "artisan"
	// RoleBuyer indicates a regular shopper.
	RoleBuyer Role = "buyer"
	// RoleInvestor indicates a user funding artisans.
	RoleInvestor Role = "investor"
	// RoleAmbassador indicates a regional promoter supporting artisans.
	RoleAmbassador Role = "ambassador"
	// RoleAdmin indicates a platform administrator.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleArtisan, RoleBuyer, RoleInvestor, RoleAmbassador, RoleAdmin:
		return true
	default:
		return false
	}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}
