package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token claims accepted by the decision service. The
// caller identity is the registered Subject.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAnyRole reports whether the claims include at least one of roles.
func (c Claims) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}

// Role constants
const (
	RoleAdmin       = "admin"
	RoleLoanOfficer = "loan_officer"
	RoleAnalyst     = "analyst"
	RoleAPIClient   = "api_client"
)

// EvaluatorRoles may request loan decisions.
var EvaluatorRoles = []string{RoleAdmin, RoleLoanOfficer, RoleAPIClient}

// ReaderRoles may read model status.
var ReaderRoles = []string{RoleAdmin, RoleLoanOfficer, RoleAnalyst, RoleAPIClient}
