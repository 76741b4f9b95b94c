package shared

import (
	"strings"

	"github.com/google/uuid"
)

// Role is a staff role inside a business
type Role string

const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleCook    Role = "cook"
	RoleCashier Role = "cashier"
	RoleWaiter  Role = "waiter"
)

// roleRank is the explicit total order of roles, higher outranks lower.
var roleRank = map[Role]int{
	RoleOwner:   5,
	RoleAdmin:   4,
	RoleCook:    3,
	RoleCashier: 2,
	RoleWaiter:  1,
}

// ParseRole converts a string into a Role
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", NewValidationError("unknown role: " + s)
	}
	return r, nil
}

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// Rank returns the position of the role in the hierarchy (0 for unknown roles)
func (r Role) Rank() int {
	return roleRank[r]
}

// Outranks reports whether r is strictly above other
func (r Role) Outranks(other Role) bool {
	return r.Rank() > other.Rank()
}

// String returns the role name
func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated caller of a core operation. It is built from a
// verified credential and never from request bodies.
type Actor struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Role     Role
	Name     string
}

// HasAnyRole reports whether the actor has one of the given roles
func (a Actor) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// Require returns FORBIDDEN unless the actor holds one of the given roles
func (a Actor) Require(action string, roles ...Role) error {
	if a.HasAnyRole(roles...) {
		return nil
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = strings.ToUpper(string(r))
	}
	return NewForbiddenError("Only " + strings.Join(names, ", ") + " can " + action)
}

// UserRef returns the actor's user id as an optional reference
func (a Actor) UserRef() *uuid.UUID {
	if a.UserID == uuid.Nil {
		return nil
	}
	id := a.UserID
	return &id
}

// DisplayName returns a name suitable for audit messages
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.UserID.String()
}
