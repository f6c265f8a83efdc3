package entity

import "github.com/google/uuid"

// Caller is the authenticated identity attached to a request.
type Caller struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin reports whether the caller may act on any user's resources.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IsOwnerOrAdmin is the single capability check for order access.
func (c Caller) IsOwnerOrAdmin(order *Order) bool {
	if order == nil {
		return false
	}

	return c.IsAdmin() || order.UserID == c.UserID
}

// OwnerScope returns the user id that order lookups must be restricted to,
// or nil when the caller may see every order.
func (c Caller) OwnerScope() *uuid.UUID {
	if c.IsAdmin() {
		return nil
	}
	id := c.UserID

	return &id
}
