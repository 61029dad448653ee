package services

import (
	"github.com/google/uuid"

	"bookstore/internal/models"
)

// CanAccess decides whether the actor may read or mutate a record owned by ownerID.
// Admins bypass the ownership check entirely; everyone else is restricted to their
// own records. A nil actor (unauthenticated caller) can access nothing.
func CanAccess(actor *models.User, ownerID uuid.UUID) bool {
	if actor == nil {
		return false
	}
	if actor.Role == models.UserRoleAdmin {
		return true
	}
	return actor.ID == ownerID
}

// IsAdmin reports whether the actor holds the admin role. Used for operations that
// require admin exactly, such as the data export.
func IsAdmin(actor *models.User) bool {
	return actor != nil && actor.Role == models.UserRoleAdmin
}
