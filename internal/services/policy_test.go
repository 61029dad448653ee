package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"bookstore/internal/models"
)

func TestCanAccess(t *testing.T) {
	ownerID := uuid.New()
	otherID := uuid.New()

	owner := &models.User{ID: ownerID, Role: models.UserRoleUser}
	stranger := &models.User{ID: otherID, Role: models.UserRoleUser}
	guest := &models.User{ID: otherID, Role: models.UserRoleGuest}
	admin := &models.User{ID: otherID, Role: models.UserRoleAdmin}

	assert.True(t, CanAccess(owner, ownerID), "owners access their own records")
	assert.False(t, CanAccess(stranger, ownerID), "non-owners are rejected")
	assert.False(t, CanAccess(guest, ownerID), "guest role does not help")
	assert.True(t, CanAccess(admin, ownerID), "admin bypasses ownership")
	assert.False(t, CanAccess(nil, ownerID), "anonymous callers access nothing")
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin(&models.User{Role: models.UserRoleAdmin}))
	assert.False(t, IsAdmin(&models.User{Role: models.UserRoleUser}))
	assert.False(t, IsAdmin(&models.User{Role: models.UserRoleGuest}))
	assert.False(t, IsAdmin(nil))
}
