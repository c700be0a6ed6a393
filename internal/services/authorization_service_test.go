// internal/services/authorization_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/techshopvn/techshop-backend/internal/models"
)

func TestAuthorizationOwner(t *testing.T) {
	authz := NewAuthorizationService()
	ownerID := uuid.New()
	owner := Subject{ID: ownerID, Role: models.UserRoleCustomer}

	assert.True(t, authz.Can(owner, ActionViewOrder, ownerID))
	assert.True(t, authz.Can(owner, ActionCancelOrder, ownerID))
	assert.True(t, authz.Can(owner, ActionUpdateComment, ownerID))
	assert.True(t, authz.Can(owner, ActionDeleteComment, ownerID))
}

func TestAuthorizationStranger(t *testing.T) {
	authz := NewAuthorizationService()
	stranger := Subject{ID: uuid.New(), Role: models.UserRoleCustomer}
	ownerID := uuid.New()

	assert.False(t, authz.Can(stranger, ActionViewOrder, ownerID))
	assert.False(t, authz.Can(stranger, ActionCancelOrder, ownerID))
	assert.False(t, authz.Can(stranger, ActionUpdateComment, ownerID))
	assert.False(t, authz.Can(stranger, ActionDeleteComment, ownerID))
}

func TestAuthorizationAdmin(t *testing.T) {
	authz := NewAuthorizationService()
	admin := Subject{ID: uuid.New(), Role: models.UserRoleAdmin}
	ownerID := uuid.New()

	// Admins moderate: any order view, any comment deletion.
	assert.True(t, authz.Can(admin, ActionViewOrder, ownerID))
	assert.True(t, authz.Can(admin, ActionDeleteComment, ownerID))

	// But they do not cancel or rewrite other people's content.
	assert.False(t, authz.Can(admin, ActionCancelOrder, ownerID))
	assert.False(t, authz.Can(admin, ActionUpdateComment, ownerID))
}
