// internal/services/authorization_service.go
package services

import (
	"github.com/google/uuid"

	"github.com/techshopvn/techshop-backend/internal/models"
)

// Action names a thing a subject wants to do to a resource.
type Action string

const (
	ActionViewOrder     Action = "order:view"
	ActionCancelOrder   Action = "order:cancel"
	ActionUpdateComment Action = "comment:update"
	ActionDeleteComment Action = "comment:delete"
)

// Subject is the authenticated caller, threaded explicitly through every
// service call instead of living in ambient request state.
type Subject struct {
	ID   uuid.UUID
	Role models.UserRole
}

func (s Subject) IsAdmin() bool {
	return s.Role == models.UserRoleAdmin
}

// AuthorizationService is the single place ownership and role rules live.
type AuthorizationService struct{}

func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

// Can decides whether subject may perform action on a resource owned by
// ownerID. Owners may always act on their own resources; admins may
// additionally view any order and delete any comment.
func (s *AuthorizationService) Can(subject Subject, action Action, ownerID uuid.UUID) bool {
	if subject.ID == ownerID {
		return true
	}

	if !subject.IsAdmin() {
		return false
	}

	switch action {
	case ActionViewOrder, ActionDeleteComment:
		return true
	}
	return false
}
