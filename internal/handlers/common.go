// internal/handlers/common.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/techshopvn/techshop-backend/internal/models"
	"github.com/techshopvn/techshop-backend/internal/utils"
)

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	idStr, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func roleFromString(role string) models.UserRole {
	if role == string(models.UserRoleAdmin) {
		return models.UserRoleAdmin
	}
	return models.UserRoleCustomer
}

// parseIDParam parses a uuid path parameter, replying 400 on failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "")
		return uuid.Nil, false
	}
	return id, true
}
