// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/techshopvn/techshop-backend/internal/i18n"
	"github.com/techshopvn/techshop-backend/internal/services"
	"github.com/techshopvn/techshop-backend/internal/utils"
)

// respondServiceError maps the typed service errors onto HTTP statuses
// in one place. Anything unrecognized is a 500.
func respondServiceError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		if notFound.Resource == "product" && notFound.ID != "" {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyProductNotFoundID, notFound.ID))
			return
		}
		utils.NotFoundResponse(c, "")
		return
	}

	var forbidden *services.ForbiddenError
	if errors.As(err, &forbidden) {
		utils.ForbiddenResponse(c, "")
		return
	}

	var conflict *services.ConflictError
	if errors.As(err, &conflict) {
		utils.ConflictResponse(c, conflict.Reason)
		return
	}

	var invalidState *services.InvalidStateError
	if errors.As(err, &invalidState) {
		utils.BadRequestResponse(c, invalidState.Reason)
		return
	}

	var insufficient *services.InsufficientStockError
	if errors.As(err, &insufficient) {
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyProductInsufficient,
			insufficient.ProductName, insufficient.Requested, insufficient.Available))
		return
	}

	switch {
	case errors.Is(err, services.ErrEmptyOrder):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyOrderEmpty))
	case errors.Is(err, services.ErrInvalidCredential):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
	case errors.Is(err, services.ErrEmailTaken):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAuthUserExists))
	default:
		utils.InternalErrorResponse(c, err)
	}
}

// subjectFromContext builds the authorization subject from the claims
// the auth middleware stashed on the context.
func subjectFromContext(c *gin.Context) (services.Subject, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return services.Subject{}, false
	}

	role, _ := utils.GetUserRoleFromContext(c)
	return services.Subject{
		ID:   userID,
		Role: roleFromString(role),
	}, true
}
