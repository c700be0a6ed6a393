// internal/handlers/favorite.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/techshopvn/techshop-backend/internal/i18n"
	"github.com/techshopvn/techshop-backend/internal/services"
	"github.com/techshopvn/techshop-backend/internal/utils"
)

type FavoriteHandler struct {
	favoriteService *services.FavoriteService
}

func NewFavoriteHandler(favoriteService *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// GET /favorites
func (h *FavoriteHandler) GetFavorites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	favorites, pagination, err := h.favoriteService.List(userID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, favorites, *pagination)
}

// POST /favorites
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req struct {
		ProductID string `json:"productId" validate:"required,uuid4"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	favorite, err := h.favoriteService.Add(userID, productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyFavoriteAdded), favorite)
}

// DELETE /favorites/:productId
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	if err := h.favoriteService.Remove(userID, productID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(lang, i18n.KeyFavoriteRemoved), nil)
}

// POST /favorites/toggle/:productId
func (h *FavoriteHandler) ToggleFavorite(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	favorited, err := h.favoriteService.Toggle(userID, productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := i18n.T(lang, i18n.KeyFavoriteRemoved)
	if favorited {
		message = i18n.T(lang, i18n.KeyFavoriteAdded)
	}
	utils.SuccessResponse(c, message, gin.H{"is_favorited": favorited})
}

// GET /favorites/check/:productId
func (h *FavoriteHandler) CheckFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	favorited, err := h.favoriteService.IsFavorited(userID, productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "", gin.H{"is_favorited": favorited})
}
