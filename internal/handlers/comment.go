// internal/handlers/comment.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techshopvn/techshop-backend/internal/i18n"
	"github.com/techshopvn/techshop-backend/internal/services"
	"github.com/techshopvn/techshop-backend/internal/utils"
)

type CommentHandler struct {
	commentService *services.CommentService
	storageService *services.StorageService
}

func NewCommentHandler(commentService *services.CommentService, storageService *services.StorageService) *CommentHandler {
	return &CommentHandler{commentService: commentService, storageService: storageService}
}

// GET /comments/product/:productId
func (h *CommentHandler) GetProductComments(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	comments, distribution, pagination, err := h.commentService.ListByProduct(productID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.APIResponse{
		Success: true,
		Data: gin.H{
			"comments":            comments,
			"rating_distribution": distribution,
		},
		Pagination: pagination,
	})
}

// POST /comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	comment, err := h.commentService.Create(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyCommentAdded), comment)
}

// PUT /comments/:id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	subject, ok := subjectFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	comment, err := h.commentService.Update(subject, id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(lang, i18n.KeyCommentUpdated), comment)
}

// DELETE /comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	subject, ok := subjectFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(subject, id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(lang, i18n.KeyCommentDeleted), nil)
}

// POST /comments/:id/like
func (h *CommentHandler) ToggleLike(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	liked, likeCount, err := h.commentService.ToggleLike(userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := i18n.T(lang, i18n.KeyCommentUnliked)
	if liked {
		message = i18n.T(lang, i18n.KeyCommentLiked)
	}
	utils.SuccessResponse(c, message, gin.H{
		"liked":      liked,
		"like_count": likeCount,
	})
}

// GET /comments/my-comments
func (h *CommentHandler) GetMyComments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	comments, pagination, err := h.commentService.ListMine(userID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, comments, *pagination)
}

// POST /comments/upload
func (h *CommentHandler) UploadImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "")
		return
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	options := h.storageService.GetDefaultUploadOptions("comments")
	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		utils.InternalErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyProductImageUploaded), result)
}
