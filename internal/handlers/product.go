// internal/handlers/product.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/techshopvn/techshop-backend/internal/i18n"
	"github.com/techshopvn/techshop-backend/internal/services"
	"github.com/techshopvn/techshop-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	historyService *services.ViewHistoryService
	storageService *services.StorageService
}

func NewProductHandler(productService *services.ProductService, historyService *services.ViewHistoryService, storageService *services.StorageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		historyService: historyService,
		storageService: storageService,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filters := services.ProductFilters{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
	}
	if v := c.Query("min_price"); v != "" {
		if minPrice, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.MinPrice = minPrice
		}
	}
	if v := c.Query("max_price"); v != "" {
		if maxPrice, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.MaxPrice = maxPrice
		}
	}
	if v := c.Query("in_stock"); v != "" {
		if inStock, err := strconv.ParseBool(v); err == nil {
			filters.InStock = inStock
		}
	}

	products, pagination, err := h.productService.List(params, filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, products, *pagination)
}

// GET /products/:id
// Logged-in viewers get their favorite flag and a history entry.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	viewerID := uuid.Nil
	if userID, ok := currentUserID(c); ok {
		viewerID = userID
	}

	detail, err := h.productService.GetDetail(id, viewerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// The product loaded fine, a failed history write must not break
	// the detail view.
	if viewerID != uuid.Nil {
		if err := h.historyService.Record(viewerID, id); err != nil {
			logrus.WithError(err).WithField("product_id", id).Warn("Failed to record view")
		}
	}

	utils.SuccessResponse(c, "", detail)
}

// GET /products/:id/similar
func (h *ProductHandler) GetSimilarProducts(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	limit := 10
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	products, err := h.productService.GetSimilar(c.Request.Context(), id, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "", products)
}

// GET /products/:id/stats
func (h *ProductHandler) GetProductStats(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.productService.GetStats(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "", stats)
}

// POST /products (admin)
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.productService.Create(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyProductCreated), product)
}

// PUT /products/:id (admin)
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.productService.Update(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(lang, i18n.KeyProductUpdated), product)
}

// DELETE /products/:id (admin)
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(lang, i18n.KeyProductDeleted), nil)
}

// POST /products/upload (admin)
func (h *ProductHandler) UploadImage(c *gin.Context) {
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

	options := h.storageService.GetDefaultUploadOptions("products")
	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		utils.InternalErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyProductImageUploaded), result)
}
