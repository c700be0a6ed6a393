// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/techshopvn/techshop-backend/internal/i18n"
	"github.com/techshopvn/techshop-backend/internal/models"
	"github.com/techshopvn/techshop-backend/internal/services"
	"github.com/techshopvn/techshop-backend/internal/utils"
)

type OrderHandler struct {
	orderService   *services.OrderService
	paymentService *services.PaymentService
}

func NewOrderHandler(orderService *services.OrderService, paymentService *services.PaymentService) *OrderHandler {
	return &OrderHandler{orderService: orderService, paymentService: paymentService}
}

// POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.orderService.Create(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, i18n.T(lang, i18n.KeyOrderCreated), order)
}

// GET /orders
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	orders, pagination, err := h.orderService.ListMine(userID, c.Query("status"), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, orders, *pagination)
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	subject, ok := subjectFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Get(subject, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "", order)
}

// PUT /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
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

	var req struct {
		Reason string `json:"reason" validate:"max=500"`
	}
	// The body is optional, cancelling without a reason is fine.
	_ = c.ShouldBindJSON(&req)

	order, err := h.orderService.Cancel(subject, id, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(lang, i18n.KeyOrderCancelled), order)
}

// POST /orders/:id/confirm-payment
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	subject, ok := subjectFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Get(subject, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	status, err := h.paymentService.ConfirmPayment(order)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "", gin.H{"payment_status": status})
}

// PUT /orders/:id/status (admin)
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" validate:"required"`
		Reason string `json:"reason" validate:"max=500"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.orderService.UpdateStatus(id, models.OrderStatus(req.Status), req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, i18n.T(lang, i18n.KeyOrderStatusUpdated), order)
}

// GET /orders/admin/all (admin)
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	orders, pagination, err := h.orderService.ListAll(c.Query("status"), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, orders, *pagination)
}
