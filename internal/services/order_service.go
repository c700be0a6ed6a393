// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/techshopvn/techshop-backend/internal/config"
	"github.com/techshopvn/techshop-backend/internal/models"
	"github.com/techshopvn/techshop-backend/internal/utils"
)

type OrderService struct {
	db       *gorm.DB
	stats    *StatsService
	authz    *AuthorizationService
	payments *PaymentService
	shipping config.ShippingConfig
}

func NewOrderService(db *gorm.DB, stats *StatsService, authz *AuthorizationService, payments *PaymentService, shipping config.ShippingConfig) *OrderService {
	return &OrderService{
		db:       db,
		stats:    stats,
		authz:    authz,
		payments: payments,
		shipping: shipping,
	}
}

type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress map[string]interface{} `json:"shippingAddress" validate:"required"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required"`
	Discount        int64                  `json:"discount" validate:"gte=0"`
	Note            string                 `json:"note" validate:"max=1000"`
}

// OrderTotals is the priced breakdown of an order.
type OrderTotals struct {
	Subtotal    int64
	ShippingFee int64
	Discount    int64
	Total       int64
}

// ComputeTotals prices an order: the item subtotal, a flat shipping fee
// waived at the free threshold, minus the discount. The total never goes
// below zero.
func ComputeTotals(items []models.OrderItem, discount int64, shipping config.ShippingConfig) OrderTotals {
	var subtotal int64
	for _, item := range items {
		subtotal += item.Subtotal()
	}

	fee := shipping.FlatFee
	if subtotal >= shipping.FreeThreshold {
		fee = 0
	}

	total := subtotal + fee - discount
	if total < 0 {
		total = 0
	}

	return OrderTotals{
		Subtotal:    subtotal,
		ShippingFee: fee,
		Discount:    discount,
		Total:       total,
	}
}

// ValidTransition reports whether an order may move from one status to
// another. Orders advance pending, confirmed, shipping, delivered; only
// pending and confirmed orders may be cancelled.
func ValidTransition(from, to models.OrderStatus) bool {
	switch from {
	case models.OrderStatusPending:
		return to == models.OrderStatusConfirmed || to == models.OrderStatusCancelled
	case models.OrderStatusConfirmed:
		return to == models.OrderStatusShipping || to == models.OrderStatusCancelled
	case models.OrderStatusShipping:
		return to == models.OrderStatusDelivered
	}
	return false
}

// orderLine is one merged, parsed line of an order request.
type orderLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// mergeOrderLines parses the requested lines and collapses duplicates of
// the same product, preserving first-seen order, so the stock check sees
// the real requested quantity.
func mergeOrderLines(items []OrderItemRequest) ([]orderLine, error) {
	quantities := make(map[uuid.UUID]int, len(items))
	ordered := make([]uuid.UUID, 0, len(items))

	for _, item := range items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, &InvalidStateError{Reason: fmt.Sprintf("invalid product id: %s", item.ProductID)}
		}
		if _, seen := quantities[pid]; !seen {
			ordered = append(ordered, pid)
		}
		quantities[pid] += item.Quantity
	}

	lines := make([]orderLine, len(ordered))
	for i, pid := range ordered {
		lines[i] = orderLine{ProductID: pid, Quantity: quantities[pid]}
	}
	return lines, nil
}

// buildOrderItems checks every line against the loaded products and
// snapshots name and unit price. Every line must validate before any
// stock moves: an unknown or inactive product is a not-found with the
// failing id, a short line reports requested versus available.
func buildOrderItems(lines []orderLine, byID map[uuid.UUID]*models.Product) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok || !product.IsActive {
			return nil, &NotFoundError{Resource: "product", ID: line.ProductID.String()}
		}
		if product.Stock < line.Quantity {
			return nil, &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   line.Quantity,
				Available:   product.Stock,
			}
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
	}
	return items, nil
}

// refundable reports whether cancelling the order must refund a captured
// card payment.
func refundable(order *models.Order) bool {
	return order.PaymentMethod == models.PaymentMethodCard &&
		order.PaymentStatus == models.PaymentStatusPaid &&
		order.PaymentIntentID != ""
}

// Create places an order. All stock checks and decrements happen inside
// one transaction with the product rows locked, so a line item is either
// fully reserved or not at all, exactly once.
func (s *OrderService) Create(userID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	method := models.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		return nil, &InvalidStateError{Reason: fmt.Sprintf("unknown payment method: %s", req.PaymentMethod)}
	}

	lines, err := mergeOrderLines(req.Items)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}

	var order *models.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var products []models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", ids).
			Find(&products).Error; err != nil {
			return fmt.Errorf("failed to lock products: %w", err)
		}

		byID := make(map[uuid.UUID]*models.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		items, err := buildOrderItems(lines, byID)
		if err != nil {
			return err
		}

		for _, item := range items {
			result := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to reserve stock: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				product := byID[item.ProductID]
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   item.Quantity,
					Available:   product.Stock,
				}
			}
		}

		totals := ComputeTotals(items, req.Discount, s.shipping)

		order = &models.Order{
			UserID:          userID,
			Items:           items,
			ShippingAddress: models.JSONB(req.ShippingAddress),
			PaymentMethod:   method,
			PaymentStatus:   models.PaymentStatusPending,
			OrderStatus:     models.OrderStatusPending,
			TotalAmount:     totals.Total,
			ShippingFee:     totals.ShippingFee,
			Discount:        totals.Discount,
			Note:            req.Note,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if method == models.PaymentMethodCard && s.payments != nil {
		if err := s.payments.CreateIntentForOrder(order); err != nil {
			logrus.WithError(err).WithField("order_id", order.ID).Warn("Failed to create payment intent")
		}
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"total":    order.TotalAmount,
		"items":    len(order.Items),
	}).Info("Order created")
	return order, nil
}

// Get returns one order with its items, enforcing the view policy.
func (s *OrderService) Get(subject Subject, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Items.Product").
		Where("id = ?", orderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "order", ID: orderID.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if !s.authz.Can(subject, ActionViewOrder, order.UserID) {
		return nil, &ForbiddenError{Reason: "order belongs to another user"}
	}
	return &order, nil
}

// ListMine returns the caller's orders, newest first, optionally filtered
// by status.
func (s *OrderService) ListMine(userID uuid.UUID, status string, params utils.PaginationParams) ([]models.Order, *utils.Pagination, error) {
	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("order_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := utils.ApplyPagination(query.Preload("Items").Order("created_at DESC"), params).
		Find(&orders).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list orders: %w", err)
	}

	pagination := utils.NewPagination(total, params)
	return orders, &pagination, nil
}

// ListAll returns every order for the admin dashboard.
func (s *OrderService) ListAll(status string, params utils.PaginationParams) ([]models.Order, *utils.Pagination, error) {
	query := s.db.Model(&models.Order{})
	if status != "" {
		query = query.Where("order_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := utils.ApplyPagination(query.Preload("Items").Preload("User").Order("created_at DESC"), params).
		Find(&orders).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list orders: %w", err)
	}

	pagination := utils.NewPagination(total, params)
	return orders, &pagination, nil
}

// Cancel cancels a pending or confirmed order, restoring the reserved
// stock in the same transaction. Paid card orders get a refund issued
// after the cancellation commits.
func (s *OrderService) Cancel(subject Subject, orderID uuid.UUID, reason string) (*models.Order, error) {
	var order models.Order
	var refund bool

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").Where("id = ?", orderID).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "order", ID: orderID.String()}
		}
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}

		if !s.authz.Can(subject, ActionCancelOrder, order.UserID) {
			return &ForbiddenError{Reason: "order belongs to another user"}
		}
		if !ValidTransition(order.OrderStatus, models.OrderStatusCancelled) {
			return &InvalidStateError{
				Reason: fmt.Sprintf("order in status %s cannot be cancelled", order.OrderStatus),
			}
		}

		if err := restoreStock(tx, order.Items); err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"order_status":  models.OrderStatusCancelled,
			"cancelled_at":  now,
			"cancel_reason": reason,
		}
		refund = refundable(&order)
		if refund {
			updates["payment_status"] = models.PaymentStatusRefunded
		}

		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if refund && s.payments != nil {
		if err := s.payments.RefundOrder(&order); err != nil {
			logrus.WithError(err).WithField("order_id", order.ID).Error("Failed to refund order")
		}
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  order.UserID,
	}).Info("Order cancelled")
	return &order, nil
}

// UpdateStatus moves an order along the status machine. Delivery stamps
// the timestamp and refreshes buyer counts; an admin cancellation
// restores stock, records the reason and refunds a paid card order, the
// same as a user cancellation.
func (s *OrderService) UpdateStatus(orderID uuid.UUID, to models.OrderStatus, reason string) (*models.Order, error) {
	if !to.Valid() {
		return nil, &InvalidStateError{Reason: fmt.Sprintf("unknown order status: %s", to)}
	}

	var order models.Order
	var refund bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").Where("id = ?", orderID).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "order", ID: orderID.String()}
		}
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}

		if !ValidTransition(order.OrderStatus, to) {
			return &InvalidStateError{
				Reason: fmt.Sprintf("cannot move order from %s to %s", order.OrderStatus, to),
			}
		}

		updates := map[string]interface{}{"order_status": to}
		now := time.Now()
		switch to {
		case models.OrderStatusDelivered:
			updates["delivered_at"] = now
			if order.PaymentMethod == models.PaymentMethodCOD {
				updates["payment_status"] = models.PaymentStatusPaid
			}
		case models.OrderStatusCancelled:
			updates["cancelled_at"] = now
			updates["cancel_reason"] = reason
			refund = refundable(&order)
			if refund {
				updates["payment_status"] = models.PaymentStatusRefunded
			}
			if err := restoreStock(tx, order.Items); err != nil {
				return err
			}
		}

		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if refund && s.payments != nil {
		if err := s.payments.RefundOrder(&order); err != nil {
			logrus.WithError(err).WithField("order_id", order.ID).Error("Failed to refund order")
		}
	}

	if to == models.OrderStatusDelivered {
		for _, item := range order.Items {
			if err := s.stats.RecomputeBuyerCount(item.ProductID); err != nil {
				logrus.WithError(err).WithField("product_id", item.ProductID).Warn("Failed to recompute buyer count")
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"status":   to,
	}).Info("Order status updated")
	return &order, nil
}

// HasPurchased reports whether the user has a delivered order containing
// the product. Comments from such users are marked verified.
func (s *OrderService) HasPurchased(userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ? AND order_items.product_id = ? AND orders.order_status = ?",
			userID, productID, models.OrderStatusDelivered).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check purchases: %w", err)
	}
	return count > 0, nil
}

func restoreStock(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		err := tx.Model(&models.Product{}).
			Where("id = ?", item.ProductID).
			Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error
		if err != nil {
			return fmt.Errorf("failed to restore stock: %w", err)
		}
	}
	return nil
}
