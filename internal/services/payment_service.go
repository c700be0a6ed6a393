// internal/services/payment_service.go
package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"gorm.io/gorm"

	"github.com/techshopvn/techshop-backend/internal/config"
	"github.com/techshopvn/techshop-backend/internal/models"
)

// PaymentService talks to Stripe for card orders. VND is a zero-decimal
// currency, so amounts go to Stripe as-is.
type PaymentService struct {
	db     *gorm.DB
	config config.PaymentConfig
}

func NewPaymentService(db *gorm.DB, cfg config.PaymentConfig) *PaymentService {
	stripe.Key = cfg.StripeSecretKey

	return &PaymentService{db: db, config: cfg}
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	PaymentID    string `json:"paymentId"`
	Status       string `json:"status"`
}

// CreateIntentForOrder opens a Stripe payment intent for the order total
// and stores its id on the order row.
func (s *PaymentService) CreateIntentForOrder(order *models.Order) error {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(order.TotalAmount),
		Currency: stripe.String("vnd"),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("user_id", order.UserID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return fmt.Errorf("failed to create payment intent: %w", err)
	}

	order.PaymentIntentID = pi.ID
	if err := s.db.Model(order).UpdateColumn("payment_intent_id", pi.ID).Error; err != nil {
		return fmt.Errorf("failed to store payment intent: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"intent_id": pi.ID,
	}).Info("Payment intent created")
	return nil
}

// ConfirmPayment syncs an order's payment status from its Stripe intent,
// typically after the client finishes the card flow.
func (s *PaymentService) ConfirmPayment(order *models.Order) (models.PaymentStatus, error) {
	if order.PaymentIntentID == "" {
		return order.PaymentStatus, &InvalidStateError{Reason: "order has no payment intent"}
	}

	pi, err := paymentintent.Get(order.PaymentIntentID, nil)
	if err != nil {
		return order.PaymentStatus, fmt.Errorf("failed to get payment intent: %w", err)
	}

	var status models.PaymentStatus
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		status = models.PaymentStatusPaid
	case stripe.PaymentIntentStatusRequiresAction,
		stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusRequiresPaymentMethod,
		stripe.PaymentIntentStatusProcessing:
		status = models.PaymentStatusPending
	default:
		status = models.PaymentStatusFailed
	}

	if status != order.PaymentStatus {
		if err := s.db.Model(order).UpdateColumn("payment_status", status).Error; err != nil {
			return order.PaymentStatus, fmt.Errorf("failed to update payment status: %w", err)
		}
		order.PaymentStatus = status
	}
	return status, nil
}

// RefundOrder refunds the full amount of a cancelled card order.
func (s *PaymentService) RefundOrder(order *models.Order) error {
	if order.PaymentIntentID == "" {
		return &InvalidStateError{Reason: "order has no payment intent"}
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(order.PaymentIntentID),
		Amount:        stripe.Int64(order.TotalAmount),
		Reason:        stripe.String("requested_by_customer"),
	}

	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("failed to process refund: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"amount":   order.TotalAmount,
	}).Info("Order refunded")
	return nil
}
