// internal/services/order_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/techshopvn/techshop-backend/internal/config"
	"github.com/techshopvn/techshop-backend/internal/models"
)

var testShipping = config.ShippingConfig{
	FlatFee:       30000,
	FreeThreshold: 500000,
}

func TestComputeTotals(t *testing.T) {
	items := []models.OrderItem{
		{Quantity: 2, Price: 100000},
		{Quantity: 1, Price: 50000},
	}

	totals := ComputeTotals(items, 0, testShipping)

	assert.Equal(t, int64(250000), totals.Subtotal)
	assert.Equal(t, int64(30000), totals.ShippingFee)
	assert.Equal(t, int64(280000), totals.Total)
}

func TestComputeTotalsFreeShippingThreshold(t *testing.T) {
	// Exactly at the threshold the fee is waived.
	atThreshold := []models.OrderItem{{Quantity: 1, Price: 500000}}
	totals := ComputeTotals(atThreshold, 0, testShipping)
	assert.Equal(t, int64(0), totals.ShippingFee)
	assert.Equal(t, int64(500000), totals.Total)

	// One dong below it is not.
	belowThreshold := []models.OrderItem{{Quantity: 1, Price: 499999}}
	totals = ComputeTotals(belowThreshold, 0, testShipping)
	assert.Equal(t, int64(30000), totals.ShippingFee)
	assert.Equal(t, int64(529999), totals.Total)
}

func TestComputeTotalsDiscount(t *testing.T) {
	items := []models.OrderItem{{Quantity: 1, Price: 100000}}

	totals := ComputeTotals(items, 20000, testShipping)
	assert.Equal(t, int64(110000), totals.Total)
	assert.Equal(t, int64(20000), totals.Discount)

	// A discount larger than the order clamps to zero.
	totals = ComputeTotals(items, 999999, testShipping)
	assert.Equal(t, int64(0), totals.Total)
}

func TestComputeTotalsEmptyOrder(t *testing.T) {
	totals := ComputeTotals(nil, 0, testShipping)
	assert.Equal(t, int64(0), totals.Subtotal)
	assert.Equal(t, int64(30000), totals.ShippingFee)
}

func TestValidTransition(t *testing.T) {
	cases := []struct {
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{models.OrderStatusPending, models.OrderStatusConfirmed, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPending, models.OrderStatusShipping, false},
		{models.OrderStatusPending, models.OrderStatusDelivered, false},
		{models.OrderStatusConfirmed, models.OrderStatusShipping, true},
		{models.OrderStatusConfirmed, models.OrderStatusCancelled, true},
		{models.OrderStatusConfirmed, models.OrderStatusDelivered, false},
		{models.OrderStatusShipping, models.OrderStatusDelivered, true},
		{models.OrderStatusShipping, models.OrderStatusCancelled, false},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
		{models.OrderStatusCancelled, models.OrderStatusConfirmed, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, ValidTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestOrderItemSubtotal(t *testing.T) {
	item := models.OrderItem{Quantity: 3, Price: 5990000}
	assert.Equal(t, int64(17970000), item.Subtotal())
}

func testProduct(name string, stock int) *models.Product {
	p := &models.Product{
		Name:     name,
		Price:    100000,
		Stock:    stock,
		IsActive: true,
	}
	p.ID = uuid.New()
	return p
}

func productIndex(products ...*models.Product) map[uuid.UUID]*models.Product {
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID
}

func TestMergeOrderLines(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	lines, err := mergeOrderLines([]OrderItemRequest{
		{ProductID: first.String(), Quantity: 2},
		{ProductID: second.String(), Quantity: 1},
		{ProductID: first.String(), Quantity: 3},
	})

	assert.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, first, lines[0].ProductID)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, second, lines[1].ProductID)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestMergeOrderLinesInvalidID(t *testing.T) {
	_, err := mergeOrderLines([]OrderItemRequest{{ProductID: "not-a-uuid", Quantity: 1}})

	var invalidErr *InvalidStateError
	assert.ErrorAs(t, err, &invalidErr)
}

func TestBuildOrderItemsReservesWithinStock(t *testing.T) {
	phone := testProduct("iPhone 15", 5)
	byID := productIndex(phone)

	items, err := buildOrderItems([]orderLine{{ProductID: phone.ID, Quantity: 3}}, byID)

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, phone.ID, items[0].ProductID)
	assert.Equal(t, "iPhone 15", items[0].Name)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, int64(100000), items[0].Price)

	// After that reservation only 2 remain, so a second order of 3 must
	// be rejected with the requested and available quantities.
	phone.Stock = 2
	_, err = buildOrderItems([]orderLine{{ProductID: phone.ID, Quantity: 3}}, byID)

	var stockErr *InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, phone.ID, stockErr.ProductID)
	assert.Equal(t, "iPhone 15", stockErr.ProductName)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)
}

func TestBuildOrderItemsDuplicateLinesCountOnce(t *testing.T) {
	phone := testProduct("iPhone 15", 5)
	byID := productIndex(phone)

	// Two lines of 3 for a stock of 5 must fail even though each line
	// fits on its own.
	lines, err := mergeOrderLines([]OrderItemRequest{
		{ProductID: phone.ID.String(), Quantity: 3},
		{ProductID: phone.ID.String(), Quantity: 3},
	})
	assert.NoError(t, err)

	_, err = buildOrderItems(lines, byID)

	var stockErr *InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)
}

func TestBuildOrderItemsValidatesAllLinesFirst(t *testing.T) {
	phone := testProduct("iPhone 15", 5)
	laptop := testProduct("MacBook Air", 1)
	byID := productIndex(phone, laptop)

	_, err := buildOrderItems([]orderLine{
		{ProductID: phone.ID, Quantity: 2},
		{ProductID: laptop.ID, Quantity: 2},
	}, byID)

	var stockErr *InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, laptop.ID, stockErr.ProductID)
}

func TestBuildOrderItemsUnknownOrInactiveProduct(t *testing.T) {
	missing := uuid.New()
	_, err := buildOrderItems([]orderLine{{ProductID: missing, Quantity: 1}}, productIndex())

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "product", notFound.Resource)
	assert.Equal(t, missing.String(), notFound.ID)

	retired := testProduct("Discontinued", 10)
	retired.IsActive = false
	_, err = buildOrderItems([]orderLine{{ProductID: retired.ID, Quantity: 1}}, productIndex(retired))
	assert.True(t, errors.As(err, &notFound))
}

func TestRefundable(t *testing.T) {
	cases := []struct {
		name   string
		method models.PaymentMethod
		status models.PaymentStatus
		intent string
		want   bool
	}{
		{"paid card order", models.PaymentMethodCard, models.PaymentStatusPaid, "pi_123", true},
		{"unpaid card order", models.PaymentMethodCard, models.PaymentStatusPending, "pi_123", false},
		{"card order without intent", models.PaymentMethodCard, models.PaymentStatusPaid, "", false},
		{"paid cod order", models.PaymentMethodCOD, models.PaymentStatusPaid, "", false},
	}

	for _, tc := range cases {
		order := &models.Order{
			PaymentMethod:   tc.method,
			PaymentStatus:   tc.status,
			PaymentIntentID: tc.intent,
		}
		assert.Equal(t, tc.want, refundable(order), tc.name)
	}
}
