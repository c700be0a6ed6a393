// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"size:255"`
	Quantity  int       `json:"quantity" gorm:"not null;check:quantity >= 1"`
	Price     int64     `json:"price" gorm:"not null"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// Subtotal is quantity times the unit price snapshotted at purchase time.
func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

type Order struct {
	BaseModel
	UserID          uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	Items           []OrderItem   `json:"items" gorm:"foreignKey:OrderID"`
	ShippingAddress JSONB         `json:"shipping_address" gorm:"type:jsonb"`
	PaymentMethod   PaymentMethod `json:"payment_method" gorm:"type:varchar(20);default:'COD'"`
	PaymentStatus   PaymentStatus `json:"payment_status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentIntentID string        `json:"-" gorm:"size:255"`
	OrderStatus     OrderStatus   `json:"order_status" gorm:"type:varchar(20);default:'pending';index"`
	TotalAmount     int64         `json:"total_amount" gorm:"not null"`
	ShippingFee     int64         `json:"shipping_fee" gorm:"default:0"`
	Discount        int64         `json:"discount" gorm:"default:0"`
	Note            string        `json:"note" gorm:"type:text"`
	DeliveredAt     *time.Time    `json:"delivered_at"`
	CancelledAt     *time.Time    `json:"cancelled_at"`
	CancelReason    string        `json:"cancel_reason" gorm:"size:500"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
