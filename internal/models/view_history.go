// internal/models/view_history.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ViewHistory keeps one record per (user, product); repeat views bump
// ViewedAt and ViewCount instead of inserting.
type ViewHistory struct {
	BaseModel
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_view_histories_user_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_view_histories_user_product"`
	ViewedAt  time.Time `json:"viewed_at" gorm:"index"`
	ViewCount int64     `json:"view_count" gorm:"default:1"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
