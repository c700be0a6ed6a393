// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	Name          string         `json:"name" gorm:"size:255;not null"`
	Description   string         `json:"description" gorm:"type:text"`
	Price         int64          `json:"price" gorm:"not null"`
	OriginalPrice int64          `json:"original_price" gorm:"default:0"`
	Images        pq.StringArray `json:"images" gorm:"type:text[]"`
	Category      string         `json:"category" gorm:"size:100;index"`
	Brand         string         `json:"brand" gorm:"size:100;index"`
	Tags          pq.StringArray `json:"tags" gorm:"type:text[]"`
	Stock         int            `json:"stock" gorm:"default:0;check:stock >= 0"`
	IsActive      bool           `json:"is_active" gorm:"default:true;index"`

	// Derived counters. Owned by the stats service, recomputed from the
	// interaction tables — never written anywhere else.
	Rating        float64 `json:"rating" gorm:"type:decimal(3,1);default:0"`
	NumReviews    int64   `json:"num_reviews" gorm:"default:0"`
	ViewCount     int64   `json:"view_count" gorm:"default:0"`
	FavoriteCount int64   `json:"favorite_count" gorm:"default:0"`
	BuyerCount    int64   `json:"buyer_count" gorm:"default:0"`
	CommentCount  int64   `json:"comment_count" gorm:"default:0"`
}

// ProductStats is the denormalized counter block plus the most recent
// buyers and commenters, returned by the stats endpoint.
type ProductStats struct {
	ProductID        uuid.UUID       `json:"product_id"`
	ViewCount        int64           `json:"view_count"`
	FavoriteCount    int64           `json:"favorite_count"`
	BuyerCount       int64           `json:"buyer_count"`
	CommentCount     int64           `json:"comment_count"`
	Rating           float64         `json:"rating"`
	NumReviews       int64           `json:"num_reviews"`
	RecentBuyers     []PublicProfile `json:"recent_buyers"`
	RecentCommenters []PublicProfile `json:"recent_commenters"`
}
