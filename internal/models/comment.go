// internal/models/comment.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Comment struct {
	BaseModel
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID      `json:"product_id" gorm:"type:uuid;not null;index"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	Rating    int            `json:"rating" gorm:"check:rating >= 1 AND rating <= 5"`
	Images    pq.StringArray `json:"images" gorm:"type:text[]"`
	// Likes holds the ids of users who liked the comment.
	Likes              pq.StringArray `json:"likes" gorm:"type:text[]"`
	IsVerifiedPurchase bool           `json:"is_verified_purchase" gorm:"default:false"`

	User    User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (c *Comment) LikedBy(userID uuid.UUID) bool {
	id := userID.String()
	for _, l := range c.Likes {
		if l == id {
			return true
		}
	}
	return false
}
