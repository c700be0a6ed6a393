// internal/services/stats_service.go
package services

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/techshopvn/techshop-backend/internal/models"
)

// StatsService is the only writer of the denormalized counters on products.
// Every recomputation is a full re-aggregation from the owning interaction
// table, never an increment, so concurrent mutations cannot drift the
// counter away from the authoritative rows.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// RecomputeFavoriteCount counts favorite rows for the product and writes
// the result onto the catalog record.
func (s *StatsService) RecomputeFavoriteCount(productID uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.Favorite{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count favorites: %w", err)
	}

	if err := s.db.Model(&models.Product{}).Where("id = ?", productID).
		UpdateColumn("favorite_count", count).Error; err != nil {
		return fmt.Errorf("failed to update favorite count: %w", err)
	}
	return nil
}

// CommentAggregate is the re-aggregated comment state of one product.
type CommentAggregate struct {
	CommentCount int64
	AvgRating    float64
	NumReviews   int64 // distinct commenting users, not comment count
}

// RecomputeCommentStats re-aggregates comment count, average rating and
// distinct reviewer count for the product.
func (s *StatsService) RecomputeCommentStats(productID uuid.UUID) error {
	var agg CommentAggregate
	err := s.db.Model(&models.Comment{}).
		Select("COUNT(*) AS comment_count, COALESCE(AVG(rating), 0) AS avg_rating, COUNT(DISTINCT user_id) AS num_reviews").
		Where("product_id = ?", productID).
		Scan(&agg).Error
	if err != nil {
		return fmt.Errorf("failed to aggregate comments: %w", err)
	}

	updates := map[string]interface{}{
		"comment_count": agg.CommentCount,
		"rating":        RoundRating(agg.AvgRating),
		"num_reviews":   agg.NumReviews,
	}

	if err := s.db.Model(&models.Product{}).Where("id = ?", productID).
		UpdateColumns(updates).Error; err != nil {
		return fmt.Errorf("failed to update comment stats: %w", err)
	}
	return nil
}

// RecomputeBuyerCount counts distinct users with a delivered order
// containing the product.
func (s *StatsService) RecomputeBuyerCount(productID uuid.UUID) error {
	var count int64
	err := s.db.Model(&models.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("order_items.product_id = ? AND orders.order_status = ?", productID, models.OrderStatusDelivered).
		Distinct("orders.user_id").
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to count buyers: %w", err)
	}

	if err := s.db.Model(&models.Product{}).Where("id = ?", productID).
		UpdateColumn("buyer_count", count).Error; err != nil {
		return fmt.Errorf("failed to update buyer count: %w", err)
	}
	return nil
}

// BumpViewCount increments the product's total view counter. Views are the
// one counter kept incrementally: the per-pair history keeps its own tally
// and the total is additive by definition.
func (s *StatsService) BumpViewCount(productID uuid.UUID) {
	if err := s.db.Model(&models.Product{}).Where("id = ?", productID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		logrus.WithError(err).WithField("product_id", productID).Warn("Failed to bump view count")
	}
}

// RoundRating rounds an average rating to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
