// internal/services/view_history_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/techshopvn/techshop-backend/internal/models"
	"github.com/techshopvn/techshop-backend/internal/utils"
)

type ViewHistoryService struct {
	db    *gorm.DB
	stats *StatsService
}

func NewViewHistoryService(db *gorm.DB, stats *StatsService) *ViewHistoryService {
	return &ViewHistoryService{db: db, stats: stats}
}

// Record notes that the user viewed the product. The (user, product) row
// is upserted: a repeat view refreshes the timestamp and bumps the pair
// counter, then the product's total view count is bumped.
func (s *ViewHistoryService) Record(userID, productID uuid.UUID) error {
	var product models.Product
	err := s.db.Where("id = ? AND is_active = ?", productID, true).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: "product", ID: productID.String()}
	}
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}

	entry := models.ViewHistory{
		UserID:    userID,
		ProductID: productID,
		ViewedAt:  time.Now(),
		ViewCount: 1,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"viewed_at":  time.Now(),
			"view_count": gorm.Expr("view_histories.view_count + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}

	s.stats.BumpViewCount(productID)
	return nil
}

// List returns the user's view history, most recently viewed first.
func (s *ViewHistoryService) List(userID uuid.UUID, params utils.PaginationParams) ([]models.ViewHistory, *utils.Pagination, error) {
	query := s.db.Model(&models.ViewHistory{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count view history: %w", err)
	}

	var entries []models.ViewHistory
	err := utils.ApplyPagination(query.Preload("Product").Order("viewed_at DESC"), params).
		Find(&entries).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list view history: %w", err)
	}

	pagination := utils.NewPagination(total, params)
	return entries, &pagination, nil
}

// Recent returns the user's most recently viewed products.
func (s *ViewHistoryService) Recent(userID uuid.UUID, limit int) ([]models.ViewHistory, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var entries []models.ViewHistory
	err := s.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("viewed_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent views: %w", err)
	}
	return entries, nil
}

// Remove deletes one product from the user's history.
func (s *ViewHistoryService) Remove(userID, productID uuid.UUID) error {
	result := s.db.Unscoped().
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.ViewHistory{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove view history: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Resource: "view history", ID: productID.String()}
	}
	return nil
}

// Clear wipes the user's entire view history.
func (s *ViewHistoryService) Clear(userID uuid.UUID) error {
	err := s.db.Unscoped().
		Where("user_id = ?", userID).
		Delete(&models.ViewHistory{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear view history: %w", err)
	}
	return nil
}
