// internal/services/favorite_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/techshopvn/techshop-backend/internal/models"
	"github.com/techshopvn/techshop-backend/internal/utils"
)

type FavoriteService struct {
	db    *gorm.DB
	stats *StatsService
}

func NewFavoriteService(db *gorm.DB, stats *StatsService) *FavoriteService {
	return &FavoriteService{db: db, stats: stats}
}

// List returns the user's favorites whose products are still active,
// newest first.
func (s *FavoriteService) List(userID uuid.UUID, params utils.PaginationParams) ([]models.Favorite, *utils.Pagination, error) {
	query := s.db.Model(&models.Favorite{}).
		Joins("JOIN products ON products.id = favorites.product_id").
		Where("favorites.user_id = ? AND products.is_active = ?", userID, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count favorites: %w", err)
	}

	var favorites []models.Favorite
	err := utils.ApplyPagination(query.Preload("Product").Order("favorites.created_at DESC"), params).
		Find(&favorites).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	pagination := utils.NewPagination(total, params)
	return favorites, &pagination, nil
}

// Add favorites a product for the user. Favoriting twice is a conflict.
func (s *FavoriteService) Add(userID, productID uuid.UUID) (*models.Favorite, error) {
	var product models.Product
	err := s.db.Where("id = ? AND is_active = ?", productID, true).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "product", ID: productID.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check favorite: %w", err)
	}
	if count > 0 {
		return nil, &ConflictError{Reason: "product already favorited"}
	}

	favorite := &models.Favorite{UserID: userID, ProductID: productID}
	if err := s.db.Create(favorite).Error; err != nil {
		return nil, fmt.Errorf("failed to create favorite: %w", err)
	}

	s.recompute(productID)
	return favorite, nil
}

// Remove unfavorites a product.
func (s *FavoriteService) Remove(userID, productID uuid.UUID) error {
	result := s.db.Unscoped().
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Resource: "favorite", ID: productID.String()}
	}

	s.recompute(productID)
	return nil
}

// Toggle flips the favorite state and reports the new state.
func (s *FavoriteService) Toggle(userID, productID uuid.UUID) (bool, error) {
	favorited, err := s.IsFavorited(userID, productID)
	if err != nil {
		return false, err
	}

	if favorited {
		if err := s.Remove(userID, productID); err != nil {
			return false, err
		}
		return false, nil
	}

	if _, err := s.Add(userID, productID); err != nil {
		return false, err
	}
	return true, nil
}

// IsFavorited reports whether the user has favorited the product.
func (s *FavoriteService) IsFavorited(userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

func (s *FavoriteService) recompute(productID uuid.UUID) {
	if err := s.stats.RecomputeFavoriteCount(productID); err != nil {
		logrus.WithError(err).WithField("product_id", productID).Warn("Failed to recompute favorite count")
	}
}
