// internal/services/comment_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/techshopvn/techshop-backend/internal/models"
	"github.com/techshopvn/techshop-backend/internal/utils"
)

type CommentService struct {
	db     *gorm.DB
	stats  *StatsService
	authz  *AuthorizationService
	orders *OrderService
}

func NewCommentService(db *gorm.DB, stats *StatsService, authz *AuthorizationService, orders *OrderService) *CommentService {
	return &CommentService{db: db, stats: stats, authz: authz, orders: orders}
}

type CreateCommentRequest struct {
	ProductID string   `json:"productId" validate:"required,uuid4"`
	Content   string   `json:"content" validate:"required,min=1,max=1000"`
	Rating    int      `json:"rating" validate:"required,gte=1,lte=5"`
	Images    []string `json:"images" validate:"max=5"`
}

type UpdateCommentRequest struct {
	Content *string  `json:"content" validate:"omitempty,min=1,max=1000"`
	Rating  *int     `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Images  []string `json:"images" validate:"max=5"`
}

// RatingDistribution counts comments per star value.
type RatingDistribution map[int]int64

// ListByProduct returns a product's comments, newest first, plus the
// rating distribution over all of them.
func (s *CommentService) ListByProduct(productID uuid.UUID, params utils.PaginationParams) ([]models.Comment, RatingDistribution, *utils.Pagination, error) {
	query := s.db.Model(&models.Comment{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, nil, fmt.Errorf("failed to count comments: %w", err)
	}

	var comments []models.Comment
	err := utils.ApplyPagination(query.Preload("User").Order("created_at DESC"), params).
		Find(&comments).Error
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list comments: %w", err)
	}

	distribution, err := s.ratingDistribution(productID)
	if err != nil {
		return nil, nil, nil, err
	}

	pagination := utils.NewPagination(total, params)
	return comments, distribution, &pagination, nil
}

func (s *CommentService) ratingDistribution(productID uuid.UUID) (RatingDistribution, error) {
	var rows []struct {
		Rating int
		Count  int64
	}
	err := s.db.Model(&models.Comment{}).
		Select("rating, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	distribution := RatingDistribution{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, row := range rows {
		distribution[row.Rating] = row.Count
	}
	return distribution, nil
}

// Create adds a comment with rating. Comments from users with a delivered
// order for the product are marked as verified purchases.
func (s *CommentService) Create(userID uuid.UUID, req *CreateCommentRequest) (*models.Comment, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, &InvalidStateError{Reason: fmt.Sprintf("invalid product id: %s", req.ProductID)}
	}

	var product models.Product
	err = s.db.Where("id = ? AND is_active = ?", productID, true).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "product", ID: productID.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	verified, err := s.orders.HasPurchased(userID, productID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID:             userID,
		ProductID:          productID,
		Content:            req.Content,
		Rating:             req.Rating,
		Images:             pq.StringArray(req.Images),
		Likes:              pq.StringArray{},
		IsVerifiedPurchase: verified,
	}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.recompute(productID)

	if err := s.db.Preload("User").First(comment, comment.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload comment: %w", err)
	}
	return comment, nil
}

// Update edits a comment. Only the author may edit, admins included.
func (s *CommentService) Update(subject Subject, commentID uuid.UUID, req *UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.get(commentID)
	if err != nil {
		return nil, err
	}

	if !s.authz.Can(subject, ActionUpdateComment, comment.UserID) {
		return nil, &ForbiddenError{Reason: "comment belongs to another user"}
	}

	updates := map[string]interface{}{}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(req.Images)
	}

	if len(updates) > 0 {
		if err := s.db.Model(comment).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update comment: %w", err)
		}
		if req.Rating != nil {
			s.recompute(comment.ProductID)
		}
	}
	return comment, nil
}

// Delete removes a comment. Authors may delete their own, admins any.
func (s *CommentService) Delete(subject Subject, commentID uuid.UUID) error {
	comment, err := s.get(commentID)
	if err != nil {
		return err
	}

	if !s.authz.Can(subject, ActionDeleteComment, comment.UserID) {
		return &ForbiddenError{Reason: "comment belongs to another user"}
	}

	if err := s.db.Unscoped().Delete(comment).Error; err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	s.recompute(comment.ProductID)
	return nil
}

// ToggleLike flips the caller's like on a comment and reports the new
// state plus the resulting like count.
func (s *CommentService) ToggleLike(userID, commentID uuid.UUID) (bool, int, error) {
	comment, err := s.get(commentID)
	if err != nil {
		return false, 0, err
	}

	id := userID.String()
	liked := comment.LikedBy(userID)

	if liked {
		likes := make(pq.StringArray, 0, len(comment.Likes))
		for _, l := range comment.Likes {
			if l != id {
				likes = append(likes, l)
			}
		}
		comment.Likes = likes
	} else {
		comment.Likes = append(comment.Likes, id)
	}

	if err := s.db.Model(comment).UpdateColumn("likes", comment.Likes).Error; err != nil {
		return false, 0, fmt.Errorf("failed to update likes: %w", err)
	}
	return !liked, len(comment.Likes), nil
}

// ListMine returns all comments the user has written.
func (s *CommentService) ListMine(userID uuid.UUID, params utils.PaginationParams) ([]models.Comment, *utils.Pagination, error) {
	query := s.db.Model(&models.Comment{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count comments: %w", err)
	}

	var comments []models.Comment
	err := utils.ApplyPagination(query.Preload("Product").Order("created_at DESC"), params).
		Find(&comments).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list comments: %w", err)
	}

	pagination := utils.NewPagination(total, params)
	return comments, &pagination, nil
}

func (s *CommentService) get(commentID uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.Where("id = ?", commentID).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "comment", ID: commentID.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

func (s *CommentService) recompute(productID uuid.UUID) {
	if err := s.stats.RecomputeCommentStats(productID); err != nil {
		logrus.WithError(err).WithField("product_id", productID).Warn("Failed to recompute comment stats")
	}
}
