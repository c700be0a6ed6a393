// internal/services/product_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/techshopvn/techshop-backend/internal/cache"
	"github.com/techshopvn/techshop-backend/internal/models"
	"github.com/techshopvn/techshop-backend/internal/utils"
)

const (
	similarCacheTTL = 10 * time.Minute

	// The cache holds one ranked list per product, at the largest limit a
	// request may ask for, so invalidation is a single key delete.
	similarResultCap = 50
)

type ProductService struct {
	db    *gorm.DB
	stats *StatsService
	cache cache.Cache
}

func NewProductService(db *gorm.DB, stats *StatsService, c cache.Cache) *ProductService {
	return &ProductService{db: db, stats: stats, cache: c}
}

// ProductFilters narrows catalog listings. Zero values mean "no filter".
type ProductFilters struct {
	Category string
	Brand    string
	MinPrice int64
	MaxPrice int64
	InStock  bool
}

type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=200"`
	Description   string   `json:"description" validate:"max=5000"`
	Price         int64    `json:"price" validate:"required,gte=0"`
	OriginalPrice int64    `json:"originalPrice" validate:"gte=0"`
	Images        []string `json:"images"`
	Category      string   `json:"category" validate:"required,min=2,max=100"`
	Brand         string   `json:"brand" validate:"max=100"`
	Tags          []string `json:"tags"`
	Stock         int      `json:"stock" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=2,max=200"`
	Description   *string  `json:"description" validate:"omitempty,max=5000"`
	Price         *int64   `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice *int64   `json:"originalPrice" validate:"omitempty,gte=0"`
	Images        []string `json:"images"`
	Category      *string  `json:"category" validate:"omitempty,min=2,max=100"`
	Brand         *string  `json:"brand" validate:"omitempty,max=100"`
	Tags          []string `json:"tags"`
	Stock         *int     `json:"stock" validate:"omitempty,gte=0"`
	IsActive      *bool    `json:"isActive"`
}

// List returns active products matching the filters, paginated. Search
// matches name, brand and category.
func (s *ProductService) List(params utils.PaginationParams, filters ProductFilters) ([]models.Product, *utils.Pagination, error) {
	query := s.db.Model(&models.Product{}).Where("is_active = ?", true)

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Brand != "" {
		query = query.Where("brand = ?", filters.Brand)
	}
	if filters.MinPrice > 0 {
		query = query.Where("price >= ?", filters.MinPrice)
	}
	if filters.MaxPrice > 0 {
		query = query.Where("price <= ?", filters.MaxPrice)
	}
	if filters.InStock {
		query = query.Where("stock > 0")
	}
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR brand ILIKE ? OR category ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSort := []string{"created_at", "price", "rating", "view_count", "buyer_count", "name"}
	query = utils.ApplySort(query, params, allowedSort)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to list products: %w", err)
	}

	pagination := utils.NewPagination(total, params)
	return products, &pagination, nil
}

// Get returns one active product by id.
func (s *ProductService) Get(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.Where("id = ? AND is_active = ?", id, true).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "product", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// ProductDetail is a product plus viewer-specific decoration.
type ProductDetail struct {
	models.Product
	IsFavorited bool `json:"isFavorited"`
}

// GetDetail returns the product and whether the viewer has favorited it.
// viewerID is uuid.Nil for anonymous viewers.
func (s *ProductService) GetDetail(id, viewerID uuid.UUID) (*ProductDetail, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	detail := &ProductDetail{Product: *product}
	if viewerID != uuid.Nil {
		var count int64
		if err := s.db.Model(&models.Favorite{}).
			Where("user_id = ? AND product_id = ?", viewerID, id).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check favorite: %w", err)
		}
		detail.IsFavorited = count > 0
	}
	return detail, nil
}

// Create inserts a new catalog product.
func (s *ProductService) Create(req *CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Images:        pq.StringArray(req.Images),
		Category:      req.Category,
		Brand:         req.Brand,
		Tags:          pq.StringArray(req.Tags),
		Stock:         req.Stock,
		IsActive:      true,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Update applies the non-nil fields of req to the product.
func (s *ProductService) Update(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	var product models.Product
	err := s.db.Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "product", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.OriginalPrice != nil {
		updates["original_price"] = *req.OriginalPrice
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(req.Images)
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(req.Tags)
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	s.invalidateSimilarCache(id)
	return &product, nil
}

// Delete deactivates the product. Rows are kept so order history stays
// resolvable.
func (s *ProductService) Delete(id uuid.UUID) error {
	result := s.db.Model(&models.Product{}).Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Resource: "product", ID: id.String()}
	}

	s.invalidateSimilarCache(id)
	return nil
}

// GetSimilar returns up to limit active products ranked by similarity to
// the reference product. Results are cached briefly since the score only
// depends on slowly-changing catalog fields.
func (s *ProductService) GetSimilar(ctx context.Context, id uuid.UUID, limit int) ([]models.Product, error) {
	if limit <= 0 || limit > similarResultCap {
		limit = 10
	}

	cacheKey := ""
	if s.cache != nil {
		cacheKey = s.cache.Key("similar", id.String())
		if raw, err := s.cache.Get(ctx, cacheKey); err == nil && raw != "" {
			var cached []models.Product
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return capSimilar(cached, limit), nil
			}
		}
	}

	ref, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	// Candidate filter: anything sharing category, brand or a tag, or in
	// the price band. Scoring and ranking happen in memory.
	candQuery := s.db.Where("id <> ? AND is_active = ?", id, true)
	lo, hi := PriceBand(ref.Price)
	conditions := s.db.Where("category = ?", ref.Category).
		Or("price BETWEEN ? AND ?", lo, hi)
	if ref.Brand != "" {
		conditions = conditions.Or("brand = ?", ref.Brand)
	}
	if len(ref.Tags) > 0 {
		conditions = conditions.Or("tags && ?", ref.Tags)
	}

	var candidates []models.Product
	if err := candQuery.Where(conditions).Limit(500).Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to load similar candidates: %w", err)
	}

	ranked := RankSimilar(ref, candidates, similarResultCap)

	if s.cache != nil {
		if raw, err := json.Marshal(ranked); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, similarCacheTTL); err != nil {
				logrus.WithError(err).Warn("Failed to cache similar products")
			}
		}
	}
	return capSimilar(ranked, limit), nil
}

func capSimilar(products []models.Product, limit int) []models.Product {
	if len(products) > limit {
		return products[:limit]
	}
	return products
}

func (s *ProductService) invalidateSimilarCache(id uuid.UUID) {
	if s.cache == nil {
		return
	}
	key := s.cache.Key("similar", id.String())
	if err := s.cache.Delete(context.Background(), key); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate similar cache")
	}
}

// GetStats returns the product's interaction statistics together with the
// most recent buyers and commenters.
func (s *ProductService) GetStats(id uuid.UUID) (*models.ProductStats, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	stats := &models.ProductStats{
		ProductID:     product.ID,
		ViewCount:     product.ViewCount,
		FavoriteCount: product.FavoriteCount,
		BuyerCount:    product.BuyerCount,
		CommentCount:  product.CommentCount,
		Rating:        product.Rating,
		NumReviews:    product.NumReviews,
	}

	var buyerIDs []uuid.UUID
	err = s.db.Model(&models.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("order_items.product_id = ? AND orders.order_status = ?", id, models.OrderStatusDelivered).
		Group("orders.user_id").
		Order("MAX(orders.created_at) DESC").
		Limit(5).
		Pluck("orders.user_id", &buyerIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent buyers: %w", err)
	}

	var commenterIDs []uuid.UUID
	err = s.db.Model(&models.Comment{}).
		Where("product_id = ?", id).
		Group("user_id").
		Order("MAX(created_at) DESC").
		Limit(5).
		Pluck("user_id", &commenterIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent commenters: %w", err)
	}

	if len(buyerIDs) > 0 {
		if err := s.db.Model(&models.User{}).Where("id IN ?", buyerIDs).
			Find(&stats.RecentBuyers).Error; err != nil {
			return nil, fmt.Errorf("failed to load buyer profiles: %w", err)
		}
	}
	if len(commenterIDs) > 0 {
		if err := s.db.Model(&models.User{}).Where("id IN ?", commenterIDs).
			Find(&stats.RecentCommenters).Error; err != nil {
			return nil, fmt.Errorf("failed to load commenter profiles: %w", err)
		}
	}
	return stats, nil
}

// PriceBand returns the inclusive price range considered "similar" to the
// given price: within 30 percent either way.
func PriceBand(price int64) (int64, int64) {
	lo := int64(float64(price) * 0.7)
	hi := int64(float64(price) * 1.3)
	return lo, hi
}

// SimilarityScore scores how similar cand is to ref. Same category is
// worth 3, same non-empty brand 2, price within the 30 percent band 1,
// and each shared tag 1.
func SimilarityScore(ref, cand *models.Product) int {
	score := 0

	if ref.Category != "" && cand.Category == ref.Category {
		score += 3
	}
	if ref.Brand != "" && cand.Brand == ref.Brand {
		score += 2
	}

	lo, hi := PriceBand(ref.Price)
	if cand.Price >= lo && cand.Price <= hi {
		score++
	}

	tags := make(map[string]bool, len(ref.Tags))
	for _, t := range ref.Tags {
		tags[t] = true
	}
	for _, t := range cand.Tags {
		if tags[t] {
			score++
		}
	}
	return score
}

// RankSimilar orders candidates by similarity score, breaking ties by
// rating then view count, and drops candidates with zero score.
func RankSimilar(ref *models.Product, candidates []models.Product, limit int) []models.Product {
	type scored struct {
		product models.Product
		score   int
	}

	ranked := make([]scored, 0, len(candidates))
	for i := range candidates {
		sc := SimilarityScore(ref, &candidates[i])
		if sc > 0 {
			ranked = append(ranked, scored{product: candidates[i], score: sc})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if ranked[i].product.Rating != ranked[j].product.Rating {
			return ranked[i].product.Rating > ranked[j].product.Rating
		}
		return ranked[i].product.ViewCount > ranked[j].product.ViewCount
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]models.Product, len(ranked))
	for i, r := range ranked {
		out[i] = r.product
	}
	return out
}
