// internal/services/product_service_test.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/techshopvn/techshop-backend/internal/models"
)

func newTestProduct(category, brand string, price int64, tags ...string) *models.Product {
	return &models.Product{
		Category: category,
		Brand:    brand,
		Price:    price,
		Tags:     pq.StringArray(tags),
	}
}

func TestSimilarityScore(t *testing.T) {
	ref := newTestProduct("Điện thoại", "Apple", 30000000, "apple", "iphone", "flagship")

	// Category + brand + price band + two shared tags.
	sameLine := newTestProduct("Điện thoại", "Apple", 28000000, "apple", "iphone")
	assert.Equal(t, 3+2+1+2, SimilarityScore(ref, sameLine))

	// Brand only.
	accessory := newTestProduct("Phụ kiện", "Apple", 6000000)
	assert.Equal(t, 2, SimilarityScore(ref, accessory))

	// Category + price band, different brand, one shared tag.
	rival := newTestProduct("Điện thoại", "Samsung", 27000000, "flagship", "android")
	assert.Equal(t, 3+1+1, SimilarityScore(ref, rival))

	// Nothing in common.
	unrelated := newTestProduct("Laptop", "Dell", 2000000, "ultrabook")
	assert.Equal(t, 0, SimilarityScore(ref, unrelated))
}

func TestSimilarityScoreEmptyBrand(t *testing.T) {
	ref := newTestProduct("Phụ kiện", "", 500000)
	cand := newTestProduct("Phụ kiện", "", 500000)

	// An empty brand never counts as a match.
	assert.Equal(t, 3+1, SimilarityScore(ref, cand))
}

func TestPriceBand(t *testing.T) {
	lo, hi := PriceBand(1000000)
	assert.Equal(t, int64(700000), lo)
	assert.Equal(t, int64(1300000), hi)

	ref := newTestProduct("Laptop", "Dell", 1000000)
	inside := newTestProduct("Điện thoại", "Apple", 700000)
	outside := newTestProduct("Điện thoại", "Apple", 699999)
	assert.Equal(t, 1, SimilarityScore(ref, inside))
	assert.Equal(t, 0, SimilarityScore(ref, outside))
}

func TestRankSimilar(t *testing.T) {
	ref := newTestProduct("Điện thoại", "Apple", 30000000, "flagship")

	strong := *newTestProduct("Điện thoại", "Apple", 29000000, "flagship")
	strong.Name = "strong"
	weak := *newTestProduct("Điện thoại", "Samsung", 90000000)
	weak.Name = "weak"
	none := *newTestProduct("Laptop", "Dell", 90000000)
	none.Name = "none"

	ranked := RankSimilar(ref, []models.Product{weak, none, strong}, 10)

	assert.Len(t, ranked, 2)
	assert.Equal(t, "strong", ranked[0].Name)
	assert.Equal(t, "weak", ranked[1].Name)
}

func TestRankSimilarTieBreaks(t *testing.T) {
	ref := newTestProduct("Điện thoại", "Apple", 30000000)

	// All three score identically on category alone.
	lowRated := *newTestProduct("Điện thoại", "Nokia", 90000000)
	lowRated.Name = "low-rated"
	lowRated.Rating = 3.5
	lowRated.ViewCount = 900

	topRated := *newTestProduct("Điện thoại", "Nokia", 90000000)
	topRated.Name = "top-rated"
	topRated.Rating = 4.8
	topRated.ViewCount = 10

	popular := *newTestProduct("Điện thoại", "Nokia", 90000000)
	popular.Name = "popular"
	popular.Rating = 3.5
	popular.ViewCount = 5000

	ranked := RankSimilar(ref, []models.Product{lowRated, topRated, popular}, 10)

	assert.Equal(t, "top-rated", ranked[0].Name)
	assert.Equal(t, "popular", ranked[1].Name)
	assert.Equal(t, "low-rated", ranked[2].Name)
}

func TestRankSimilarLimit(t *testing.T) {
	ref := newTestProduct("Điện thoại", "Apple", 30000000)

	candidates := make([]models.Product, 20)
	for i := range candidates {
		candidates[i] = *newTestProduct("Điện thoại", "Nokia", 90000000)
	}

	ranked := RankSimilar(ref, candidates, 5)
	assert.Len(t, ranked, 5)
}

// fakeCache is an in-memory stand-in for the redis cache.
type fakeCache struct {
	store   map[string]string
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]string)}
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.store[key] = fmt.Sprintf("%s", value)
	return nil
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	return f.store[key], nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.store, key)
		f.deleted = append(f.deleted, key)
	}
	return nil
}

func (f *fakeCache) Key(operation, id string) string {
	return fmt.Sprintf("techshop:%s:%s", operation, id)
}

func seedSimilarCache(t *testing.T, c *fakeCache, id uuid.UUID, count int) {
	t.Helper()

	products := make([]models.Product, count)
	for i := range products {
		products[i] = *newTestProduct("Điện thoại", "Nokia", 90000000)
		products[i].Name = fmt.Sprintf("product-%d", i)
	}

	raw, err := json.Marshal(products)
	assert.NoError(t, err)
	c.store[c.Key("similar", id.String())] = string(raw)
}

func TestGetSimilarServesEveryLimitFromOneEntry(t *testing.T) {
	fake := newFakeCache()
	svc := NewProductService(nil, nil, fake)

	id := uuid.New()
	seedSimilarCache(t, fake, id, 20)

	// The db is nil, so both reads must come out of the single cached
	// entry regardless of the requested limit.
	five, err := svc.GetSimilar(context.Background(), id, 5)
	assert.NoError(t, err)
	assert.Len(t, five, 5)
	assert.Equal(t, "product-0", five[0].Name)

	fifteen, err := svc.GetSimilar(context.Background(), id, 15)
	assert.NoError(t, err)
	assert.Len(t, fifteen, 15)
}

func TestInvalidateSimilarCacheDropsProductEntry(t *testing.T) {
	fake := newFakeCache()
	svc := NewProductService(nil, nil, fake)

	id := uuid.New()
	seedSimilarCache(t, fake, id, 3)

	svc.invalidateSimilarCache(id)

	assert.Empty(t, fake.store)
	assert.Equal(t, []string{fake.Key("similar", id.String())}, fake.deleted)
}

func TestCapSimilar(t *testing.T) {
	products := make([]models.Product, 8)

	assert.Len(t, capSimilar(products, 5), 5)
	assert.Len(t, capSimilar(products, 8), 8)
	assert.Len(t, capSimilar(products, 20), 8)
}
