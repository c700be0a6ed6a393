// internal/utils/pagination_test.go
package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsForQuery(t *testing.T, query string) PaginationParams {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)

	return GetPaginationParams(c)
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	params := paramsForQuery(t, "")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 10, params.Limit)
	assert.Equal(t, "created_at", params.Sort)
	assert.Equal(t, "desc", params.Order)
}

func TestGetPaginationParamsClamps(t *testing.T) {
	params := paramsForQuery(t, "page=0&limit=1000&order=sideways")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 10, params.Limit)
	assert.Equal(t, "desc", params.Order)
}

func TestGetPaginationParamsPassthrough(t *testing.T) {
	params := paramsForQuery(t, "page=3&limit=25&sort=price&order=asc&search=iphone")

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 25, params.Limit)
	assert.Equal(t, "price", params.Sort)
	assert.Equal(t, "asc", params.Order)
	assert.Equal(t, "iphone", params.Search)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(45, PaginationParams{Page: 2, Limit: 10})

	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, int64(45), p.Total)
	assert.Equal(t, 5, p.Pages)
}

func TestNewPaginationEmpty(t *testing.T) {
	p := NewPagination(0, PaginationParams{Page: 1, Limit: 10})
	assert.Equal(t, 0, p.Pages)
}
