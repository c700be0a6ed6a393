// internal/router/router_test.go
package router

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/techshopvn/techshop-backend/internal/config"
)

func routeSet(t *testing.T) map[string]bool {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := Initialize(nil, &config.Config{})

	routes := make(map[string]bool)
	for _, route := range r.Routes() {
		routes[route.Method+" "+route.Path] = true
	}
	return routes
}

func TestOrderRoutes(t *testing.T) {
	routes := routeSet(t)

	assert.True(t, routes["POST /api/orders"])
	assert.True(t, routes["GET /api/orders"])
	assert.True(t, routes["GET /api/orders/:id"])
	assert.True(t, routes["PUT /api/orders/:id/cancel"])
	assert.True(t, routes["PUT /api/orders/:id/status"])
	assert.True(t, routes["GET /api/orders/admin/all"])

	// Cancellation is an update, not a creation.
	assert.False(t, routes["POST /api/orders/:id/cancel"])
}

func TestPublicCatalogRoutes(t *testing.T) {
	routes := routeSet(t)

	assert.True(t, routes["GET /api/products"])
	assert.True(t, routes["GET /api/products/:id"])
	assert.True(t, routes["GET /api/products/:id/similar"])
	assert.True(t, routes["GET /api/products/:id/stats"])
	assert.True(t, routes["GET /health"])
}
