// internal/services/stats_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundRating(t *testing.T) {
	// Ratings {4, 5, 5} average to 4.666..., stored as 4.7.
	assert.Equal(t, 4.7, RoundRating(14.0/3.0))

	assert.Equal(t, 0.0, RoundRating(0))
	assert.Equal(t, 5.0, RoundRating(5))
	assert.Equal(t, 4.5, RoundRating(4.45))
	assert.Equal(t, 4.4, RoundRating(4.44))
	assert.Equal(t, 3.3, RoundRating(10.0/3.0))
}
