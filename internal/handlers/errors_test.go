// internal/handlers/errors_test.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/techshopvn/techshop-backend/internal/services"
)

func respondWith(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	respondServiceError(c, err)
	return w
}

func TestRespondServiceErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{&services.NotFoundError{Resource: "product", ID: uuid.New().String()}, http.StatusNotFound},
		{&services.ForbiddenError{Reason: "not yours"}, http.StatusForbidden},
		{&services.ConflictError{Reason: "already favorited"}, http.StatusConflict},
		{&services.InvalidStateError{Reason: "bad transition"}, http.StatusBadRequest},
		{&services.InsufficientStockError{ProductID: uuid.New(), ProductName: "iPhone", Requested: 3, Available: 2}, http.StatusConflict},
		{services.ErrEmptyOrder, http.StatusBadRequest},
		{services.ErrInvalidCredential, http.StatusUnauthorized},
		{services.ErrEmailTaken, http.StatusConflict},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := respondWith(tc.err)
		assert.Equal(t, tc.status, w.Code, "error %v", tc.err)
		assert.Contains(t, w.Body.String(), `"success":false`)
	}
}

func TestRespondServiceErrorWrapped(t *testing.T) {
	// Errors wrapped by services still map by type.
	wrapped := fmt.Errorf("loading order: %w",
		&services.NotFoundError{Resource: "order", ID: uuid.New().String()})

	w := respondWith(wrapped)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
