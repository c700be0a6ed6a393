// internal/utils/response_test.go
package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c, w
}

func TestSuccessResponseEnvelope(t *testing.T) {
	c, w := testContext()
	SuccessResponse(c, "ok", gin.H{"value": 1})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "ok", resp["message"])
	assert.NotNil(t, resp["data"])

	// Empty slots stay out of the payload.
	assert.NotContains(t, resp, "pagination")
	assert.NotContains(t, resp, "error")
}

func TestPaginatedResponseEnvelope(t *testing.T) {
	c, w := testContext()
	PaginatedResponse(c, []string{"a", "b"}, Pagination{Page: 1, Limit: 10, Total: 2, Pages: 1})

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])

	pagination, ok := resp["pagination"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, float64(2), pagination["total"])
	assert.Equal(t, float64(1), pagination["pages"])
}

func TestInternalErrorResponseEnvelope(t *testing.T) {
	c, w := testContext()
	InternalErrorResponse(c, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "boom", resp["error"])
}

func TestErrorResponseStatuses(t *testing.T) {
	cases := []struct {
		respond func(*gin.Context, string)
		status  int
	}{
		{BadRequestResponse, http.StatusBadRequest},
		{UnauthorizedResponse, http.StatusUnauthorized},
		{ForbiddenResponse, http.StatusForbidden},
		{NotFoundResponse, http.StatusNotFound},
		{ConflictResponse, http.StatusConflict},
	}

	for _, tc := range cases {
		c, w := testContext()
		tc.respond(c, "message")
		assert.Equal(t, tc.status, w.Code)
	}
}
