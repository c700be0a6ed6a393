// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/techshopvn/techshop-backend/internal/utils"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	router *gin.Engine
	userID uuid.UUID
}

func (suite *AuthMiddlewareTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")
	suite.userID = uuid.New()

	suite.router = gin.New()
	suite.router.GET("/protected", AuthRequired(), func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		role, _ := c.Get("user_role")
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	suite.router.GET("/admin", AuthRequired(), AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	suite.router.GET("/optional", OptionalAuth(), func(c *gin.Context) {
		_, authenticated := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
	})
}

func (suite *AuthMiddlewareTestSuite) request(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthMiddlewareTestSuite) TestMissingToken() {
	w := suite.request("/protected", "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestMalformedHeader() {
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestInvalidToken() {
	w := suite.request("/protected", "not-a-real-token")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestValidToken() {
	token, err := utils.GenerateJWT(suite.userID, "Test User", "user", 1)
	assert.NoError(suite.T(), err)

	w := suite.request("/protected", token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), suite.userID.String())
}

func (suite *AuthMiddlewareTestSuite) TestAdminRequiredRejectsCustomer() {
	token, err := utils.GenerateJWT(suite.userID, "Test User", "user", 1)
	assert.NoError(suite.T(), err)

	w := suite.request("/admin", token)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestAdminRequiredAllowsAdmin() {
	token, err := utils.GenerateJWT(suite.userID, "Admin", "admin", 1)
	assert.NoError(suite.T(), err)

	w := suite.request("/admin", token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestOptionalAuthAnonymous() {
	w := suite.request("/optional", "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"authenticated":false`)
}

func (suite *AuthMiddlewareTestSuite) TestOptionalAuthBadTokenStaysAnonymous() {
	w := suite.request("/optional", "garbage")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"authenticated":false`)
}

func (suite *AuthMiddlewareTestSuite) TestOptionalAuthWithToken() {
	token, err := utils.GenerateJWT(suite.userID, "Test User", "user", 1)
	assert.NoError(suite.T(), err)

	w := suite.request("/optional", token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"authenticated":true`)
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}
