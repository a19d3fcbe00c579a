package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/taskhive/taskhive-api/internal/constants"
	"github.com/taskhive/taskhive-api/internal/models"
	"github.com/taskhive/taskhive-api/internal/repository"
	"github.com/taskhive/taskhive-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AccessGateTestSuite defines the test suite for AccessGate
type AccessGateTestSuite struct {
	suite.Suite
	db     *gorm.DB
	tokens *services.TokenService
	router *gin.Engine
}

// SetupTest runs before each test
func (suite *AccessGateTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{})
	suite.Require().NoError(err)

	suite.tokens = services.NewTokenService("test-secret")
	gate := NewAccessGate(suite.tokens, repository.NewUserRepository(suite.db))

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	suite.router = gin.New()
	suite.router.GET("/buyer-only", gate.RequireRoles(models.RoleBuyer), func(c *gin.Context) {
		identity, _ := GetIdentity(c)
		role, _ := GetRole(c)
		c.JSON(http.StatusOK, gin.H{"identity": identity, "role": role})
	})
	suite.router.GET("/any-authenticated", gate.RequireRoles(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}

// TearDownTest runs after each test
func (suite *AccessGateTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AccessGateTestSuite) createTestUser(email string, role models.Role) *models.User {
	user := &models.User{
		Email: email,
		Role:  role,
	}
	suite.db.Create(user)
	return user
}

func (suite *AccessGateTestSuite) request(path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: constants.TokenCookieName, Value: token})
	}
	suite.router.ServeHTTP(w, req)
	return w
}

// TestRequireRoles_NoToken tests rejection when no token is supplied
func (suite *AccessGateTestSuite) TestRequireRoles_NoToken() {
	w := suite.request("/buyer-only", "")

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "UNAUTHENTICATED")
}

// TestRequireRoles_InvalidToken tests rejection of a forged token
func (suite *AccessGateTestSuite) TestRequireRoles_InvalidToken() {
	w := suite.request("/buyer-only", "not-a-real-token")

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "INVALID_SESSION")

	// The broken cookie must be cleared so the client stops replaying it
	cleared := false
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == constants.TokenCookieName && cookie.Value == "" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(suite.T(), cleared)
}

// TestRequireRoles_TokenForDeletedUser tests rejection when the user is gone
func (suite *AccessGateTestSuite) TestRequireRoles_TokenForDeletedUser() {
	token, err := suite.tokens.Issue("ghost@example.com")
	suite.Require().NoError(err)

	w := suite.request("/buyer-only", token)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "INVALID_SESSION")
}

// TestRequireRoles_WrongRole tests rejection of an authenticated user
// holding a role outside the allowed set
func (suite *AccessGateTestSuite) TestRequireRoles_WrongRole() {
	suite.createTestUser("worker@example.com", models.RoleWorker)
	token, err := suite.tokens.Issue("worker@example.com")
	suite.Require().NoError(err)

	w := suite.request("/buyer-only", token)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "FORBIDDEN")
}

// TestRequireRoles_AllowedRole tests a valid pass through the gate
func (suite *AccessGateTestSuite) TestRequireRoles_AllowedRole() {
	suite.createTestUser("buyer@example.com", models.RoleBuyer)
	token, err := suite.tokens.Issue("buyer@example.com")
	suite.Require().NoError(err)

	w := suite.request("/buyer-only", token)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "buyer@example.com")
	assert.Contains(suite.T(), w.Body.String(), "Buyer")
}

// TestRequireRoles_RoleResolvedFromStore tests that the effective role is
// the stored one, not whatever the token was issued under
func (suite *AccessGateTestSuite) TestRequireRoles_RoleResolvedFromStore() {
	user := suite.createTestUser("promoted@example.com", models.RoleWorker)
	token, err := suite.tokens.Issue("promoted@example.com")
	suite.Require().NoError(err)

	// Role change after issuance takes effect on the next request
	suite.db.Model(user).Update("role", models.RoleBuyer)

	w := suite.request("/buyer-only", token)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestRequireRoles_EmptyRoleSet tests that a gate with no roles admits
// any authenticated user
func (suite *AccessGateTestSuite) TestRequireRoles_EmptyRoleSet() {
	suite.createTestUser("anyone@example.com", models.RoleWorker)
	token, err := suite.tokens.Issue("anyone@example.com")
	suite.Require().NoError(err)

	w := suite.request("/any-authenticated", token)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestRequireRoles_BearerHeader tests the Authorization header fallback
func (suite *AccessGateTestSuite) TestRequireRoles_BearerHeader() {
	suite.createTestUser("buyer@example.com", models.RoleBuyer)
	token, err := suite.tokens.Issue("buyer@example.com")
	suite.Require().NoError(err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/buyer-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func TestAccessGateTestSuite(t *testing.T) {
	suite.Run(t, new(AccessGateTestSuite))
}
