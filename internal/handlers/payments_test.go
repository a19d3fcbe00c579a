package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

// fakeGateway satisfies services.PaymentGateway without network calls
type fakeGateway struct {
	secret string
	err    error
}

func (g *fakeGateway) CreateIntent(ctx context.Context, amountCents int64) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.secret, nil
}

// PaymentHandlerTestSuite defines the test suite for PaymentHandler
type PaymentHandlerTestSuite struct {
	suite.Suite
	db       *gorm.DB
	router   *gin.Engine
	gateway  *fakeGateway
	identity string
}

// SetupTest runs before each test
func (suite *PaymentHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.PaymentOffer{},
		&models.PaymentRecord{},
	)
	suite.Require().NoError(err)

	suite.gateway = &fakeGateway{secret: "cs_test_secret"}
	handler := NewPaymentHandler(services.NewPaymentService(repository.NewPaymentRepository(suite.db), suite.gateway))

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	suite.identity = ""
	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		if suite.identity != "" {
			c.Set(constants.ContextKeyIdentity, suite.identity)
		}
	})
	suite.router.GET("/api/payments/offers", handler.ListOffers)
	suite.router.GET("/api/payments/offers/:id", handler.GetOffer)
	suite.router.POST("/api/payments/intent", handler.CreateIntent)
	suite.router.POST("/api/payments/confirm", handler.Confirm)
	suite.router.GET("/api/payments/history/:email", handler.History)
}

// TearDownTest runs after each test
func (suite *PaymentHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *PaymentHandlerTestSuite) createBuyer(email string, coins int64) *models.User {
	user := &models.User{
		Email: email,
		Role:  models.RoleBuyer,
		Coins: coins,
	}
	suite.db.Create(user)
	return user
}

func (suite *PaymentHandlerTestSuite) do(method, url string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	suite.router.ServeHTTP(w, req)
	return w
}

// TestListOffers tests the public coin package listing
func (suite *PaymentHandlerTestSuite) TestListOffers() {
	suite.db.Create(&models.PaymentOffer{Dollars: 1, Coins: 10})
	suite.db.Create(&models.PaymentOffer{Dollars: 10, Coins: 150})

	w := suite.do("GET", "/api/payments/offers", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var offers []models.PaymentOffer
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &offers))
	assert.Len(suite.T(), offers, 2)
}

// TestGetOffer_NotFound tests fetching a missing coin package
func (suite *PaymentHandlerTestSuite) TestGetOffer_NotFound() {
	w := suite.do("GET", "/api/payments/offers/999", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestCreateIntent_ReturnsClientSecret tests the gateway intent path
func (suite *PaymentHandlerTestSuite) TestCreateIntent_ReturnsClientSecret() {
	w := suite.do("POST", "/api/payments/intent", gin.H{"price": 9.99})

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "cs_test_secret", response["clientSecret"])
}

// TestCreateIntent_AmountTooSmall tests the sub-cent rejection
func (suite *PaymentHandlerTestSuite) TestCreateIntent_AmountTooSmall() {
	w := suite.do("POST", "/api/payments/intent", gin.H{"price": 0.001})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateIntent_GatewayFailure tests the upstream failure mapping
func (suite *PaymentHandlerTestSuite) TestCreateIntent_GatewayFailure() {
	suite.gateway.err = errors.New("gateway unreachable")

	w := suite.do("POST", "/api/payments/intent", gin.H{"price": 9.99})

	assert.Equal(suite.T(), http.StatusBadGateway, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "UPSTREAM_FAILURE")
}

// TestConfirm_CreditsCoins tests that confirmation records the payment
// and credits the purchased coins atomically
func (suite *PaymentHandlerTestSuite) TestConfirm_CreditsCoins() {
	suite.identity = "buyer@example.com"
	suite.createBuyer("buyer@example.com", 50)

	w := suite.do("POST", "/api/payments/confirm", gin.H{
		"dollars": 10.0,
		"coins":   100,
	})

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var buyer models.User
	suite.Require().NoError(suite.db.Where("email = ?", "buyer@example.com").First(&buyer).Error)
	assert.Equal(suite.T(), int64(150), buyer.Coins)

	var records []models.PaymentRecord
	suite.Require().NoError(suite.db.Where("buyer_email = ?", "buyer@example.com").Find(&records).Error)
	suite.Require().Len(records, 1)
	assert.Equal(suite.T(), int64(100), records[0].Coins)
}

// TestConfirm_UnknownBuyer tests that no record survives when the credit
// target is missing
func (suite *PaymentHandlerTestSuite) TestConfirm_UnknownBuyer() {
	suite.identity = "ghost@example.com"

	w := suite.do("POST", "/api/payments/confirm", gin.H{
		"dollars": 10.0,
		"coins":   100,
	})

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	var count int64
	suite.db.Model(&models.PaymentRecord{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestHistory_NewestFirst tests the buyer history ordering
func (suite *PaymentHandlerTestSuite) TestHistory_NewestFirst() {
	old := &models.PaymentRecord{BuyerEmail: "buyer@example.com", Dollars: 1, Coins: 10}
	old.CreatedAt = time.Now().Add(-2 * time.Hour)
	recent := &models.PaymentRecord{BuyerEmail: "buyer@example.com", Dollars: 10, Coins: 150}
	recent.CreatedAt = time.Now().Add(-1 * time.Hour)
	suite.db.Create(old)
	suite.db.Create(recent)
	suite.db.Create(&models.PaymentRecord{BuyerEmail: "other@example.com", Dollars: 5, Coins: 50})

	w := suite.do("GET", "/api/payments/history/buyer@example.com", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var records []models.PaymentRecord
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &records))
	suite.Require().Len(records, 2)
	assert.Equal(suite.T(), int64(150), records[0].Coins)
	assert.Equal(suite.T(), int64(10), records[1].Coins)
}

func TestPaymentHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}
