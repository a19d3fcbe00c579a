package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
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

// WithdrawalHandlerTestSuite defines the test suite for WithdrawalHandler
type WithdrawalHandlerTestSuite struct {
	suite.Suite
	db       *gorm.DB
	router   *gin.Engine
	identity string
}

// SetupTest runs before each test
func (suite *WithdrawalHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Withdrawal{},
		&models.Notification{},
	)
	suite.Require().NoError(err)

	withdrawalRepo := repository.NewWithdrawalRepository(suite.db)
	notifications := services.NewNotificationService(repository.NewNotificationRepository(suite.db), nil)
	handler := NewWithdrawalHandler(services.NewWithdrawalService(withdrawalRepo, notifications))

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	suite.identity = ""
	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		if suite.identity != "" {
			c.Set(constants.ContextKeyIdentity, suite.identity)
		}
	})
	suite.router.POST("/api/withdrawals", handler.Request)
	suite.router.GET("/api/admin/withdrawals", handler.List)
	suite.router.POST("/api/admin/withdrawals/:id/approve", handler.Approve)
}

// TearDownTest runs after each test
func (suite *WithdrawalHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *WithdrawalHandlerTestSuite) createWorker(email string, coins int64) *models.User {
	user := &models.User{
		Email: email,
		Role:  models.RoleWorker,
		Coins: coins,
	}
	suite.db.Create(user)
	return user
}

func (suite *WithdrawalHandlerTestSuite) createWithdrawal(workerEmail string, coins int64) *models.Withdrawal {
	withdrawal := &models.Withdrawal{
		WorkerEmail: workerEmail,
		Coins:       coins,
		Dollars:     float64(coins) / 20,
	}
	suite.db.Create(withdrawal)
	return withdrawal
}

func (suite *WithdrawalHandlerTestSuite) do(method, url string, body interface{}) *httptest.ResponseRecorder {
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

// TestRequest_Success tests creation of a pending withdrawal scoped to
// the caller identity
func (suite *WithdrawalHandlerTestSuite) TestRequest_Success() {
	suite.identity = "worker@example.com"
	suite.createWorker("worker@example.com", 100)

	w := suite.do("POST", "/api/withdrawals", gin.H{
		"worker_name": "Worker",
		"coins":       40,
		"dollars":     2.0,
	})

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var withdrawal models.Withdrawal
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &withdrawal))
	assert.Equal(suite.T(), "worker@example.com", withdrawal.WorkerEmail)
	assert.Equal(suite.T(), int64(40), withdrawal.Coins)
}

// TestRequest_NonPositiveAmount tests amount validation
func (suite *WithdrawalHandlerTestSuite) TestRequest_NonPositiveAmount() {
	suite.identity = "worker@example.com"

	w := suite.do("POST", "/api/withdrawals", gin.H{"coins": -5})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestApprove_DeductsAndNotifies tests the full approval effect: record
// removed, coins deducted, worker notified
func (suite *WithdrawalHandlerTestSuite) TestApprove_DeductsAndNotifies() {
	suite.createWorker("worker@example.com", 100)
	withdrawal := suite.createWithdrawal("worker@example.com", 40)

	w := suite.do("POST", fmt.Sprintf("/api/admin/withdrawals/%d/approve", withdrawal.ID), nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var worker models.User
	suite.Require().NoError(suite.db.Where("email = ?", "worker@example.com").First(&worker).Error)
	assert.Equal(suite.T(), int64(60), worker.Coins)

	var remaining int64
	suite.db.Model(&models.Withdrawal{}).Count(&remaining)
	assert.Equal(suite.T(), int64(0), remaining)

	var notifications []models.Notification
	suite.Require().NoError(suite.db.Where("to_email = ?", "worker@example.com").Find(&notifications).Error)
	suite.Require().Len(notifications, 1)
	assert.Equal(suite.T(), models.NotificationUnread, notifications[0].Status)
	assert.Contains(suite.T(), notifications[0].Message, "40")
}

// TestApprove_Replay tests that a processed request cannot be approved twice
func (suite *WithdrawalHandlerTestSuite) TestApprove_Replay() {
	suite.createWorker("worker@example.com", 100)
	withdrawal := suite.createWithdrawal("worker@example.com", 40)

	first := suite.do("POST", fmt.Sprintf("/api/admin/withdrawals/%d/approve", withdrawal.ID), nil)
	assert.Equal(suite.T(), http.StatusOK, first.Code)

	second := suite.do("POST", fmt.Sprintf("/api/admin/withdrawals/%d/approve", withdrawal.ID), nil)
	assert.Equal(suite.T(), http.StatusNotFound, second.Code)

	// Deducted exactly once
	var worker models.User
	suite.Require().NoError(suite.db.Where("email = ?", "worker@example.com").First(&worker).Error)
	assert.Equal(suite.T(), int64(60), worker.Coins)
}

// TestList tests the admin listing of pending requests
func (suite *WithdrawalHandlerTestSuite) TestList() {
	suite.createWithdrawal("a@example.com", 10)
	suite.createWithdrawal("b@example.com", 20)

	w := suite.do("GET", "/api/admin/withdrawals", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var withdrawals []models.Withdrawal
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &withdrawals))
	assert.Len(suite.T(), withdrawals, 2)
}

func TestWithdrawalHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(WithdrawalHandlerTestSuite))
}
