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

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db       *gorm.DB
	router   *gin.Engine
	identity string
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.Task{})
	suite.Require().NoError(err)

	handler := NewTaskHandler(services.NewTaskService(repository.NewTaskRepository(suite.db)))

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	suite.identity = ""
	suite.router = gin.New()
	// Stands in for the access gate on routes that need an identity
	suite.router.Use(func(c *gin.Context) {
		if suite.identity != "" {
			c.Set(constants.ContextKeyIdentity, suite.identity)
		}
	})
	suite.router.GET("/api/tasks/available", handler.ListAvailable)
	suite.router.GET("/api/tasks/count", handler.Count)
	suite.router.POST("/api/tasks", handler.Create)
	suite.router.GET("/api/tasks/mine", handler.ListMine)
	suite.router.GET("/api/tasks/:id", handler.Get)
	suite.router.PATCH("/api/tasks/:id", handler.Update)
	suite.router.DELETE("/api/tasks/:id", handler.Delete)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createTask(title, buyerEmail string, requiredWorkers int) *models.Task {
	task := &models.Task{
		Title:           title,
		Detail:          "Test Detail",
		RequiredWorkers: requiredWorkers,
		PayableAmount:   10,
		BuyerEmail:      buyerEmail,
	}
	suite.db.Create(task)
	return task
}

func (suite *TaskHandlerTestSuite) do(method, url string, body interface{}) *httptest.ResponseRecorder {
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

// TestListAvailable_ExcludesFilledTasks tests that tasks with no open
// worker slots never appear in the worker feed
func (suite *TaskHandlerTestSuite) TestListAvailable_ExcludesFilledTasks() {
	open := suite.createTask("Open task", "buyer@example.com", 3)
	suite.createTask("Filled task", "buyer@example.com", 0)

	w := suite.do("GET", "/api/tasks/available", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var tasks []models.Task
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tasks))
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), open.ID, tasks[0].ID)
}

// TestListAvailable_Paging tests the zero-based page*size offset
func (suite *TaskHandlerTestSuite) TestListAvailable_Paging() {
	for i := 0; i < 5; i++ {
		suite.createTask(fmt.Sprintf("Task %d", i), "buyer@example.com", 1)
	}

	w := suite.do("GET", "/api/tasks/available?page=2&size=2", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var tasks []models.Task
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tasks))
	assert.Len(suite.T(), tasks, 1)
}

// TestCreate_Success tests task creation stamped with the caller identity
func (suite *TaskHandlerTestSuite) TestCreate_Success() {
	suite.identity = "buyer@example.com"

	w := suite.do("POST", "/api/tasks", gin.H{
		"title":            "Watch my video",
		"detail":           "Watch and comment",
		"required_workers": 10,
		"payable_amount":   5,
	})

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var task models.Task
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))
	assert.Equal(suite.T(), "buyer@example.com", task.BuyerEmail)
	assert.Equal(suite.T(), "Watch my video", task.Title)
}

// TestCreate_MissingTitle tests input validation
func (suite *TaskHandlerTestSuite) TestCreate_MissingTitle() {
	suite.identity = "buyer@example.com"

	w := suite.do("POST", "/api/tasks", gin.H{
		"required_workers": 10,
		"payable_amount":   5,
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreate_NoIdentity tests that creation without a resolved identity fails
func (suite *TaskHandlerTestSuite) TestCreate_NoIdentity() {
	w := suite.do("POST", "/api/tasks", gin.H{
		"title":            "Watch my video",
		"required_workers": 10,
		"payable_amount":   5,
	})

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestListMine_OnlyOwnTasks tests the buyer's own-task listing
func (suite *TaskHandlerTestSuite) TestListMine_OnlyOwnTasks() {
	suite.identity = "buyer@example.com"
	mine := suite.createTask("Mine", "buyer@example.com", 1)
	suite.createTask("Someone else's", "other@example.com", 1)

	w := suite.do("GET", "/api/tasks/mine", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var tasks []models.Task
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tasks))
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), mine.ID, tasks[0].ID)
}

// TestUpdate_Success tests a partial update by the owner
func (suite *TaskHandlerTestSuite) TestUpdate_Success() {
	suite.identity = "buyer@example.com"
	task := suite.createTask("Old title", "buyer@example.com", 1)

	w := suite.do("PATCH", fmt.Sprintf("/api/tasks/%d", task.ID), gin.H{
		"title": "New title",
	})

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, task.ID).Error)
	assert.Equal(suite.T(), "New title", stored.Title)
	assert.Equal(suite.T(), "Test Detail", stored.Detail)
}

// TestUpdate_NotOwner tests that ownership is re-verified on mutation
func (suite *TaskHandlerTestSuite) TestUpdate_NotOwner() {
	suite.identity = "intruder@example.com"
	task := suite.createTask("Old title", "buyer@example.com", 1)

	w := suite.do("PATCH", fmt.Sprintf("/api/tasks/%d", task.ID), gin.H{
		"title": "Hijacked",
	})

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, task.ID).Error)
	assert.Equal(suite.T(), "Old title", stored.Title)
}

// TestDelete_NotOwner tests deletion by a non-owner
func (suite *TaskHandlerTestSuite) TestDelete_NotOwner() {
	suite.identity = "intruder@example.com"
	task := suite.createTask("Task", "buyer@example.com", 1)

	w := suite.do("DELETE", fmt.Sprintf("/api/tasks/%d", task.ID), nil)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestDelete_Success tests deletion by the owner
func (suite *TaskHandlerTestSuite) TestDelete_Success() {
	suite.identity = "buyer@example.com"
	task := suite.createTask("Task", "buyer@example.com", 1)

	w := suite.do("DELETE", fmt.Sprintf("/api/tasks/%d", task.ID), nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestGet_NotFound tests fetching a task that never existed
func (suite *TaskHandlerTestSuite) TestGet_NotFound() {
	w := suite.do("GET", "/api/tasks/999", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestCount tests the public task counter
func (suite *TaskHandlerTestSuite) TestCount() {
	suite.createTask("A", "buyer@example.com", 1)
	suite.createTask("B", "buyer@example.com", 0)

	w := suite.do("GET", "/api/tasks/count", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), float64(2), response["count"])
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
