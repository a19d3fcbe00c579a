package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskhive/taskhive-api/internal/errors"
	"github.com/taskhive/taskhive-api/internal/middleware"
	"github.com/taskhive/taskhive-api/internal/services"
	"github.com/taskhive/taskhive-api/internal/utils"
)

// TaskHandler covers the task surface for workers, buyers and admins.
type TaskHandler struct {
	tasks *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// ListAvailable returns tasks with open worker slots, paginated. Public.
func (h *TaskHandler) ListAvailable(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	tasks, err := h.tasks.ListAvailable(params)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// Create stores a new task for the authenticated buyer
func (h *TaskHandler) Create(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title           string     `json:"title" binding:"required"`
		Detail          string     `json:"detail"`
		RequiredWorkers int        `json:"required_workers" binding:"required"`
		PayableAmount   int64      `json:"payable_amount" binding:"required"`
		SubmissionInfo  string     `json:"submission_info"`
		ImageURL        string     `json:"image_url"`
		CompletionDate  *time.Time `json:"completion_date"`
		BuyerName       string     `json:"buyer_name"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.tasks.Create(services.CreateTaskInput{
		Title:           req.Title,
		Detail:          req.Detail,
		RequiredWorkers: req.RequiredWorkers,
		PayableAmount:   req.PayableAmount,
		SubmissionInfo:  req.SubmissionInfo,
		ImageURL:        req.ImageURL,
		CompletionDate:  req.CompletionDate,
		BuyerEmail:      identity,
		BuyerName:       req.BuyerName,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// ListMine returns the authenticated buyer's tasks, newest first
func (h *TaskHandler) ListMine(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	tasks, err := h.tasks.ListByOwner(identity)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// Get returns a single task. Public.
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(id)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Update applies a partial update to the buyer's own task
func (h *TaskHandler) Update(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title          *string `json:"title"`
		Detail         *string `json:"detail"`
		SubmissionInfo *string `json:"submission_info"`
		ImageURL       *string `json:"image_url"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.tasks.Update(id, identity, services.UpdateTaskInput{
		Title:          req.Title,
		Detail:         req.Detail,
		SubmissionInfo: req.SubmissionInfo,
		ImageURL:       req.ImageURL,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Delete removes the buyer's own task
func (h *TaskHandler) Delete(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(id, identity); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListAll returns every task for the admin panel
func (h *TaskHandler) ListAll(c *gin.Context) {
	tasks, err := h.tasks.ListAll()
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// AdminDelete removes any task
func (h *TaskHandler) AdminDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.tasks.AdminDelete(id); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Count returns the total task count. Public.
func (h *TaskHandler) Count(c *gin.Context) {
	count, err := h.tasks.Count()
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrBadWorkerSlots):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotTaskOwner):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
