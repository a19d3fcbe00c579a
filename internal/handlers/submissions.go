package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive-api/internal/dto"
	apierrors "github.com/taskhive/taskhive-api/internal/errors"
	"github.com/taskhive/taskhive-api/internal/services"
	"github.com/taskhive/taskhive-api/internal/utils"
)

// SubmissionHandler covers the submission lifecycle: creation by
// workers, approve/reject by buyers, and the read projections.
type SubmissionHandler struct {
	submissions *services.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(submissions *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// Submit creates a Pending submission for a task
func (h *SubmissionHandler) Submit(c *gin.Context) {
	type SubmitRequest struct {
		TaskID      uint64 `json:"task_id" binding:"required"`
		WorkerEmail string `json:"worker_email" binding:"required,email"`
		WorkerName  string `json:"worker_name"`
		Details     string `json:"details" binding:"required"`
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	submission, err := h.submissions.Submit(services.SubmitInput{
		TaskID:      req.TaskID,
		WorkerEmail: req.WorkerEmail,
		WorkerName:  req.WorkerName,
		Details:     req.Details,
	})
	if err != nil {
		respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// Approve moves a Pending submission to Approved, paying the worker
func (h *SubmissionHandler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	submission, err := h.submissions.Approve(id)
	if err != nil {
		respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// Reject moves a Pending submission to Rejected
func (h *SubmissionHandler) Reject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	submission, err := h.submissions.Reject(id)
	if err != nil {
		respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// ListPendingForBuyer returns the submissions awaiting a buyer's decision
func (h *SubmissionHandler) ListPendingForBuyer(c *gin.Context) {
	submissions, err := h.submissions.ListPendingForBuyer(c.Param("email"))
	if err != nil {
		respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// ListApprovedForWorker returns a worker's approved submissions
func (h *SubmissionHandler) ListApprovedForWorker(c *gin.Context) {
	submissions, err := h.submissions.ListApprovedForWorker(c.Param("email"))
	if err != nil {
		respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// ListByWorker returns a worker's submissions, paginated
func (h *SubmissionHandler) ListByWorker(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	submissions, total, err := h.submissions.ListByWorker(c.Param("email"), params)
	if err != nil {
		respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubmissionListResponse(submissions, params, total))
}

// Count returns the total submission count. Public.
func (h *SubmissionHandler) Count(c *gin.Context) {
	count, err := h.submissions.Count()
	if err != nil {
		respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func respondSubmissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDetailsRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrSubmissionNotFound),
		errors.Is(err, services.ErrSubmissionTaskGone),
		errors.Is(err, services.ErrWorkerGone):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrSubmissionDecided):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
