package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskhive/taskhive-api/internal/errors"
	"github.com/taskhive/taskhive-api/internal/middleware"
	"github.com/taskhive/taskhive-api/internal/services"
)

// WithdrawalHandler covers worker cash-out requests and admin approval.
type WithdrawalHandler struct {
	withdrawals *services.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler
func NewWithdrawalHandler(withdrawals *services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawals: withdrawals}
}

// Request creates a pending withdrawal for the authenticated worker
func (h *WithdrawalHandler) Request(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	type WithdrawRequest struct {
		WorkerName string  `json:"worker_name"`
		Coins      int64   `json:"coins" binding:"required"`
		Dollars    float64 `json:"dollars"`
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	withdrawal, err := h.withdrawals.Request(services.RequestInput{
		WorkerEmail: identity,
		WorkerName:  req.WorkerName,
		Coins:       req.Coins,
		Dollars:     req.Dollars,
	})
	if err != nil {
		respondWithdrawalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, withdrawal)
}

// List returns every pending withdrawal for the admin panel
func (h *WithdrawalHandler) List(c *gin.Context) {
	withdrawals, err := h.withdrawals.List()
	if err != nil {
		respondWithdrawalError(c, err)
		return
	}

	c.JSON(http.StatusOK, withdrawals)
}

// Approve processes a pending withdrawal: delete, deduct, notify
func (h *WithdrawalHandler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.withdrawals.Approve(id); err != nil {
		respondWithdrawalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func respondWithdrawalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBadWithdrawalAmount):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrWithdrawalNotFound),
		errors.Is(err, services.ErrWorkerGone):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrWithdrawalProcessed):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
