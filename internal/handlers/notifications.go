package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskhive/taskhive-api/internal/errors"
	"github.com/taskhive/taskhive-api/internal/models"
	"github.com/taskhive/taskhive-api/internal/services"
)

// NotificationHandler covers notification creation, listing, the unread
// badge count and mark-read.
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// Create stores a notification; status is forced to unread
func (h *NotificationHandler) Create(c *gin.Context) {
	type CreateRequest struct {
		Message     string `json:"message" binding:"required"`
		ToEmail     string `json:"to_email" binding:"required,email"`
		ActionRoute string `json:"action_route"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	notification := &models.Notification{
		Message:     req.Message,
		ToEmail:     req.ToEmail,
		ActionRoute: req.ActionRoute,
	}

	if err := h.notifications.Create(notification); err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, notification)
}

// ListFor returns a user's notifications, unread first, newest first
// within each group
func (h *NotificationHandler) ListFor(c *gin.Context) {
	notifications, err := h.notifications.ListFor(c.Param("email"))
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkRead flips a notification to read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(id); err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CountUnread returns a user's unread notification count
func (h *NotificationHandler) CountUnread(c *gin.Context) {
	count, err := h.notifications.CountUnread(c.Param("email"))
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func respondNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotificationNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
