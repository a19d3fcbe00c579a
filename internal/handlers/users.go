package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskhive/taskhive-api/internal/errors"
	"github.com/taskhive/taskhive-api/internal/models"
	"github.com/taskhive/taskhive-api/internal/services"
)

const topCoinsLimit = 6

// UserHandler covers user records, the coin-ledger endpoint and the
// admin arbitration surface.
type UserHandler struct {
	users  *services.UserService
	ledger *services.LedgerService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService, ledger *services.LedgerService) *UserHandler {
	return &UserHandler{
		users:  users,
		ledger: ledger,
	}
}

// Upsert saves the user on first sign-in; repeat sign-ins are a no-op.
func (h *UserHandler) Upsert(c *gin.Context) {
	type UpsertRequest struct {
		Email    string      `json:"email" binding:"required,email"`
		Name     string      `json:"name"`
		PhotoURL string      `json:"photo_url"`
		Role     models.Role `json:"role" binding:"required"`
	}

	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, created, err := h.users.Upsert(services.UpsertInput{
		Email:    req.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Role:     req.Role,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "User already exists", "user": user})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Get returns a single user by email
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Param("email"))
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// TopByCoins returns the richest users for the public home section
func (h *UserHandler) TopByCoins(c *gin.Context) {
	users, err := h.users.TopByCoins(topCoinsLimit)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// AdjustCoins applies a signed delta to a user's balance
func (h *UserHandler) AdjustCoins(c *gin.Context) {
	type AdjustRequest struct {
		Delta *int64 `json:"delta" binding:"required"`
	}

	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Delta must be a signed integer")
		return
	}

	if err := h.ledger.Adjust(c.Param("email"), *req.Delta); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListManaged returns the Buyer and Worker accounts for the admin panel
func (h *UserHandler) ListManaged(c *gin.Context) {
	users, err := h.users.ListManaged()
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// UpdateRole changes a user's role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	type RoleRequest struct {
		Role models.Role `json:"role" binding:"required"`
	}

	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.users.UpdateRole(c.Param("email"), req.Role); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Delete removes a user record
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user id")
		return
	}

	if err := h.users.Delete(id); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
