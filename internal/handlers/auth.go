package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive-api/internal/constants"
	apierrors "github.com/taskhive/taskhive-api/internal/errors"
	"github.com/taskhive/taskhive-api/internal/services"
)

// AuthHandler issues and clears session tokens. Identity proof happens
// upstream (the client's identity provider); this endpoint converts a
// signed-in identity into the 5-hour session token the gate consumes.
type AuthHandler struct {
	tokens *services.TokenService
	secure bool
}

// NewAuthHandler creates a new AuthHandler. secure controls the cookie
// Secure flag and should be true in release mode.
func NewAuthHandler(tokens *services.TokenService, secure bool) *AuthHandler {
	return &AuthHandler{
		tokens: tokens,
		secure: secure,
	}
}

// IssueToken signs a session token for the given identity and sets it as
// an httpOnly cookie.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	type TokenRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	token, err := h.tokens.Issue(req.Email)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	maxAge := int(constants.TokenLifetime.Seconds())
	c.SetCookie(constants.TokenCookieName, token, maxAge, "/", "", h.secure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout clears the session cookie. There is no server-side token state
// to invalidate.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(constants.TokenCookieName, "", -1, "/", "", h.secure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
