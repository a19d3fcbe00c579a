package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskhive/taskhive-api/internal/errors"
	"github.com/taskhive/taskhive-api/internal/middleware"
	"github.com/taskhive/taskhive-api/internal/services"
)

// PaymentHandler covers coin purchases: offers, gateway intents,
// confirmation and history.
type PaymentHandler struct {
	payments *services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// ListOffers returns the purchasable coin packages. Public.
func (h *PaymentHandler) ListOffers(c *gin.Context) {
	offers, err := h.payments.ListOffers()
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, offers)
}

// GetOffer returns a single coin package. Public.
func (h *PaymentHandler) GetOffer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	offer, err := h.payments.GetOffer(id)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

// CreateIntent asks the payment gateway for a client secret
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	type IntentRequest struct {
		Price float64 `json:"price" binding:"required"`
	}

	var req IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Price must be a positive number")
		return
	}

	secret, err := h.payments.CreateIntent(c.Request.Context(), req.Price)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clientSecret": secret})
}

// Confirm records a settled payment and credits the purchased coins
func (h *PaymentHandler) Confirm(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	type ConfirmRequest struct {
		Dollars float64 `json:"dollars" binding:"required"`
		Coins   int64   `json:"coins" binding:"required"`
	}

	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	record, err := h.payments.Confirm(services.ConfirmInput{
		BuyerEmail: identity,
		Dollars:    req.Dollars,
		Coins:      req.Coins,
	})
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// History returns a buyer's confirmed payments, newest first
func (h *PaymentHandler) History(c *gin.Context) {
	records, err := h.payments.History(c.Param("email"))
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func respondPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAmountTooSmall):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrOfferNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrGatewayFailure):
		apierrors.UpstreamFailure(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
