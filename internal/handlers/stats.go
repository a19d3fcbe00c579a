package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskhive/taskhive-api/internal/errors"
	"github.com/taskhive/taskhive-api/internal/services"
)

// StatsHandler serves the dashboard rollups.
type StatsHandler struct {
	stats *services.StatsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(stats *services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Buyer returns the buyer dashboard rollup
func (h *StatsHandler) Buyer(c *gin.Context) {
	stats, err := h.stats.BuyerStats(c.Param("email"))
	if err != nil {
		respondStatsError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Worker returns the worker dashboard rollup
func (h *StatsHandler) Worker(c *gin.Context) {
	stats, err := h.stats.WorkerStats(c.Param("email"))
	if err != nil {
		respondStatsError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Admin returns the platform-wide rollup
func (h *StatsHandler) Admin(c *gin.Context) {
	stats, err := h.stats.AdminStats()
	if err != nil {
		respondStatsError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func respondStatsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
