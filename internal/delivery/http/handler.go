package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/palletwise/backend/internal/domain"
	"github.com/palletwise/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	quotes *usecase.QuoteService
}

// NewHandler creates a new HTTP handler
func NewHandler(quotes *usecase.QuoteService) *Handler {
	return &Handler{quotes: quotes}
}

// quoteRequest is the engine input envelope.
type quoteRequest struct {
	Items []domain.OrderLine `json:"items" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "palletwise-backend",
		"version": "1.0.0",
	})
}

// Quote computes a packing plan for the posted order lines. Planner errors
// come back as a structured {success:false, error} envelope.
func (h *Handler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid request body: " + err.Error(),
		})
		return
	}

	plan, err := h.quotes.Quote(req.Items)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrEmptyOrder) || errors.Is(err, domain.ErrInvalidLine) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"plan":    plan,
	})
}
