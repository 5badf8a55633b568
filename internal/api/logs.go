package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
	"github.com/vladimiradmaev/nutrition-helper/internal/services"
)

type createLogRequest struct {
	FoodID   int64             `json:"food_id"`
	Source   domain.FoodSource `json:"source"`
	Quantity float64           `json:"quantity_g"`
	EatenAt  *time.Time        `json:"eaten_at"`
}

func (h *Handler) createLog(c *gin.Context) {
	var req createLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperrors.NewValidationError("invalid body"))
		return
	}
	entry, err := h.deps.Logs.Create(c.Request.Context(), currentUserID(c), services.CreateLogInput{
		Food:     domain.FoodRef{Source: req.Source, ID: req.FoodID},
		Quantity: req.Quantity,
		EatenAt:  req.EatenAt,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Food logged", "log": entry})
}

func (h *Handler) today(detailed bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := h.deps.Logs.Today(c.Request.Context(), currentUserID(c), detailed)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// GET /api/logs/by-date?date=2024-05-31
func (h *Handler) byDate(detailed bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := h.deps.Logs.ByDate(c.Request.Context(), currentUserID(c), c.Query("date"), detailed)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func (h *Handler) getLog(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	line, err := h.deps.Logs.Get(c.Request.Context(), currentUserID(c), uint(id))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": line})
}

func (h *Handler) deleteLog(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.deps.Logs.Delete(c.Request.Context(), currentUserID(c), uint(id)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Log deleted successfully"})
}
