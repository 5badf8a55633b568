package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vladimiradmaev/nutrition-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
)

func (h *Handler) getProfile(c *gin.Context) {
	profile, err := h.deps.Profiles.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// upsertProfile fully overwrites the stored profile; every field is required
func (h *Handler) upsertProfile(c *gin.Context) {
	var patch domain.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.fail(c, apperrors.NewValidationError("invalid body"))
		return
	}
	profile, err := h.deps.Profiles.Upsert(c.Request.Context(), currentUserID(c), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile saved", "profile": profile})
}

func (h *Handler) targets(c *gin.Context) {
	targets, profile, err := h.deps.Profiles.Targets(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"targets": targets, "profile": profile})
}
