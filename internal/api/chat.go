package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
)

const chatErrorReply = "Sorry, I couldn't process that right now 😅 Try again."

type chatRequest struct {
	Message string `json:"message"`
}

// chat runs one message through the conversational assistant. A failed
// action still returns whatever reply was produced before the failure.
func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperrors.NewValidationError("invalid body"))
		return
	}

	reply, err := h.deps.Assistant.Handle(c.Request.Context(), currentUserID(c), req.Message)
	if err != nil {
		h.errs.Handle(c.Request.Context(), err)
		if reply == "" {
			reply = chatErrorReply
		}
		body := errorBody(err)
		body["reply"] = reply
		c.JSON(apperrors.HTTPStatus(err), body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
