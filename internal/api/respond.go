package api

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vladimiradmaev/nutrition-helper/internal/errors"
)

func errorBody(err error) gin.H {
	body := gin.H{"message": apperrors.PublicMessage(err)}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != "" {
		body["code"] = appErr.Code
	}
	if errors.Is(err, apperrors.ErrProfileMissing) {
		body["setup_required"] = true
	}
	return body
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperrors.HTTPStatus(err), errorBody(err))
}

// fail logs err through the error handler and writes the JSON error response
func (h *Handler) fail(c *gin.Context, err error) {
	h.errs.Handle(c.Request.Context(), err)
	abortWithError(c, err)
}

// queryInt reads an integer query parameter; anything unparseable counts as absent
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

func paramID(c *gin.Context, key string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("Invalid " + key)
	}
	return id, nil
}
