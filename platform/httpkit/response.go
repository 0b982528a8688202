package httpkit

import (
	"errors"
	"net/http"

	"usittel_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// JSON writes payload with status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes payload with 200.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// HandleError renders err and reports whether there was one. Errors without
// an apperr kind become a 500 with a generic message; their text stays in
// the logs.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		appErr = apperr.Wrap(apperr.KindInternal, "internal error", err)
	}

	c.AbortWithStatusJSON(appErr.HTTPStatus(), ErrorResponse{
		Error:   appErr.Message,
		Code:    appErr.Kind.String(),
		Details: appErr.Details,
	})
	return true
}
