package common

import (
	"errors"
	"net/http"
	"strings"

	"calotrack-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// StatusFor maps an error kind to the HTTP status returned to clients.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorDetailKey marks a request whose 5xx responses may carry the raw error.
const ErrorDetailKey = "showErrorDetail"

// ErrorDetail sets ErrorDetailKey on every request when enabled.
func ErrorDetail(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ErrorDetailKey, enabled)
		c.Next()
	}
}

// RespondError writes {"success": false, "error": ...}. Messages of 5xx
// errors are replaced by a generic one unless ErrorDetailKey is set.
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	msg := publicMessage(err)
	if status >= http.StatusInternalServerError {
		logger.For("HTTP").WithError(err).WithField("path", c.FullPath()).Error("handler error")
		if !c.GetBool(ErrorDetailKey) {
			msg = "Internal server error"
		}
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// publicMessage strips the kind prefix so "validation failed: calories must be
// positive" is returned to clients as "calories must be positive".
func publicMessage(err error) string {
	msg := err.Error()
	for _, kind := range []error{ErrValidation, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict} {
		prefix := kind.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}
