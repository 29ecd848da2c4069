// internal/middleware/errors.go
// Translates a handler's returned error into the HTTP status and body
// spec.md §7 requires: status derived from the error's Kind, body
// {"detail": "..."}.

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nsf-ski/race-service/internal/apperrors"
)

// RespondError writes err to the response using its apperrors.Kind, or
// INTERNAL if err does not carry one.
func RespondError(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		c.JSON(appErr.Kind.Status(), gin.H{"detail": appErr.Detail})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
}

// ErrorHandler recovers any error gin.Context accumulated via c.Error and
// writes the last one using RespondError, for handlers that prefer to
// record the error and let a later middleware respond.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		RespondError(c, c.Errors.Last().Err)
	}
}
