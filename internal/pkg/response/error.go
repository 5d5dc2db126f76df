package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/medislot/appointment-backend/internal/pkg/apperror"
)

// Error sends a JSON error envelope.
// AppErrors are rendered with their own status and message; anything else is
// logged and collapsed into a generic 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, Envelope{Message: appErr.Message, Status: StatusError})
		return
	}

	log.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("request failed")

	c.JSON(http.StatusInternalServerError, Envelope{Message: "internal server error", Status: StatusError})
}

// BadRequest renders a 400 for request binding failures, including the validator output.
func BadRequest(c *gin.Context, message string, err error) {
	body := gin.H{"message": message, "status": StatusError}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}

// Abort renders an error envelope and stops the middleware chain.
func Abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Envelope{Message: message, Status: StatusError})
}
