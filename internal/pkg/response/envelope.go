package response

import "github.com/gin-gonic/gin"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the body shape shared by every endpoint. Payload keys are merged
// next to message and status.
type Envelope struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Success writes {message, status: "success", ...payload} with the given HTTP code.
func Success(c *gin.Context, code int, message string, payload gin.H) {
	body := make(gin.H, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	body["message"] = message
	body["status"] = StatusSuccess
	c.JSON(code, body)
}
