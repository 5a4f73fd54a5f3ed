package respond

import (
	"github.com/gin-gonic/gin"

	"jobcompass-server/internal/shared/telemetry"
)

// ErrorResponse is the wire shape clients receive on failure. The front end
// surfaces the error string directly, so it stays a flat field.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error sends an error response and logs the failure with its internal code.
func Error(c *gin.Context, status int, code, message string) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}
