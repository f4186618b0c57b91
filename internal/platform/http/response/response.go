// Package response renders the uniform JSON envelope used by every API handler:
//
//	{"success": bool, "message": string, "data": any, "errors": [{field, message}]}
package response

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"blog_backend/internal/shared/apperr"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

// OK writes a success envelope.
func OK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Error maps err to its status code and writes a failure envelope.
// Internal errors are logged with their cause and answered generically.
func Error(c *gin.Context, err error) {
	e := apperr.As(err)
	if e.Kind == apperr.KindInternal {
		slog.Error("request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
		)
		c.JSON(e.Status(), Envelope{Success: false, Message: "Internal server error"})
		return
	}
	c.JSON(e.Status(), Envelope{Success: false, Message: e.Message, Errors: e.Fields})
}

// AbortError is Error followed by c.Abort.
func AbortError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
