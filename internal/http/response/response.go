package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/lms-backend/internal/platform/apierr"
)

// Meta accompanies paginated listings.
type Meta struct {
	Limit int   `json:"limit"`
	Page  int   `json:"page"`
	Total int64 `json:"total"`
}

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
	Meta       *Meta  `json:"meta,omitempty"`
}

func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Success:    true,
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

func List(c *gin.Context, message string, data any, meta Meta) {
	c.JSON(http.StatusOK, Envelope{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       data,
		Meta:       &meta,
	})
}

// Error maps a service error onto the envelope. Unrecognized errors
// surface as 500 without leaking internals into the message.
func Error(c *gin.Context, err error) {
	status := apierr.StatusOf(err)
	msg := "internal server error"
	if status != http.StatusInternalServerError && err != nil {
		msg = err.Error()
	}
	c.JSON(status, Envelope{
		Success:    false,
		StatusCode: status,
		Message:    msg,
	})
}

// AbortError is Error plus request abortion, for middleware use.
func AbortError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
