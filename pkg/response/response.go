package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the uniform envelope every endpoint returns.
type APIResponse[T any] struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      T           `json:"data,omitempty"`
	Errors    interface{} `json:"errors,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Success writes a success envelope with the given status and payload.
func Success[T any](ctx *gin.Context, status int, data T, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: ctx.GetString("request_id"),
	})
}

// Error writes a failure envelope. errs carries optional field-level details.
func Error(ctx *gin.Context, status int, message string, errs interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.JSON(status, APIResponse[any]{
		Success:   false,
		Message:   message,
		Errors:    errs,
		RequestID: ctx.GetString("request_id"),
	})
}

// AbortError writes a failure envelope and aborts the middleware chain.
func AbortError(ctx *gin.Context, status int, message string, errs interface{}) {
	ctx.AbortWithStatusJSON(status, APIResponse[any]{
		Success:   false,
		Message:   message,
		Errors:    errs,
		RequestID: ctx.GetString("request_id"),
	})
}
