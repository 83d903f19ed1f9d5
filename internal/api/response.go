package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"push-dispatch-backend/internal/dispatch"
	"push-dispatch-backend/internal/mw"
)

// The response envelope is uniform across every operation: one success
// shape, one error shape, mapped from the typed error taxonomy exactly
// once, here.

type respMeta struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp,omitempty"`
	Message   string `json:"message,omitempty"`
}

type respError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// respond writes the success envelope.
func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
		"meta": respMeta{
			RequestID: mw.RequestIDFrom(c),
			Timestamp: time.Now().Format(time.RFC3339),
			Message:   message,
		},
	})
}

// respondError writes the error envelope with an explicit code.
func respondError(c *gin.Context, status int, code, message string, details any) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   respError{Code: code, Message: message, Details: details},
		"meta":    respMeta{RequestID: mw.RequestIDFrom(c)},
	})
}

// respondTyped maps a dispatcher error onto an HTTP status. Untyped errors
// never leak internals: they surface as a generic persistence failure.
func respondTyped(c *gin.Context, err error) {
	kind := dispatch.KindOf(err)
	message := "internal error"
	var details any
	if de, ok := err.(*dispatch.Error); ok {
		message = de.Message
		details = de.Details
	}
	respondError(c, statusFor(kind), string(kind), message, details)
}

func statusFor(kind dispatch.Kind) int {
	switch kind {
	case dispatch.KindNotFound:
		return http.StatusNotFound
	case dispatch.KindInvalidInput, dispatch.KindConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondBinding reports a request-shape violation from gin's validator.
func respondBinding(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, string(dispatch.KindInvalidInput), "invalid request", err.Error())
}
