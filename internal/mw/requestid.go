package mw

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID is preserved from the caller when present, generated
// otherwise, and always echoed back on the response.
const HeaderRequestID = "X-Request-Id"

const ctxKeyRequestID = "request_id"

// RequestID attaches a request id to every request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, id)
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Next()
	}
}

// RequestIDFrom returns the request id attached by RequestID.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(ctxKeyRequestID)
}
