package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recruit-backend/internal/shared/telemetry"
)

const (
	requestIDHeader = "X-Request-Id"
	// requestIDKey is also read by respond.Error.
	requestIDKey = "requestId"
	maxRequestID = 128
)

// RequestID reuses a sane incoming X-Request-Id or mints a UUID, echoes it on
// the response and stores it on the request context for service-level logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > maxRequestID {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(telemetry.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// RequestIDFromContext returns the id set by RequestID, or "".
func RequestIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(requestIDKey)
}
