package respond

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("code", code),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("request_id", c.GetString("requestId")),
	}
	if applicationID := c.GetInt64("applicationId"); applicationID != 0 {
		fields = append(fields, zap.Int64("application_id", applicationID))
	}
	logger := zap.L().Named("http")
	if status >= 500 {
		logger.Error("http.error", fields...)
	} else {
		logger.Warn("http.error", fields...)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
