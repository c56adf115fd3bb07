package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader 请求 ID 透传头
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
)

// RequestID 为每个请求分配请求 ID，已携带的沿用上游的值
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(RequestIDHeader, rid)
		c.Next()
	}
}

// RequestIDFromContext 取出当前请求的请求 ID
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
