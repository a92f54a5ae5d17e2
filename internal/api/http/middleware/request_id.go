package middleware

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestIDMiddleware tags every request with a stable id. An inbound
// X-Request-Id is trusted and echoed back; otherwise a new one is minted.
// The id rides in both the gin context and the request context so
// request-scoped loggers can pick it up, and each request logs one line
// with its final status and latency.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Set("request_id", rid)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), requestIDKey{}, rid),
		)
		c.Writer.Header().Set(requestIDHeader, rid)

		start := time.Now()
		c.Next()

		log.Printf("[info] request_id=%s operation=http method=%s path=%s status=%d latency=%s",
			rid, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// GetRequestID returns the request id stored by RequestIDMiddleware, or ""
// outside a request scope.
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}
