package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	appctx "pharmapos/internal/core/context"
	"pharmapos/internal/core/id"
)

// Trace middleware assigns a request ID and propagates trace identifiers
// into the request context for log correlation.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = id.New().String()
		}

		traceID := ""
		if span := trace.SpanContextFromContext(c.Request.Context()); span.HasTraceID() {
			traceID = span.TraceID().String()
		}

		ctx := appctx.WithTrace(c.Request.Context(), &appctx.TraceContext{
			TraceID:   traceID,
			RequestID: requestID,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}
