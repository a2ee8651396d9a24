package middleware

import (
	"github.com/google/uuid"
	"github.com/seqmux/seqmux/pkg/common"
)

// TraceIDKey is the state-bag key under which the trace ID is stored.
const TraceIDKey = "trace_id"

// Trace generates a unique trace ID for each request, stores it in the
// context state bag, and echoes it as an X-Trace-ID response header. This
// allows for request tracing across logs.
func Trace() Middleware {
	return func(c *common.Context, next common.Next) (any, error) {
		traceID := uuid.New().String()
		c.Set(TraceIDKey, traceID)
		c.SetHeader("X-Trace-ID", traceID)
		return next()
	}
}

// GetTraceID extracts the trace ID from the context.
// Returns an empty string if no trace ID is found.
func GetTraceID(c *common.Context) string {
	return c.GetString(TraceIDKey)
}
