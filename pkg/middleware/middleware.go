// Package middleware provides a collection of continuation-style middleware
// components for the seqmux framework.
package middleware

import (
	"time"

	"github.com/seqmux/seqmux/pkg/common"
	"go.uber.org/zap"
)

// Use the Middleware type from the common package
type Middleware = common.Middleware

// Chain composes multiple middlewares into one. The composed middleware runs
// them in order, each receiving a continuation into the next.
func Chain(middlewares ...Middleware) Middleware {
	return func(c *common.Context, next common.Next) (any, error) {
		index := 0
		var advance common.Next
		advance = func() (any, error) {
			if index < len(middlewares) {
				m := middlewares[index]
				index++
				return m(c, advance)
			}
			return next()
		}
		return advance()
	}
}

// Logging logs each request with the leveled policy used across the
// framework: server errors at Error, client errors at Warn, slow requests at
// Warn, everything else at Debug. The status reported is the real
// materialized status of the response produced downstream.
func Logging(logger *zap.Logger) Middleware {
	return func(c *common.Context, next common.Next) (any, error) {
		start := time.Now()

		v, err := next()
		duration := time.Since(start)

		fields := []zap.Field{
			zap.String("method", c.Method),
			zap.String("path", c.Path),
			zap.Int("status", c.ResponseStatus()),
			zap.Duration("duration", duration),
		}
		if traceID := GetTraceID(c); traceID != "" {
			fields = append([]zap.Field{zap.String("trace_id", traceID)}, fields...)
		}

		if err != nil {
			logger.Error("Handler error", append(fields, zap.Error(err))...)
			return v, err
		}

		status := c.ResponseStatus()
		switch {
		case status >= 500:
			logger.Error("Server error", fields...)
		case status >= 400:
			logger.Warn("Client error", fields...)
		case duration > 1*time.Second:
			logger.Warn("Slow request", fields...)
		default:
			logger.Debug("Request", fields...)
		}

		return v, nil
	}
}

// ErrorBoundary converts a downstream error into a 500 response before it
// reaches the dispatcher. Position it early in the chain to keep later
// middleware and the handler inside the boundary.
func ErrorBoundary(logger *zap.Logger) Middleware {
	return func(c *common.Context, next common.Next) (any, error) {
		v, err := next()
		if err == nil {
			return v, nil
		}

		logger.Error("Error boundary caught downstream failure",
			zap.Error(err),
			zap.String("method", c.Method),
			zap.String("path", c.Path),
		)

		resp, jsonErr := c.JSON(500, map[string]any{
			"error": map[string]string{"message": err.Error()},
		})
		if jsonErr != nil {
			return nil, err
		}
		return resp, nil
	}
}
