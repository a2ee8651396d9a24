// Package router provides an ordered, first-match-wins HTTP routing framework
// with continuation-style middleware. It supports sub-routers, controllers,
// generic typed handlers, and various configuration options.
package router

import (
	"fmt"
	"net/http"

	"github.com/seqmux/seqmux/pkg/common"
	"go.uber.org/zap"
)

// ErrorHandler is the pluggable error collaborator invoked when a handler or
// middleware fails. Returning a non-nil Response uses it as the reply; a nil
// Response, an error, or a panic falls through to the default error response.
type ErrorHandler func(c *common.Context, err error) (*common.Response, error)

// RouterConfig defines the global configuration for the router.
// It includes settings for logging, middleware, collaborators, and sub-routers.
type RouterConfig struct {
	Logger          *zap.Logger         // Logger for all router operations
	DevelopmentMode bool                // Include stack traces in error responses
	Middlewares     []common.Middleware // Global middlewares applied to all routes
	SubRouters      []SubRouterConfig   // Sub-routers with their own path prefixes
	ErrorHandler    ErrorHandler        // Optional error collaborator
	BodyParser      common.BodyParser   // Body-parsing collaborator (defaults to the codec package's content-type parser)
	Serializer      common.Serializer   // Serialization collaborator (defaults to JSON)
}

// SubRouterConfig defines configuration for a group of routes with a common
// path prefix. Sub-router middleware precedes route-specific middleware.
type SubRouterConfig struct {
	PathPrefix  string              // Common path prefix for all routes in this sub-router
	Middlewares []common.Middleware // Middlewares applied to all routes in this sub-router
	Routes      []RouteConfigBase   // Routes in this sub-router
}

// RouteConfigBase defines the declarative configuration for a route.
type RouteConfigBase struct {
	Path        string              // Route pattern (prefixed with the sub-router path prefix if applicable)
	Methods     []string            // HTTP methods this route handles
	Handler     common.HandlerFunc  // Handler function
	Middlewares []common.Middleware // Middlewares applied to this specific route
}

// GenericHandler defines a handler with typed request and response data. The
// framework decodes the request and encodes the response through the route's
// Codec.
type GenericHandler[Req any, Resp any] func(c *common.Context, data Req) (Resp, error)

// Codec defines an interface for decoding typed request data and encoding
// typed response data. The codec package provides a JSON implementation.
type Codec[Req any, Resp any] interface {
	// Decode extracts and deserializes the request body into a value of type Req.
	Decode(r *http.Request) (Req, error)

	// Encode serializes a value of type Resp into response bytes and a
	// content type.
	Encode(resp Resp) (body []byte, contentType string, err error)
}

// RouteConfig defines a route with generic request and response types.
type RouteConfig[Req any, Resp any] struct {
	Path        string                  // Route pattern
	Methods     []string                // HTTP methods this route handles
	Codec       Codec[Req, Resp]        // Codec for the request and response data
	Handler     GenericHandler[Req, Resp] // Typed handler function
	Middlewares []common.Middleware     // Middlewares applied to this specific route
}

// Middleware is an alias for common.Middleware.
type Middleware = common.Middleware

// HTTPError represents an HTTP error with a status code and message.
// When returned from a handler, the router uses the status code and message
// to generate the error response, letting handlers control the exact reply.
type HTTPError struct {
	StatusCode int    // HTTP status code (e.g., 400, 404, 500)
	Message    string // Error message to be sent in the response body
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// NewHTTPError creates a new HTTPError with the specified status code and message.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}
