// Package common provides shared types and utilities used across the seqmux framework.
package common

import (
	"net/http"
)

// RoutePatternKey is the state-bag key under which the dispatcher stores the
// matched route's pattern. Middleware can use it for low-cardinality labels
// instead of the concrete request path.
const RoutePatternKey = "route_pattern"

// HandlerFunc is a terminal route handler. It may return a *Response, an
// arbitrary serializable value (which the chain turns into a Response using
// the context's Serializer), or nil.
type HandlerFunc func(c *Context) (any, error)

// Next is the continuation handed to a middleware. Invoking it runs the rest
// of the chain (remaining middleware, then the handler) and returns whatever
// the downstream produced, already normalized to a *Response when non-nil.
type Next func() (any, error)

// Middleware is a unit of request/response interception with explicit
// continuation control. A middleware that returns a value without invoking
// next short-circuits the chain; one that invokes next may act before and
// after the downstream work completes.
type Middleware func(c *Context, next Next) (any, error)

// Response is the generic HTTP response abstraction handed back to the host
// server for transmission.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// NewResponse creates a Response with the given status and body and an empty
// header set.
func NewResponse(statusCode int, body []byte) *Response {
	return &Response{
		StatusCode: statusCode,
		Headers:    make(http.Header),
		Body:       body,
	}
}

// BodyParser is the body-parsing collaborator. Given the Content-Type header
// and the raw body bytes it returns a parsed value. The context invokes it
// lazily and caches the result.
type BodyParser interface {
	Parse(contentType string, data []byte) (any, error)
}

// Serializer is the serialization collaborator. It turns an arbitrary value
// into response bytes plus a content type. The chain uses it to wrap
// non-Response handler return values.
type Serializer interface {
	Serialize(v any) (body []byte, contentType string, err error)
}
