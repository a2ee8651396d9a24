package common

import (
	"fmt"
	"net/http"
)

// MiddlewareChain represents a chain of middleware
type MiddlewareChain []Middleware

// NewMiddlewareChain creates a new middleware chain
func NewMiddlewareChain(middlewares ...Middleware) MiddlewareChain {
	return middlewares
}

// Append adds middleware to the end of the chain
func (c MiddlewareChain) Append(middlewares ...Middleware) MiddlewareChain {
	return append(c, middlewares...)
}

// Prepend adds middleware to the beginning of the chain
func (c MiddlewareChain) Prepend(middlewares ...Middleware) MiddlewareChain {
	result := make(MiddlewareChain, len(middlewares)+len(c))
	copy(result, middlewares)
	copy(result[len(middlewares):], c)
	return result
}

// Run executes the chain against the context, ending at handler.
//
// Each middleware receives the context and a continuation. Invoking the
// continuation runs the remaining middleware and then the handler; the
// continuation returns the downstream result, normalized to a *Response when
// non-nil. A middleware that returns a value without invoking its
// continuation short-circuits everything downstream. A middleware that
// returns nil after invoking its continuation does not drop the downstream
// response: the chain keeps the last response produced anywhere and falls
// back to it.
//
// Errors returned by any middleware or the handler propagate out of Run
// without recovery; recovery belongs to the dispatcher or to an
// error-boundary middleware wrapping its own continuation call.
func (c MiddlewareChain) Run(ctx *Context, handler HandlerFunc) (*Response, error) {
	var produced *Response
	index := 0

	var advance Next
	advance = func() (any, error) {
		var v any
		var err error
		if index < len(c) {
			m := c[index]
			index++
			v, err = m(ctx, advance)
		} else {
			v, err = handler(ctx)
		}
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, nil
		}
		resp, err := normalize(ctx, v)
		if err != nil {
			return nil, err
		}
		produced = resp
		ctx.recordResponse(resp)
		return resp, nil
	}

	v, err := advance()
	if err != nil {
		return nil, err
	}
	if resp, ok := v.(*Response); ok && resp != nil {
		return resp, nil
	}
	if produced != nil {
		return produced, nil
	}

	// Nothing in the chain produced a response. This is a framework-internal
	// bug signal, not a user error.
	fallback := NewResponse(http.StatusInternalServerError, []byte(`{"error":{"message":"no response generated"}}`))
	fallback.Headers.Set("Content-Type", "application/json")
	ctx.recordResponse(fallback)
	return fallback, nil
}

// normalize converts a chain return value to a *Response. Non-Response values
// are treated as serializable data and wrapped using the context's pending
// status and the serialization collaborator.
func normalize(ctx *Context, v any) (*Response, error) {
	switch r := v.(type) {
	case *Response:
		return r, nil
	case Response:
		return &r, nil
	}

	serializer := ctx.Serializer()
	if serializer == nil {
		return nil, fmt.Errorf("cannot serialize %T: no serializer configured", v)
	}
	body, contentType, err := serializer.Serialize(v)
	if err != nil {
		return nil, err
	}
	resp := ctx.respond(ctx.PendingStatus(), body)
	resp.Headers.Set("Content-Type", contentType)
	return resp, nil
}
