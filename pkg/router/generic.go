package router

import (
	"net/http"

	"github.com/seqmux/seqmux/pkg/common"
)

// RegisterGenericRoute registers a route with typed request and response data.
// This is a standalone function rather than a method because Go methods cannot
// have type parameters. It wraps the typed handler in a HandlerFunc that uses
// the route's codec to decode the request and encode the response.
func RegisterGenericRoute[Req any, Resp any](r *Router, route RouteConfig[Req, Resp]) error {
	handler := func(c *common.Context) (any, error) {
		// Decode the request
		data, err := route.Codec.Decode(c.Request)
		if err != nil {
			return nil, NewHTTPError(http.StatusBadRequest, "failed to decode request")
		}

		// Call the handler
		result, err := route.Handler(c, data)
		if err != nil {
			return nil, err
		}

		// Encode the response
		body, contentType, err := route.Codec.Encode(result)
		if err != nil {
			return nil, err
		}
		return c.Blob(c.PendingStatus(), contentType, body), nil
	}

	for _, method := range route.Methods {
		err := r.table.Register(Route{
			Method:      method,
			Pattern:     route.Path,
			Handler:     handler,
			Middlewares: route.Middlewares,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
