package router

import (
	"fmt"
	"net/http"

	"github.com/seqmux/seqmux/pkg/common"
)

// allowedMethods is the fixed set of HTTP methods a route may register.
var allowedMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodDelete:  {},
	http.MethodPatch:   {},
	http.MethodHead:    {},
	http.MethodOptions: {},
}

// Route is a registered (method, pattern, handler, middleware) tuple. Routes
// are immutable once registered; Mount produces derived copies with a
// prefixed pattern.
type Route struct {
	Method      string
	Pattern     string
	Handler     common.HandlerFunc
	Middlewares []common.Middleware

	compiled *CompiledPattern
}

// RouteMatch is the ephemeral result of a lookup: the matched route and the
// extracted parameter bindings. It lives only for the duration of one request.
type RouteMatch struct {
	Route  *Route
	Params map[string]string
}

// RouteTable is an ordered collection of routes. Registration order is
// significant: Lookup returns the first structural match, so no route ever
// shadows one registered earlier. The table is meant to be populated during
// application setup and treated as read-only once serving begins; concurrent
// lookups need no locking under that model.
type RouteTable struct {
	routes []*Route
}

// NewRouteTable creates an empty route table.
func NewRouteTable() *RouteTable {
	return &RouteTable{}
}

// Register appends a route to the table, compiling its pattern eagerly.
// Duplicate (method, pattern) pairs are permitted and resolved by
// first-match-wins at lookup time.
func (t *RouteTable) Register(route Route) error {
	if _, ok := allowedMethods[route.Method]; !ok {
		return fmt.Errorf("unsupported method %q for pattern %q", route.Method, route.Pattern)
	}
	if route.Handler == nil {
		return fmt.Errorf("nil handler for %s %s", route.Method, route.Pattern)
	}

	compiled, err := CompilePattern(route.Pattern)
	if err != nil {
		return err
	}
	route.compiled = compiled
	t.routes = append(t.routes, &route)
	return nil
}

// Lookup scans routes in registration order and returns the first whose
// method equals the request method and whose pattern matches the path.
// It is a pure read with no side effects.
func (t *RouteTable) Lookup(method, path string) (*RouteMatch, bool) {
	for _, route := range t.routes {
		if route.Method != method {
			continue
		}
		params, ok := route.compiled.Match(path)
		if !ok {
			continue
		}
		return &RouteMatch{Route: route, Params: params}, true
	}
	return nil, false
}

// Mount copies every route of other into this table with the given pattern
// prefix. It is a one-time copy at mount time, not a live reference: routes
// registered on other afterwards are not reflected here, and other remains
// independently matchable.
func (t *RouteTable) Mount(prefix string, other *RouteTable) error {
	for _, route := range other.routes {
		err := t.Register(Route{
			Method:      route.Method,
			Pattern:     prefix + route.Pattern,
			Handler:     route.Handler,
			Middlewares: route.Middlewares,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of registered routes.
func (t *RouteTable) Len() int {
	return len(t.routes)
}

// Routes returns the registered routes in registration order. The returned
// slice is a copy; the routes themselves are shared and must not be mutated.
func (t *RouteTable) Routes() []*Route {
	out := make([]*Route, len(t.routes))
	copy(out, t.routes)
	return out
}
