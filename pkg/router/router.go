package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"

	"github.com/seqmux/seqmux/pkg/codec"
	"github.com/seqmux/seqmux/pkg/common"
	"go.uber.org/zap"
)

// Router is the top-level dispatcher. It resolves a request to a route,
// builds the effective middleware list, runs the chain, and maps unmatched or
// errored requests to fallback responses. It implements http.Handler for use
// with a host HTTP server.
//
// Registration must finish before serving begins; after that the route table
// and global middleware list are treated as read-only, so concurrent requests
// need no locking around them.
type Router struct {
	config       RouterConfig
	logger       *zap.Logger
	table        *RouteTable
	middlewares  []common.Middleware
	errorHandler ErrorHandler
	bodyParser   common.BodyParser
	serializer   common.Serializer

	wg         sync.WaitGroup
	shutdown   bool
	shutdownMu sync.RWMutex
}

// NewRouter creates a new Router with the given configuration.
// It sets up logging, default collaborators, and registers routes from
// sub-routers.
func NewRouter(config RouterConfig) *Router {
	// Set up the logger
	logger := config.Logger
	if logger == nil {
		// Create a default logger if none is provided
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			// Fallback to a no-op logger if we can't create a production logger
			logger = zap.NewNop()
		}
	}

	bodyParser := config.BodyParser
	if bodyParser == nil {
		bodyParser = codec.NewContentTypeParser()
	}
	serializer := config.Serializer
	if serializer == nil {
		serializer = codec.NewJSONSerializer()
	}

	r := &Router{
		config:       config,
		logger:       logger,
		table:        NewRouteTable(),
		middlewares:  config.Middlewares,
		errorHandler: config.ErrorHandler,
		bodyParser:   bodyParser,
		serializer:   serializer,
	}

	// Register routes from sub-routers
	for _, sr := range config.SubRouters {
		r.registerSubRouter(sr)
	}

	return r
}

// registerSubRouter registers all routes in a sub-router, applying the
// sub-router's path prefix and prepending its middleware to each route's own.
func (r *Router) registerSubRouter(sr SubRouterConfig) {
	for _, route := range sr.Routes {
		middlewares := make([]common.Middleware, 0, len(sr.Middlewares)+len(route.Middlewares))
		middlewares = append(middlewares, sr.Middlewares...)
		middlewares = append(middlewares, route.Middlewares...)

		for _, method := range route.Methods {
			err := r.table.Register(Route{
				Method:      method,
				Pattern:     sr.PathPrefix + route.Path,
				Handler:     route.Handler,
				Middlewares: middlewares,
			})
			if err != nil {
				panic(fmt.Sprintf("seqmux: %v", err))
			}
		}
	}
}

// RegisterRoute registers a declaratively configured route.
func (r *Router) RegisterRoute(route RouteConfigBase) error {
	for _, method := range route.Methods {
		err := r.table.Register(Route{
			Method:      method,
			Pattern:     route.Path,
			Handler:     route.Handler,
			Middlewares: route.Middlewares,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// AddRoute registers a single route for one method.
func (r *Router) AddRoute(method, pattern string, handler common.HandlerFunc, middlewares ...common.Middleware) error {
	return r.table.Register(Route{
		Method:      method,
		Pattern:     pattern,
		Handler:     handler,
		Middlewares: middlewares,
	})
}

// mustAdd backs the fluent registration helpers. Registration happens at
// startup, so a bad pattern is a programming error worth failing loudly on.
func (r *Router) mustAdd(method, pattern string, handler common.HandlerFunc, middlewares []common.Middleware) {
	if err := r.AddRoute(method, pattern, handler, middlewares...); err != nil {
		panic(fmt.Sprintf("seqmux: %v", err))
	}
}

// Get registers a GET route. It panics on an invalid pattern.
func (r *Router) Get(pattern string, handler common.HandlerFunc, middlewares ...common.Middleware) {
	r.mustAdd(http.MethodGet, pattern, handler, middlewares)
}

// Post registers a POST route. It panics on an invalid pattern.
func (r *Router) Post(pattern string, handler common.HandlerFunc, middlewares ...common.Middleware) {
	r.mustAdd(http.MethodPost, pattern, handler, middlewares)
}

// Put registers a PUT route. It panics on an invalid pattern.
func (r *Router) Put(pattern string, handler common.HandlerFunc, middlewares ...common.Middleware) {
	r.mustAdd(http.MethodPut, pattern, handler, middlewares)
}

// Delete registers a DELETE route. It panics on an invalid pattern.
func (r *Router) Delete(pattern string, handler common.HandlerFunc, middlewares ...common.Middleware) {
	r.mustAdd(http.MethodDelete, pattern, handler, middlewares)
}

// Patch registers a PATCH route. It panics on an invalid pattern.
func (r *Router) Patch(pattern string, handler common.HandlerFunc, middlewares ...common.Middleware) {
	r.mustAdd(http.MethodPatch, pattern, handler, middlewares)
}

// Head registers a HEAD route. It panics on an invalid pattern.
func (r *Router) Head(pattern string, handler common.HandlerFunc, middlewares ...common.Middleware) {
	r.mustAdd(http.MethodHead, pattern, handler, middlewares)
}

// Options registers an OPTIONS route. It panics on an invalid pattern.
func (r *Router) Options(pattern string, handler common.HandlerFunc, middlewares ...common.Middleware) {
	r.mustAdd(http.MethodOptions, pattern, handler, middlewares)
}

// Use appends global middleware. Global middleware always precedes
// route-specific middleware and runs in registration order.
func (r *Router) Use(middlewares ...common.Middleware) {
	r.middlewares = append(r.middlewares, middlewares...)
}

// Mount copies the routes of a sub-table into this router under the given
// path prefix. The copy is taken at mount time; later registrations on the
// sub-table are not reflected.
func (r *Router) Mount(prefix string, sub *RouteTable) error {
	return r.table.Mount(prefix, sub)
}

// SetErrorHandler installs the pluggable error collaborator.
func (r *Router) SetErrorHandler(handler ErrorHandler) {
	r.errorHandler = handler
}

// Table exposes the router's route table for collaborators that need to
// inspect registrations.
func (r *Router) Table() *RouteTable {
	return r.table
}

// Handle is the single dispatch entry point. It always returns exactly one
// non-nil Response: the matched chain's response, a 404 for an unmatched
// request, or an error response when user code fails.
func (r *Router) Handle(req *http.Request) *common.Response {
	ctx := common.NewContext(req, r.bodyParser, r.serializer)
	return r.dispatch(ctx)
}

func (r *Router) dispatch(ctx *common.Context) (resp *common.Response) {
	// User-code panics are caught exactly once, here at the dispatch boundary.
	defer func() {
		if rec := recover(); rec != nil {
			resp = r.errorResponse(ctx, &panicError{value: rec, stack: debug.Stack()})
		}
	}()

	match, ok := r.table.Lookup(ctx.Method, ctx.Path)
	if !ok {
		return r.notFoundResponse(ctx)
	}

	ctx.SetParams(match.Params)
	ctx.Set(common.RoutePatternKey, match.Route.Pattern)

	// Each request gets its own backing slice: appending route middleware to
	// the shared global slice would let concurrent requests overwrite each
	// other's chain through its spare capacity.
	effective := make([]common.Middleware, 0, len(r.middlewares)+len(match.Route.Middlewares))
	effective = append(effective, r.middlewares...)
	effective = append(effective, match.Route.Middlewares...)

	resp, err := common.NewMiddlewareChain(effective...).Run(ctx, match.Route.Handler)
	if err != nil {
		return r.errorResponse(ctx, err)
	}
	return resp
}

// notFoundResponse emits the 404 reply for an unmatched request. The body
// identifies the attempted method and path for debuggability.
func (r *Router) notFoundResponse(ctx *common.Context) *common.Response {
	r.logger.Debug("No route matched",
		zap.String("method", ctx.Method),
		zap.String("path", ctx.Path),
	)
	return jsonError(http.StatusNotFound, errorBody{
		Message: fmt.Sprintf("no route matched %s %s", ctx.Method, ctx.Path),
		Method:  ctx.Method,
		Path:    ctx.Path,
	})
}

// errorResponse maps an error from the chain to exactly one Response. The
// custom error handler gets the first chance; its own failures are logged and
// swallowed, never propagated.
func (r *Router) errorResponse(ctx *common.Context, err error) *common.Response {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", ctx.Method),
		zap.String("path", ctx.Path),
	}
	var pe *panicError
	if errors.As(err, &pe) {
		fields = append(fields, zap.String("stack", string(pe.stack)))
		r.logger.Error("Panic recovered", fields...)
	} else {
		r.logger.Error("Handler error", fields...)
	}

	if r.errorHandler != nil {
		if resp := r.runErrorHandler(ctx, err); resp != nil {
			return resp
		}
	}

	statusCode := http.StatusInternalServerError
	message := err.Error()
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		statusCode = httpErr.StatusCode
		message = httpErr.Message
	}

	body := errorBody{Message: message, Method: ctx.Method, Path: ctx.Path}
	if r.config.DevelopmentMode && pe != nil {
		body.Stack = string(pe.stack)
	}
	return jsonError(statusCode, body)
}

// runErrorHandler invokes the user-supplied error handler. The handler is
// never allowed to crash the dispatcher: an error or panic from it is logged
// and results in a nil response, falling through to the default reply.
func (r *Router) runErrorHandler(ctx *common.Context, cause error) (resp *common.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Error handler panicked",
				zap.Any("panic", rec),
				zap.String("method", ctx.Method),
				zap.String("path", ctx.Path),
			)
			resp = nil
		}
	}()

	out, err := r.errorHandler(ctx, cause)
	if err != nil {
		r.logger.Error("Error handler failed",
			zap.Error(err),
			zap.String("method", ctx.Method),
			zap.String("path", ctx.Path),
		)
		return nil
	}
	return out
}

// ServeHTTP implements the http.Handler interface. It tracks in-flight
// requests for graceful shutdown, rejects new work while draining, and writes
// the dispatched Response to the host writer.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	// First add to the wait group before checking shutdown status
	r.wg.Add(1)

	r.shutdownMu.RLock()
	isShutdown := r.shutdown
	r.shutdownMu.RUnlock()

	if isShutdown {
		r.wg.Done()
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	defer r.wg.Done()

	WriteResponse(w, r.Handle(req))
}

// WriteResponse transmits a Response through an http.ResponseWriter.
func WriteResponse(w http.ResponseWriter, resp *common.Response) {
	for key, values := range resp.Headers {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}

// Shutdown gracefully shuts down the router. It stops accepting new requests
// and waits for in-flight requests to complete. If the context is canceled
// before all requests complete, it returns the context's error.
func (r *Router) Shutdown(ctx context.Context) error {
	r.shutdownMu.Lock()
	r.shutdown = true
	r.shutdownMu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// errorBody is the structured error object carried by 404 and error responses.
type errorBody struct {
	Message string `json:"message"`
	Method  string `json:"method,omitempty"`
	Path    string `json:"path,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

func jsonError(statusCode int, body errorBody) *common.Response {
	payload, err := json.Marshal(struct {
		Error errorBody `json:"error"`
	}{Error: body})
	if err != nil {
		payload = []byte(`{"error":{"message":"internal server error"}}`)
	}
	resp := common.NewResponse(statusCode, payload)
	resp.Headers.Set("Content-Type", "application/json")
	return resp
}

// panicError wraps a recovered panic value so the error pipeline can carry
// the captured stack alongside the message.
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}
