package router

import (
	"net/http"

	"github.com/seqmux/seqmux/pkg/common"
)

// controllerRoute is one route descriptor collected by a Controller. The
// descriptors live in a flat, ordered slice; nothing is keyed by object
// identity.
type controllerRoute struct {
	method      string
	path        string
	handler     common.HandlerFunc
	middlewares []common.Middleware
}

// Controller is a plain value describing a base path and an ordered list of
// route descriptors, assembled by explicit registration calls. It replaces
// annotation-style metadata collection: all per-route middleware and patterns
// are gathered into one descriptor list before registration, so there is no
// ordering dependency on how the controller was built.
type Controller struct {
	basePath    string
	middlewares []common.Middleware
	routes      []controllerRoute
}

// NewController creates a controller rooted at basePath.
func NewController(basePath string) *Controller {
	return &Controller{basePath: basePath}
}

// Use appends middleware applied to every route in this controller, ahead of
// per-route middleware.
func (c *Controller) Use(middlewares ...common.Middleware) *Controller {
	c.middlewares = append(c.middlewares, middlewares...)
	return c
}

// Handle appends a route descriptor. Returns the controller for chaining.
func (c *Controller) Handle(method, path string, handler common.HandlerFunc, middlewares ...common.Middleware) *Controller {
	c.routes = append(c.routes, controllerRoute{
		method:      method,
		path:        path,
		handler:     handler,
		middlewares: middlewares,
	})
	return c
}

// Get appends a GET route descriptor.
func (c *Controller) Get(path string, handler common.HandlerFunc, middlewares ...common.Middleware) *Controller {
	return c.Handle(http.MethodGet, path, handler, middlewares...)
}

// Post appends a POST route descriptor.
func (c *Controller) Post(path string, handler common.HandlerFunc, middlewares ...common.Middleware) *Controller {
	return c.Handle(http.MethodPost, path, handler, middlewares...)
}

// Put appends a PUT route descriptor.
func (c *Controller) Put(path string, handler common.HandlerFunc, middlewares ...common.Middleware) *Controller {
	return c.Handle(http.MethodPut, path, handler, middlewares...)
}

// Delete appends a DELETE route descriptor.
func (c *Controller) Delete(path string, handler common.HandlerFunc, middlewares ...common.Middleware) *Controller {
	return c.Handle(http.MethodDelete, path, handler, middlewares...)
}

// Patch appends a PATCH route descriptor.
func (c *Controller) Patch(path string, handler common.HandlerFunc, middlewares ...common.Middleware) *Controller {
	return c.Handle(http.MethodPatch, path, handler, middlewares...)
}

// Table builds a route table from the collected descriptors, in order.
// Controller middleware precedes per-route middleware.
func (c *Controller) Table() (*RouteTable, error) {
	table := NewRouteTable()
	for _, route := range c.routes {
		middlewares := make([]common.Middleware, 0, len(c.middlewares)+len(route.middlewares))
		middlewares = append(middlewares, c.middlewares...)
		middlewares = append(middlewares, route.middlewares...)

		err := table.Register(Route{
			Method:      route.method,
			Pattern:     route.path,
			Handler:     route.handler,
			Middlewares: middlewares,
		})
		if err != nil {
			return nil, err
		}
	}
	return table, nil
}

// RegisterController mounts a controller's routes under its base path.
func (r *Router) RegisterController(c *Controller) error {
	table, err := c.Table()
	if err != nil {
		return err
	}
	return r.table.Mount(c.basePath, table)
}
