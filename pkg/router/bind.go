package router

import (
	"fmt"

	"github.com/seqmux/seqmux/pkg/common"
)

// ParamSource tags where a declared handler argument comes from.
type ParamSource int

const (
	// SourceBody resolves to the lazily parsed request body.
	SourceBody ParamSource = iota
	// SourceQuery resolves to a query-string value by key.
	SourceQuery
	// SourcePath resolves to a path parameter by key.
	SourcePath
	// SourceContext resolves to the request context itself.
	SourceContext
)

// ParamBinding is a tagged variant describing one handler argument.
type ParamBinding struct {
	Source ParamSource
	Key    string
}

// BindBody declares a body-sourced argument.
func BindBody() ParamBinding { return ParamBinding{Source: SourceBody} }

// BindQuery declares a query-sourced argument for key.
func BindQuery(key string) ParamBinding { return ParamBinding{Source: SourceQuery, Key: key} }

// BindParam declares a path-parameter argument for key.
func BindParam(key string) ParamBinding { return ParamBinding{Source: SourcePath, Key: key} }

// BindContext declares an argument bound to the request context.
func BindContext() ParamBinding { return ParamBinding{Source: SourceContext} }

// resolvers is the dispatch table mapping each source tag to its extraction
// procedure. No runtime type inspection is involved.
var resolvers = map[ParamSource]func(c *common.Context, key string) (any, error){
	SourceBody: func(c *common.Context, _ string) (any, error) {
		return c.Body()
	},
	SourceQuery: func(c *common.Context, key string) (any, error) {
		return c.Query(key), nil
	},
	SourcePath: func(c *common.Context, key string) (any, error) {
		return c.Param(key), nil
	},
	SourceContext: func(c *common.Context, _ string) (any, error) {
		return c, nil
	},
}

// ResolveBindings materializes the declared arguments for one invocation, in
// declaration order.
func ResolveBindings(c *common.Context, bindings []ParamBinding) ([]any, error) {
	args := make([]any, len(bindings))
	for i, binding := range bindings {
		resolve, ok := resolvers[binding.Source]
		if !ok {
			return nil, fmt.Errorf("unknown param source %d", binding.Source)
		}
		v, err := resolve(c, binding.Key)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// Inject adapts a positional-argument function into a HandlerFunc, resolving
// each declared binding through the dispatch table at call time.
func Inject(fn func(args []any) (any, error), bindings ...ParamBinding) common.HandlerFunc {
	return func(c *common.Context) (any, error) {
		args, err := ResolveBindings(c, bindings)
		if err != nil {
			return nil, err
		}
		return fn(args)
	}
}
