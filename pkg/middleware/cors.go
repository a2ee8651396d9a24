package middleware

import (
	"net/http"
	"strings"

	"github.com/seqmux/seqmux/pkg/common"
)

// CORS adds CORS headers to the response and short-circuits preflight
// requests with an empty reply.
func CORS(origins []string, methods []string, headers []string) Middleware {
	return func(c *common.Context, next common.Next) (any, error) {
		if len(origins) > 0 {
			c.SetHeader("Access-Control-Allow-Origin", strings.Join(origins, ", "))
		}
		if len(methods) > 0 {
			c.SetHeader("Access-Control-Allow-Methods", strings.Join(methods, ", "))
		}
		if len(headers) > 0 {
			c.SetHeader("Access-Control-Allow-Headers", strings.Join(headers, ", "))
		}

		// Handle preflight requests
		if c.Method == http.MethodOptions {
			return c.NoContent(), nil
		}

		return next()
	}
}
