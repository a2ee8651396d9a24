package middleware

import (
	"net"
	"strings"

	"github.com/seqmux/seqmux/pkg/common"
)

// ClientIPKey is the state-bag key under which the extracted client IP is stored.
const ClientIPKey = "client_ip"

// IPConfig configures client IP extraction.
type IPConfig struct {
	// TrustProxyHeaders enables reading X-Forwarded-For and X-Real-IP.
	// Only enable this behind a trusted reverse proxy.
	TrustProxyHeaders bool
}

// DefaultIPConfig returns a configuration that does not trust proxy headers.
func DefaultIPConfig() *IPConfig {
	return &IPConfig{}
}

// ClientIP extracts the client IP for each request and stores it in the
// context state bag for downstream middleware such as rate limiting.
func ClientIP(config *IPConfig) Middleware {
	if config == nil {
		config = DefaultIPConfig()
	}
	return func(c *common.Context, next common.Next) (any, error) {
		c.Set(ClientIPKey, extractIP(c, config))
		return next()
	}
}

// GetClientIP returns the client IP stored by the ClientIP middleware,
// falling back to direct extraction when the middleware did not run.
func GetClientIP(c *common.Context) string {
	if ip := c.GetString(ClientIPKey); ip != "" {
		return ip
	}
	return extractIP(c, DefaultIPConfig())
}

func extractIP(c *common.Context, config *IPConfig) string {
	if config.TrustProxyHeaders {
		if fwd := c.Header("X-Forwarded-For"); fwd != "" {
			// The first entry is the originating client.
			if idx := strings.IndexByte(fwd, ','); idx >= 0 {
				return strings.TrimSpace(fwd[:idx])
			}
			return strings.TrimSpace(fwd)
		}
		if real := c.Header("X-Real-IP"); real != "" {
			return strings.TrimSpace(real)
		}
	}

	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}
