package middleware

import (
	"net/http"
	"strings"

	"github.com/seqmux/seqmux/pkg/common"
	"go.uber.org/zap"
)

// UserKey is the state-bag key under which the authenticated principal is stored.
const UserKey = "auth_user"

// AuthFunc validates a bearer token and returns the authenticated principal.
type AuthFunc func(c *common.Context, token string) (any, bool)

// AuthRequired rejects requests without a valid bearer token with a 401.
// On success the principal is stored in the context state bag.
func AuthRequired(authFn AuthFunc, logger *zap.Logger) Middleware {
	return func(c *common.Context, next common.Next) (any, error) {
		user, ok := authenticate(c, authFn)
		if !ok {
			logger.Warn("Authentication failed",
				zap.String("method", c.Method),
				zap.String("path", c.Path),
				zap.String("remote_addr", c.Request.RemoteAddr),
			)
			return c.JSON(http.StatusUnauthorized, map[string]any{
				"error": map[string]string{"message": "unauthorized"},
			})
		}

		c.Set(UserKey, user)
		logger.Debug("Authentication successful",
			zap.String("method", c.Method),
			zap.String("path", c.Path),
		)
		return next()
	}
}

// AuthOptional attempts authentication and stores the principal on success,
// but lets the request proceed either way.
func AuthOptional(authFn AuthFunc, logger *zap.Logger) Middleware {
	return func(c *common.Context, next common.Next) (any, error) {
		if user, ok := authenticate(c, authFn); ok {
			c.Set(UserKey, user)
			logger.Debug("Authentication successful",
				zap.String("method", c.Method),
				zap.String("path", c.Path),
			)
		}
		return next()
	}
}

// GetUser returns the principal stored by the auth middleware.
func GetUser(c *common.Context) (any, bool) {
	return c.Get(UserKey)
}

func authenticate(c *common.Context, authFn AuthFunc) (any, bool) {
	authHeader := c.Header("Authorization")
	if authHeader == "" {
		return nil, false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	return authFn(c, token)
}
