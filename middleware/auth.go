package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duynhne/customer-service/internal/auth"
	"github.com/duynhne/customer-service/internal/core/domain"
)

// principalKey is the gin context key the authenticated identity is
// stored under. Handlers read it through GetPrincipal, never directly.
const principalKey = "principal"

// UserResolver resolves a token subject to a credential record.
// Implemented by the auth service.
type UserResolver interface {
	ResolveUser(ctx context.Context, username string) (*domain.User, error)
}

// AuthMiddleware validates the bearer token locally (signature, expiry,
// subject) and resolves the subject against the credential store. On
// success it attaches a domain.Principal to the request context; any
// failure short-circuits with 401 before the handler runs.
//
// The check runs at most once per request: a principal set by an
// earlier instance in the chain is left untouched.
func AuthMiddleware(tokens *auth.TokenManager, users UserResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetPrincipal(c); ok {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) || len(authHeader) == len(bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}
		token := authHeader[len(bearerPrefix):]

		subject, err := tokens.ExtractSubject(token)
		if err != nil {
			if logger != nil {
				logger.Debug("Token verification failed", zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// The subject must still exist in the credential store and the
		// token must validate against that identity at time of use.
		user, err := users.ResolveUser(c.Request.Context(), subject)
		if err != nil || !tokens.Validate(token, user.Username) {
			if logger != nil {
				logger.Debug("Token subject rejected", zap.String("subject", subject), zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(principalKey, domain.Principal{Username: user.Username, Role: user.Role})
		c.Next()
	}
}

// GetPrincipal returns the authenticated identity attached by
// AuthMiddleware, if any.
func GetPrincipal(c *gin.Context) (domain.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}

// RequireRole gates a route on the principal's role. It must run after
// AuthMiddleware; a missing principal is treated as unauthenticated.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if p.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}
