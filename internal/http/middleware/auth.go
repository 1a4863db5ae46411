// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication. The middleware verifies
// the Authorization header via an injected verifier and stashes the
// authenticated identity in the Gin context, where the rate limiter and the
// handlers pick it up.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recipes-backend/internal/services"
)

// Context keys for the authenticated identity.
const (
	ctxKeyUserID    = "userID"
	ctxKeyUserEmail = "userEmail"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(token string) (*services.Claims, error)
}

// CurrentUser returns the authenticated username stored by RequireAuth, or
// "" for anonymous requests.
func CurrentUser(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequireAuth rejects requests without a valid bearer token. On success the
// username and email from the claims are stashed in the context.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "unauthorized",
				"message": "missing bearer token",
			})
			return
		}
		claims, err := verifier.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "unauthorized",
				"message": "invalid or expired token",
			})
			return
		}
		c.Set(ctxKeyUserID, claims.Subject)
		c.Set(ctxKeyUserEmail, claims.Email)
		c.Next()
	}
}

// OptionalAuth stashes the identity when a valid bearer token is present and
// continues anonymously otherwise. Used by read endpoints whose visibility
// rules depend on who is asking.
func OptionalAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := verifier.VerifyToken(token); err == nil {
				c.Set(ctxKeyUserID, claims.Subject)
				c.Set(ctxKeyUserEmail, claims.Email)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}
