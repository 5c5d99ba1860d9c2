package middleware

import (
	"errors"
	"net/http"
	"strings"

	"shohorbari/internal/microservices/http-api/policy"
	"shohorbari/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by Authenticate
const (
	ClaimsKey = "claims"
	UserIDKey = "userID"
	RoleKey   = "role"
)

// TokenValidator resolves an access token to its claims
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

// Authenticate resolves the principal of a request. A request without an
// Authorization header continues as anonymous and the policy decides what it
// may do; a header that is present but malformed or carries a bad token is
// rejected with 401.
func Authenticate(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, service.ErrExpiredToken) {
				msg = "token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		// Set user info in context for handlers to use
		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)

		c.Next()
	}
}

// Principal returns the identity Authenticate resolved, anonymous if none
func Principal(c *gin.Context) policy.Principal {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return policy.Anonymous()
	}
	claims, ok := v.(*service.Claims)
	if !ok {
		return policy.Anonymous()
	}
	return claims.Principal()
}
