package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"folioforge/internal/auth"
)

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// AuthMiddleware validates the bearer access token and injects userID into
// the context.
func AuthMiddleware(authService *auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromRequest(c, authService)
		if !ok {
			abortUnauthorized(c)
			return
		}

		c.Set("userID", claims.UserID)
		c.Next()
	}
}

// OptionalAuthMiddleware injects userID when a valid bearer token is present
// but lets anonymous requests through untouched.
func OptionalAuthMiddleware(authService *auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := claimsFromRequest(c, authService); ok {
			c.Set("userID", claims.UserID)
		}
		c.Next()
	}
}

func claimsFromRequest(c *gin.Context, authService *auth.AuthService) (*auth.TokenClaims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}

	rawToken := strings.TrimSpace(parts[1])
	if rawToken == "" {
		return nil, false
	}

	claims, err := authService.ValidateToken(rawToken)
	if err != nil || claims.TokenType != "access" {
		return nil, false
	}
	return claims, true
}
