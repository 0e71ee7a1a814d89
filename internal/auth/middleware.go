package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates JWT tokens and protects routes
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format. Expected: Bearer <token>",
			})
			c.Abort()
			return
		}

		tokenString := parts[1]

		claims, err := ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// Set identity in context
		c.Set("auth_username", claims.AuthUsername)
		c.Set("display_name", claims.DisplayName)

		c.Next()
	}
}

// GetAuthUsername retrieves the authenticated identity from the context
func GetAuthUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get("auth_username")
	if !exists {
		return "", false
	}

	name, ok := username.(string)
	return name, ok
}

// GetDisplayName retrieves the display name from the context
func GetDisplayName(c *gin.Context) (string, bool) {
	displayName, exists := c.Get("display_name")
	if !exists {
		return "", false
	}

	name, ok := displayName.(string)
	return name, ok
}
