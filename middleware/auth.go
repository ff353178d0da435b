package middleware

import (
	"net/http"
	"strings"

	"homely/utils"

	"github.com/gin-gonic/gin"
)

// CallerIDKey is the context key the subject claim is stored under.
const CallerIDKey = "callerID"

// JWTAuthMiddleware validates the bearer token issued by the external auth
// system and stores its subject on the request context. Identity
// verification itself happens upstream; this server only trusts the claim.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		callerID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(CallerIDKey, callerID)
		c.Next()
	}
}

// CallerID returns the authenticated subject stored by JWTAuthMiddleware.
func CallerID(c *gin.Context) string {
	return c.GetString(CallerIDKey)
}
