package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"incognitify/portal/internal/security"
)

const accessTokenKey = "access_token"

// RequireBearer rejects requests without an Authorization bearer token. The
// token is not verified here; the upstream does that on the forwarded call.
func RequireBearer(message string) gin.HandlerFunc {
	if message == "" {
		message = "Unauthorized"
	}
	return func(c *gin.Context) {
		token, ok := security.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": message})
			return
		}

		c.Set(accessTokenKey, token)
		c.Next()
	}
}

// AccessToken returns the token stored by RequireBearer.
func AccessToken(c *gin.Context) string {
	return c.GetString(accessTokenKey)
}
