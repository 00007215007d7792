package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/procurehq/lpoflow/internal/auth"
)

const (
	// ContextUser is the gin context key holding the authenticated *domain.User.
	ContextUser = "auth_user"
	// ContextToken is the gin context key holding the raw bearer token.
	ContextToken = "auth_token"
)

// Auth resolves the bearer token to a user and aborts with 401 when the
// token is missing, expired or revoked.
func Auth(provider auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		user, err := provider.CurrentUser(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextToken, token)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
