package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/modelstore-api/auth"
)

// ValidateToken requires "Authorization: Bearer <token>". A missing token is
// 401 and an invalid or expired one 403. The user id and claims are stored in
// the context.
func ValidateToken(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if header == "" || !ok || strings.TrimSpace(tokenString) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token no proporcionado"})
			c.Abort()
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(tokenString))
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Token inválido"})
			c.Abort()
			return
		}

		c.Set(auth.ContextUserID, claims.ID)
		c.Set(auth.ContextClaims, claims)
		c.Next()
	}
}
