package middleware

import (
	"strings"

	"salonsuite-backend/internal/shared/response"
	"salonsuite-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthMiddleware verifies the bearer token and puts the caller identity
// into the gin context under "userID".
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := manager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "invalid user ID in token")
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
