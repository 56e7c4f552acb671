package middleware

import (
	"context"

	"salonsuite-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Store roles ordered by privilege.
const (
	RoleStaff   = "staff"
	RoleManager = "manager"
	RoleOwner   = "owner"
)

var roleRank = map[string]int{
	RoleStaff:   1,
	RoleManager: 2,
	RoleOwner:   3,
}

// StoreRoleResolver answers "what role does this user hold in this store".
// Implemented by the store service (with a short-TTL cache in front of the DB).
type StoreRoleResolver interface {
	GetMemberRole(ctx context.Context, storeID, userID uuid.UUID) (string, error)
}

// RequireStoreRole is the single authorization middleware. Every protected
// route declares the minimum role it needs; the handler never re-checks.
// Must run after AuthMiddleware.
func RequireStoreRole(resolver StoreRoleResolver, minRole string) gin.HandlerFunc {
	required := roleRank[minRole]

	return func(c *gin.Context) {
		userIDVal, exists := c.Get("userID")
		if !exists {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		userID := userIDVal.(uuid.UUID)

		storeID, err := uuid.Parse(c.Param("storeId"))
		if err != nil {
			response.BadRequest(c, "invalid store id")
			c.Abort()
			return
		}

		role, err := resolver.GetMemberRole(c.Request.Context(), storeID, userID)
		if err != nil || roleRank[role] < required {
			response.Forbidden(c, "insufficient store role")
			c.Abort()
			return
		}

		c.Set("storeID", storeID)
		c.Set("storeRole", role)
		c.Next()
	}
}
