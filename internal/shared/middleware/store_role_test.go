package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"salonsuite-backend/internal/domains/store/model"
)

type stubResolver struct {
	role string
	err  error
}

func (s *stubResolver) GetMemberRole(ctx context.Context, storeID, userID uuid.UUID) (string, error) {
	return s.role, s.err
}

func performRoleCheck(t *testing.T, resolver StoreRoleResolver, minRole string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	if authed {
		router.Use(func(c *gin.Context) {
			c.Set("userID", uuid.New())
		})
	}
	router.GET("/stores/:storeId/ping", RequireStoreRole(resolver, minRole), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stores/"+uuid.NewString()+"/ping", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRequireStoreRole(t *testing.T) {
	t.Run("equal role passes", func(t *testing.T) {
		w := performRoleCheck(t, &stubResolver{role: RoleManager}, RoleManager, true)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("higher role passes", func(t *testing.T) {
		w := performRoleCheck(t, &stubResolver{role: RoleOwner}, RoleStaff, true)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("lower role forbidden", func(t *testing.T) {
		w := performRoleCheck(t, &stubResolver{role: RoleStaff}, RoleOwner, true)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("non-member forbidden", func(t *testing.T) {
		w := performRoleCheck(t, &stubResolver{err: model.ErrNotAMember}, RoleStaff, true)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing auth rejected", func(t *testing.T) {
		w := performRoleCheck(t, &stubResolver{role: RoleOwner}, RoleStaff, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireStoreRole_InvalidStoreID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set("userID", uuid.New()) })
	router.GET("/stores/:storeId/ping", RequireStoreRole(&stubResolver{role: RoleOwner}, RoleStaff), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stores/not-a-uuid/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
