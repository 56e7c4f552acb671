package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"salonsuite-backend/internal/shared/middleware"
	"salonsuite-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))
		v1.GET("/db-test", databaseTestHandler(c))

		setupStoreRoutes(v1, c)
		setupCatalogRoutes(v1, c)
		setupCustomerRoutes(v1, c)
		setupCouponRoutes(v1, c)
		setupBillingRoutes(v1, c)
		setupBookingRoutes(v1, c)
	}

	return router
}

// ========================================
// STORE ROUTES
// ========================================
func setupStoreRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)

	stores := v1.Group("/stores")
	stores.Use(auth)
	{
		stores.POST("", c.StoreHandler.CreateStore)
		stores.GET("", c.StoreHandler.ListMyStores)
	}

	// Store-scoped routes carry a role check.
	scoped := v1.Group("/stores/:storeId")
	scoped.Use(auth)
	{
		scoped.GET("", middleware.RequireStoreRole(c.StoreService, middleware.RoleStaff), c.StoreHandler.GetStore)
		scoped.PUT("", middleware.RequireStoreRole(c.StoreService, middleware.RoleOwner), c.StoreHandler.UpdateStore)

		members := scoped.Group("/members")
		{
			members.GET("", middleware.RequireStoreRole(c.StoreService, middleware.RoleManager), c.StoreHandler.ListMembers)
			members.POST("", middleware.RequireStoreRole(c.StoreService, middleware.RoleOwner), c.StoreHandler.AddMember)
			members.PUT("/me/pin", middleware.RequireStoreRole(c.StoreService, middleware.RoleStaff), c.StoreHandler.SetMyPIN)
			members.POST("/me/pin/verify", middleware.RequireStoreRole(c.StoreService, middleware.RoleStaff), c.StoreHandler.VerifyMyPIN)
			members.PUT("/:userId", middleware.RequireStoreRole(c.StoreService, middleware.RoleOwner), c.StoreHandler.UpdateMemberRole)
			members.DELETE("/:userId", middleware.RequireStoreRole(c.StoreService, middleware.RoleOwner), c.StoreHandler.RemoveMember)
		}
	}
}

// ========================================
// CATALOG ROUTES
// ========================================
func setupCatalogRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)
	staff := middleware.RequireStoreRole(c.StoreService, middleware.RoleStaff)
	manager := middleware.RequireStoreRole(c.StoreService, middleware.RoleManager)

	catalog := v1.Group("/catalog/:storeId/items")
	catalog.Use(auth)
	{
		catalog.GET("", staff, c.CatalogHandler.ListItems)
		catalog.GET("/:itemId", staff, c.CatalogHandler.GetItem)
		catalog.POST("", manager, c.CatalogHandler.CreateItem)
		catalog.PUT("/:itemId", manager, c.CatalogHandler.UpdateItem)
		catalog.DELETE("/:itemId", manager, c.CatalogHandler.DeactivateItem)
	}
}

// ========================================
// CUSTOMER ROUTES
// ========================================
func setupCustomerRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)
	staff := middleware.RequireStoreRole(c.StoreService, middleware.RoleStaff)

	customers := v1.Group("/customers/:storeId")
	customers.Use(auth, staff)
	{
		customers.POST("", c.CustomerHandler.CreateCustomer)
		customers.GET("", c.CustomerHandler.ListCustomers)
		customers.GET("/:customerId", c.CustomerHandler.GetCustomer)
		customers.PUT("/:customerId", c.CustomerHandler.UpdateCustomer)
		customers.POST("/:customerId/advance", c.CustomerHandler.AddAdvance)
		customers.GET("/:customerId/wallet", c.CustomerHandler.ListWalletEntries)
	}
}

// ========================================
// COUPON ROUTES
// ========================================
func setupCouponRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)
	staff := middleware.RequireStoreRole(c.StoreService, middleware.RoleStaff)
	manager := middleware.RequireStoreRole(c.StoreService, middleware.RoleManager)

	coupons := v1.Group("/coupons/:storeId")
	coupons.Use(auth)
	{
		// Counter-facing
		coupons.POST("/validate", staff, c.CouponPublicHandler.ValidateCoupon)
		coupons.GET("/eligible", staff, c.CouponPublicHandler.ListEligibleCoupons)

		// Manager-facing CRUD
		coupons.POST("", manager, c.CouponAdminHandler.CreateCoupon)
		coupons.GET("", manager, c.CouponAdminHandler.ListCoupons)
		coupons.GET("/:couponId", manager, c.CouponAdminHandler.GetCoupon)
		coupons.PUT("/:couponId", manager, c.CouponAdminHandler.UpdateCoupon)
		coupons.DELETE("/:couponId", manager, c.CouponAdminHandler.DeleteCoupon)
	}
}

// ========================================
// BILLING ROUTES
// ========================================
func setupBillingRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)
	staff := middleware.RequireStoreRole(c.StoreService, middleware.RoleStaff)
	manager := middleware.RequireStoreRole(c.StoreService, middleware.RoleManager)

	// Receipt view is public: customers open it from a link without an
	// account. Reads are store-scoped, so a foreign bill is a 404.
	v1.GET("/billing/:storeId/bills/:billId", c.BillingHandler.GetBill)

	billing := v1.Group("/billing/:storeId/bills")
	billing.Use(auth)
	{
		billing.POST("", staff, c.BillingHandler.SaveBill)
		billing.GET("", staff, c.BillingHandler.ListBills)

		// Held drafts. Registered before /:billId so "hold" and "held"
		// are not swallowed by the param route.
		billing.POST("/hold", staff, c.BillingHandler.HoldBill)
		billing.GET("/held", staff, c.BillingHandler.ListHeldBills)
		billing.GET("/held/:heldId", staff, c.BillingHandler.GetHeldBill)
		billing.DELETE("/held/:heldId", staff, c.BillingHandler.DeleteHeldBill)

		billing.GET("/export", manager, c.BillingHandler.ExportBills)

		billing.POST("/:billId/payments", staff, c.BillingHandler.AddPayment)
	}
}

// ========================================
// BOOKING ROUTES
// ========================================
func setupBookingRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)
	staff := middleware.RequireStoreRole(c.StoreService, middleware.RoleStaff)

	bookings := v1.Group("/bookings/:storeId")
	bookings.Use(auth, staff)
	{
		bookings.POST("", c.BookingHandler.CreateBooking)
		bookings.GET("", c.BookingHandler.ListBookings)
		bookings.GET("/:bookingId", c.BookingHandler.GetBooking)
		bookings.PUT("/:bookingId", c.BookingHandler.UpdateBooking)
		bookings.PUT("/:bookingId/status", c.BookingHandler.UpdateStatus)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   getEnv("APP_VERSION", "1.0.0"),
			"services":  gin.H{},
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}

// ========================================
// DATABASE TEST HANDLER
// ========================================
func databaseTestHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Database not connected",
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var version string
		err := appCtx.DB.Pool.QueryRow(ctx, "SELECT version()").Scan(&version)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": fmt.Sprintf("Query failed: %v", err),
			})
			return
		}

		stats := appCtx.DB.Pool.Stat()

		c.JSON(http.StatusOK, gin.H{
			"message": "Database test successful",
			"database": gin.H{
				"postgres_version": version,
				"pool_stats": gin.H{
					"total_connections":    stats.TotalConns(),
					"idle_connections":     stats.IdleConns(),
					"acquired_connections": stats.AcquiredConns(),
					"max_connections":      stats.MaxConns(),
				},
			},
		})
	}
}
