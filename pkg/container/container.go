package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"salonsuite-backend/internal/config"
	infraCache "salonsuite-backend/internal/infrastructure/cache"
	"salonsuite-backend/internal/infrastructure/database"
	"salonsuite-backend/internal/infrastructure/queue"
	"salonsuite-backend/pkg/cache"
	"salonsuite-backend/pkg/jwt"

	billingHandler "salonsuite-backend/internal/domains/billing/handler"
	billingRepo "salonsuite-backend/internal/domains/billing/repository"
	billingService "salonsuite-backend/internal/domains/billing/service"
	bookingHandler "salonsuite-backend/internal/domains/booking/handler"
	bookingRepo "salonsuite-backend/internal/domains/booking/repository"
	bookingService "salonsuite-backend/internal/domains/booking/service"
	catalogHandler "salonsuite-backend/internal/domains/catalog/handler"
	catalogRepo "salonsuite-backend/internal/domains/catalog/repository"
	catalogService "salonsuite-backend/internal/domains/catalog/service"
	couponHandler "salonsuite-backend/internal/domains/coupon/handler"
	couponRepo "salonsuite-backend/internal/domains/coupon/repository"
	couponService "salonsuite-backend/internal/domains/coupon/service"
	customerHandler "salonsuite-backend/internal/domains/customer/handler"
	customerRepo "salonsuite-backend/internal/domains/customer/repository"
	customerService "salonsuite-backend/internal/domains/customer/service"
	storeHandler "salonsuite-backend/internal/domains/store/handler"
	storeRepo "salonsuite-backend/internal/domains/store/repository"
	storeService "salonsuite-backend/internal/domains/store/service"

	"github.com/hibiken/asynq"
)

// Container holds the application's full dependency graph. Everything
// in it is a singleton built once at startup.
type Container struct {
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	QueueClient *asynq.Client

	StoreRepo    storeRepo.StoreRepository
	CustomerRepo customerRepo.CustomerRepository
	CatalogRepo  catalogRepo.ItemRepository
	CouponRepo   couponRepo.CouponRepository
	BillingRepo  billingRepo.BillRepository
	BookingRepo  bookingRepo.BookingRepository

	StoreService    storeService.ServiceInterface
	CustomerService customerService.ServiceInterface
	CatalogService  catalogService.ServiceInterface
	CouponService   couponService.ServiceInterface
	BillingService  billingService.ServiceInterface
	BillingExporter billingService.Exporter
	BookingService  bookingService.ServiceInterface

	StoreHandler        *storeHandler.Handler
	CustomerHandler     *customerHandler.Handler
	CatalogHandler      *catalogHandler.Handler
	CouponAdminHandler  *couponHandler.AdminHandler
	CouponPublicHandler *couponHandler.PublicHandler
	BillingHandler      *billingHandler.Handler
	BookingHandler      *bookingHandler.Handler
}

// NewContainer builds the dependency graph in order: config, then
// infrastructure, then repositories, services and handlers. A failure
// at any stage aborts startup.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	log.Println("📋 Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	log.Println("🗄️  Connecting to PostgreSQL...")
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	log.Println("🔴 Connecting to Redis...")
	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// Redis is non-critical at startup; role lookups fall back
			// to the database.
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)
	c.QueueClient = queue.NewClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

	log.Println("📦 Initializing repositories...")
	c.initRepositories()

	log.Println("⚙️  Initializing services...")
	c.initServices()

	log.Println("🎯 Initializing handlers...")
	c.initHandlers()

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.StoreRepo = storeRepo.NewPostgresRepository(pool)
	c.CustomerRepo = customerRepo.NewPostgresRepository(pool)
	c.CatalogRepo = catalogRepo.NewPostgresRepository(pool)
	c.CouponRepo = couponRepo.NewPostgresRepository(pool)
	c.BillingRepo = billingRepo.NewPostgresRepository(pool)
	c.BookingRepo = bookingRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.StoreService = storeService.NewStoreService(c.StoreRepo, c.Cache)
	c.CustomerService = customerService.NewCustomerService(c.CustomerRepo)
	c.CatalogService = catalogService.NewCatalogService(c.CatalogRepo)
	c.CouponService = couponService.NewCouponService(c.CouponRepo)

	c.BillingService = billingService.NewBillingService(
		c.BillingRepo,
		billingService.NewBillCalculator(),
		c.CouponService,   // resolves and records coupon usage
		c.CustomerService, // wallet and dues ledger
		c.QueueClient,
	)
	c.BillingExporter = billingService.NewExportService(c.BillingRepo)

	c.BookingService = bookingService.NewBookingService(
		c.BookingRepo,
		c.CustomerService, // booking advances credit the wallet
		c.QueueClient,
	)
}

func (c *Container) initHandlers() {
	c.StoreHandler = storeHandler.NewHandler(c.StoreService)
	c.CustomerHandler = customerHandler.NewHandler(c.CustomerService)
	c.CatalogHandler = catalogHandler.NewHandler(c.CatalogService)
	c.CouponAdminHandler = couponHandler.NewAdminHandler(c.CouponService)
	c.CouponPublicHandler = couponHandler.NewPublicHandler(c.CouponService)
	c.BillingHandler = billingHandler.NewHandler(c.BillingService, c.BillingExporter)
	c.BookingHandler = bookingHandler.NewHandler(c.BookingService)
}

// Cleanup releases connections during graceful shutdown.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close queue client: %v", err)
		}
	}

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("⚠️  Failed to close Redis: %v", err)
			} else {
				log.Println("✅ Redis connections closed")
			}
		}
	}

	log.Println("✅ Container cleanup completed")
}
