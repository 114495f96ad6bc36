package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	collectionapp "github.com/cobranza/backend/internal/application/collection"
	customerapp "github.com/cobranza/backend/internal/application/customer"
	paymentapp "github.com/cobranza/backend/internal/application/payment"
	"github.com/cobranza/backend/internal/domain/collection"
	"github.com/cobranza/backend/internal/domain/payment"
	"github.com/cobranza/backend/internal/infrastructure/cache"
	"github.com/cobranza/backend/internal/infrastructure/config"
	"github.com/cobranza/backend/internal/infrastructure/event"
	"github.com/cobranza/backend/internal/infrastructure/logger"
	"github.com/cobranza/backend/internal/infrastructure/persistence"
	"github.com/cobranza/backend/internal/interfaces/http/handler"
	"github.com/cobranza/backend/internal/interfaces/http/middleware"
	"github.com/cobranza/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Cobranza Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	managementRepo := persistence.NewGormManagementRepository(db.DB)
	scheduleRepo := persistence.NewGormScheduleRepository(db.DB)
	historyRepo := persistence.NewGormHistoryRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)

	// Typification policy: codes come from configuration, resolved through
	// the per-portfolio cache so a future per-tenant source can slot in
	codes := make([]collection.TypificationCode, 0, len(cfg.Collection.PaymentTypifications))
	for _, code := range cfg.Collection.PaymentTypifications {
		codes = append(codes, collection.TypificationCode(code))
	}
	policyCache := cache.NewTypificationPolicyCache(cache.NewStaticPolicyProvider(codes...))

	// Portfolio/campaign references are validated by the upstream
	// assignment system; lookups run open until a direct integration lands
	refLookup := cache.NewOpenReferenceLookup()

	// Allocation domain service with the configured default strategy
	allocator := payment.NewAllocationService(
		payment.WithDefaultStrategy(payment.AllocationStrategyType(cfg.Allocation.DefaultStrategy)),
	)

	// Event bus wiring: management payment outcomes drive the allocation engine
	eventBus := event.NewInMemoryEventBus(log)

	// Initialize application services
	customerService := customerapp.NewCustomerService(customerRepo, log)
	managementService := collectionapp.NewManagementService(managementRepo, policyCache, refLookup, refLookup, log)
	managementService.SetEventPublisher(eventBus)
	scheduleService := paymentapp.NewScheduleService(scheduleRepo, historyRepo, log)
	scheduleService.SetEventPublisher(eventBus)
	paymentService := paymentapp.NewPaymentService(paymentRepo, log)
	paymentService.SetEventPublisher(eventBus)

	allocationEngine := paymentapp.NewAllocationEngine(scheduleRepo, historyRepo, allocator, log)
	eventBus.Subscribe(allocationEngine, allocationEngine.EventTypes()...)

	busCtx, busCancel := context.WithCancel(context.Background())
	defer busCancel()
	if err := eventBus.Start(busCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Initialize HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	managementHandler := handler.NewManagementHandler(managementService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	allocationHandler := handler.NewAllocationHandler(allocationEngine)
	systemHandler := handler.NewSystemHandler(db, cfg.App.Name, cfg.App.Env)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes: every versioned route runs under tenant context
	// except the system endpoints
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.SkipPaths = append(tenantConfig.SkipPaths, "/api/v1/system/info")
	tenantConfig.Logger = log
	r.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	r.Register(router.NewDomainGroup("crm", "/crm").Attach(customerHandler)).
		Register(router.NewDomainGroup("collection", "/collection").Attach(managementHandler)).
		Register(router.NewDomainGroup("payment", "/payment").Attach(scheduleHandler, paymentHandler, allocationHandler)).
		Register(router.NewDomainGroup("system", "/system").Attach(systemHandler))

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Event bus shutdown error", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
