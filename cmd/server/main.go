package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	outreachapp "github.com/reviewhub/backend/internal/application/outreach"
	reviewapp "github.com/reviewhub/backend/internal/application/review"
	"github.com/reviewhub/backend/internal/domain/shared"
	"github.com/reviewhub/backend/internal/infrastructure/cache"
	"github.com/reviewhub/backend/internal/infrastructure/config"
	"github.com/reviewhub/backend/internal/infrastructure/devport"
	"github.com/reviewhub/backend/internal/infrastructure/logger"
	"github.com/reviewhub/backend/internal/infrastructure/messaging"
	"github.com/reviewhub/backend/internal/infrastructure/persistence"
	"github.com/reviewhub/backend/internal/infrastructure/scheduler"
	"github.com/reviewhub/backend/internal/infrastructure/storage"
	"github.com/reviewhub/backend/internal/interfaces/http/handler"
	"github.com/reviewhub/backend/internal/interfaces/http/middleware"
	"github.com/reviewhub/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/reviewhub/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			ReviewHub Backend API
//	@version		1.0
//	@description	Product review collection and review-request automation for Shopify stores

//	@contact.name	API Support
//	@contact.url	https://github.com/reviewhub/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Shopify App Bridge session token. Format: "Bearer {token}"

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

	log.Info("Starting ReviewHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
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
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	groupRepo := persistence.NewGormProductGroupRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	requestRepo := persistence.NewGormReviewRequestRepository(db.DB)
	webhookLogRepo := persistence.NewGormWebhookLogRepository(db.DB)
	sessionRepo := persistence.NewGormSessionRepository(db.DB)

	// Redis-backed caches with in-memory fallback for single-instance
	// deployments
	cacheFactory := cache.NewCacheFactory(cfg.Redis, cache.WithLogger(log))

	summaryCache, err := cacheFactory.CreateSummaryCache()
	if err != nil {
		log.Fatal("Failed to create review summary cache", zap.Error(err))
	}
	defer func() {
		if err := summaryCache.Close(); err != nil {
			log.Error("Error closing summary cache", zap.Error(err))
		}
	}()

	var dedupStore shared.IdempotencyStore
	if cfg.Automation.WebhookDedup {
		dedupStore, err = cacheFactory.CreateStore()
		if err != nil {
			log.Fatal("Failed to create webhook dedup store", zap.Error(err))
		}
	}

	// Review media storage. The stub keeps media endpoints responsive
	// when no S3-compatible backend is configured.
	var objectStorage reviewapp.ObjectStorageService
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		bucketCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Storage.EnsureBucket(bucketCtx); err != nil {
			log.Warn("Could not ensure storage bucket", zap.Error(err))
		}
		cancel()
		objectStorage = s3Storage
		log.Info("Object storage initialized", zap.String("bucket", s3Storage.GetBucket()))
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Info("Object storage disabled, using stub")
	}

	// Messaging provider registry for review-request delivery
	providerRegistry := messaging.NewRegistry(cfg.Messaging)

	// Initialize application services
	reviewService := reviewapp.NewReviewService(reviewRepo, groupRepo, summaryCache, log)
	groupService := reviewapp.NewProductGroupService(groupRepo, reviewRepo, summaryCache, log)
	mediaService := reviewapp.NewMediaService(objectStorage, log)
	if cfg.Storage.PresignExpiration > 0 {
		mediaCfg := reviewapp.DefaultMediaServiceConfig()
		mediaCfg.UploadURLExpiry = cfg.Storage.PresignExpiration
		mediaService.SetConfig(mediaCfg)
	}
	settingsService := outreachapp.NewSettingsService(settingsRepo, log)
	sendService := outreachapp.NewSendService(requestRepo, settingsRepo, providerRegistry, cfg.Automation.SendSpacing, log)
	webhookService := outreachapp.NewOrderWebhookService(requestRepo, settingsRepo, webhookLogRepo, dedupStore, cfg.Automation.DedupTTL, sendService, log)
	privacyService := outreachapp.NewPrivacyService(reviewRepo, groupRepo, requestRepo, settingsRepo, webhookLogRepo, sessionRepo, log)
	requestService := outreachapp.NewRequestService(requestRepo, log)

	// Background poller that drains due review requests
	if cfg.Automation.PollerEnabled {
		pollerCfg := scheduler.DefaultReviewRequestPollerConfig()
		if cfg.Automation.PollInterval > 0 {
			pollerCfg.PollInterval = cfg.Automation.PollInterval
		}
		if cfg.Automation.BatchSize > 0 {
			pollerCfg.BatchSize = cfg.Automation.BatchSize
		}
		poller, err := scheduler.NewReviewRequestPoller(pollerCfg, sendService, log)
		if err != nil {
			log.Fatal("Failed to create review request poller", zap.Error(err))
		}
		if err := poller.Start(context.Background()); err != nil {
			log.Fatal("Failed to start review request poller", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := poller.Stop(stopCtx); err != nil {
				log.Error("Error stopping review request poller", zap.Error(err))
			}
		}()
	}

	// Initialize HTTP handlers
	reviewHandler := handler.NewReviewHandler(reviewService)
	groupHandler := handler.NewProductGroupHandler(groupService)
	mediaHandler := handler.NewMediaHandler(mediaService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	requestHandler := handler.NewRequestHandler(requestService)
	sendHandler := handler.NewSendHandler(sendService)
	webhookHandler := handler.NewWebhookHandler(webhookService, privacyService)
	systemHandler := handler.NewSystemHandler(db.DB)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

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
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Swagger documentation endpoint
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Storefront routes. The review widget has no App Bridge session, so
	// these authenticate by shop domain query parameter only.
	publicRoutes := router.NewDomainGroup("storefront", "/public")
	publicRoutes.POST("/reviews", reviewHandler.Submit)
	publicRoutes.GET("/products/:product_id/reviews", reviewHandler.ProductReviews)
	publicRoutes.GET("/products/:product_id/group", groupHandler.LookupProduct)
	publicRoutes.POST("/media/upload-url", mediaHandler.InitiateUpload)
	publicRoutes.GET("/media/download-url", mediaHandler.DownloadURL)

	// Embedded admin routes, authenticated by App Bridge session token
	sessionCfg := middleware.SessionTokenConfig{
		APIKey:        cfg.Shopify.APIKey,
		APISecret:     cfg.Shopify.APISecret,
		DevShopHeader: cfg.App.Env != "production",
	}
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(middleware.SessionToken(sessionCfg))

	// Review moderation
	adminRoutes.GET("/reviews", reviewHandler.List)
	adminRoutes.GET("/reviews/stats", reviewHandler.Stats)
	adminRoutes.GET("/reviews/export", reviewHandler.ExportCSV)
	adminRoutes.POST("/reviews/:id/approve", reviewHandler.Approve)
	adminRoutes.POST("/reviews/:id/unapprove", reviewHandler.Unapprove)
	adminRoutes.DELETE("/reviews/:id", reviewHandler.Delete)

	// Product group management
	adminRoutes.POST("/product-groups", groupHandler.Create)
	adminRoutes.GET("/product-groups", groupHandler.List)
	adminRoutes.GET("/product-groups/:id", groupHandler.GetByID)
	adminRoutes.PUT("/product-groups/:id", groupHandler.Update)
	adminRoutes.DELETE("/product-groups/:id", groupHandler.Delete)

	// Automation settings
	adminRoutes.GET("/settings", settingsHandler.Get)
	adminRoutes.PUT("/settings", settingsHandler.Update)

	// Review request history
	adminRoutes.GET("/review-requests", requestHandler.List)

	// Outreach testing and manual dispatch
	adminRoutes.POST("/outreach/test-email", sendHandler.TestEmail)
	adminRoutes.POST("/outreach/test-whatsapp", sendHandler.TestWhatsApp)
	adminRoutes.POST("/outreach/test-email-connection", sendHandler.TestEmailConnection)
	adminRoutes.POST("/outreach/test-whatsapp-connection", sendHandler.TestWhatsAppConnection)
	adminRoutes.POST("/outreach/process-pending", sendHandler.ProcessPending)
	adminRoutes.POST("/test/order-updated", webhookHandler.TestOrderUpdated)

	// Shopify webhook routes, verified by HMAC signature
	webhookRoutes := router.NewDomainGroup("webhooks", "/webhooks")
	webhookRoutes.Use(middleware.WebhookHMAC(cfg.Shopify.APISecret))
	webhookRoutes.POST("/orders/updated", webhookHandler.OrderUpdated)
	webhookRoutes.POST("/customers/data-request", webhookHandler.CustomersDataRequest)
	webhookRoutes.POST("/customers/redact", webhookHandler.CustomersRedact)
	webhookRoutes.POST("/shop/redact", webhookHandler.ShopRedact)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/health", systemHandler.Health)

	// Register all domain groups
	r.Register(publicRoutes).
		Register(adminRoutes).
		Register(webhookRoutes).
		Register(systemRoutes)

	// Development port discovery endpoint for the local frontend
	if cfg.DevPort.Enabled {
		devPortStore := devport.NewStore(cfg.DevPort.FilePath, cfg.DevPort.Default, log)
		devPortHandler := handler.NewDevPortHandler(devPortStore)
		devPortRoutes := router.NewDomainGroup("devport", "/devport")
		devPortRoutes.GET("/port", devPortHandler.Get)
		devPortRoutes.PUT("/port", devPortHandler.Set)
		r.Register(devPortRoutes)
		log.Info("Dev port endpoint enabled", zap.String("file", cfg.DevPort.FilePath))
	}

	// Setup routes
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

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
