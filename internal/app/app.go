package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/sellforge/server/cmd/server/docs" // swagger docs
	"github.com/sellforge/server/internal/module/billing"
	"github.com/sellforge/server/internal/module/cart"
	"github.com/sellforge/server/internal/module/catalog"
	"github.com/sellforge/server/internal/module/checkout"
	"github.com/sellforge/server/internal/module/delivery"
	"github.com/sellforge/server/internal/module/payment"
	paymentprovider "github.com/sellforge/server/internal/module/payment/provider"
	"github.com/sellforge/server/internal/module/settings"
	"github.com/sellforge/server/internal/module/user"
	sharedcache "github.com/sellforge/server/internal/shared/cache"
	"github.com/sellforge/server/internal/shared/config"
	"github.com/sellforge/server/internal/shared/database"
	"github.com/sellforge/server/internal/shared/logger"
	"github.com/sellforge/server/internal/utils/metrics"
	"github.com/sellforge/server/internal/utils/middleware"
)

// App wires the marketplace modules together.
type App struct {
	config    *config.Config
	db        *gorm.DB
	redis     redis.UniversalClient
	router    *gin.Engine
	logger    *logger.Logger
	zapLogger *zap.Logger
	metrics   *metrics.Metrics

	validator *middleware.JWTValidator

	catalogHandler  *catalog.Handler
	cartHandler     *cart.Handler
	userHandler     *user.Handler
	settingsHandler *settings.Handler
	billingHandler  *billing.Handler
	checkoutHandler *checkout.Handler
	paymentHandler  *payment.Handler
	webhookHandler  *payment.WebhookHandler
	deliveryHandler *delivery.Handler
}

// subscriptionActivator defers binding so payment and billing, which call
// into each other, can be built in sequence.
type subscriptionActivator struct {
	billing *billing.Service
}

func (a *subscriptionActivator) ActivateSubscription(ctx context.Context, subscriptionID uuid.UUID) error {
	return a.billing.ActivateSubscription(ctx, subscriptionID)
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	zapLog, err := logger.NewZap(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init zap logger: %w", err)
	}

	app := &App{
		config:    cfg,
		logger:    log,
		zapLogger: zapLog,
		metrics:   metrics.New("sellforge"),
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	app.db = db

	// Redis is required: carts live there
	redisClient, err := sharedcache.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}
	app.redis = redisClient

	app.validator = middleware.NewJWTValidator(cfg.Auth.JWTSecret)

	if err := app.initModules(); err != nil {
		return nil, fmt.Errorf("init modules: %w", err)
	}

	app.router = app.setupRouter()
	app.registerRoutes()

	return app, nil
}

// initModules builds the module graph bottom-up.
func (a *App) initModules() error {
	cfg := a.config

	// catalog
	catalogRepo := catalog.NewRepository(a.db)
	catalogService := catalog.NewService(catalogRepo, a.zapLogger)
	a.catalogHandler = catalog.NewHandler(catalogService)

	// cart
	cartStore := cart.NewRedisStore(a.redis, cfg.Cart.TTL)
	cartService := cart.NewService(cartStore, catalogService, a.metrics, a.zapLogger)
	a.cartHandler = cart.NewHandler(cartService)

	// user
	userRepo := user.NewRepository(a.db)
	userService := user.NewService(userRepo, a.zapLogger)
	a.userHandler = user.NewHandler(userService)

	// settings
	settingsRepo := settings.NewRepository(a.db)
	settingsService := settings.NewService(settingsRepo, a.zapLogger)
	a.settingsHandler = settings.NewHandler(settingsService)

	// payment gateways
	registry := payment.NewRegistry(&payment.BreakerConfig{
		FailureThreshold: cfg.Payment.Breaker.FailureThreshold,
		Timeout:          cfg.Payment.Breaker.Timeout,
	}, a.metrics)

	registry.Register(paymentprovider.NewStripeProvider(&paymentprovider.StripeConfig{
		APIKey:        cfg.Payment.Stripe.APIKey,
		WebhookSecret: cfg.Payment.Stripe.WebhookSecret,
	}))

	if cfg.Payment.Alipay.AppID != "" {
		alipay, err := paymentprovider.NewAlipayProvider(&paymentprovider.AlipayConfig{
			AppID:           cfg.Payment.Alipay.AppID,
			PrivateKey:      cfg.Payment.Alipay.PrivateKey,
			AlipayPublicKey: cfg.Payment.Alipay.AlipayPublicKey,
			IsProd:          cfg.Payment.Environment == "production",
			NotifyURL:       cfg.Payment.NotifyBaseURL + "/webhooks/alipay",
			ReturnURL:       cfg.Payment.ReturnURL,
		})
		if err != nil {
			return fmt.Errorf("init alipay provider: %w", err)
		}
		registry.Register(alipay)
	}

	// payment and billing call into each other: payment activates
	// subscriptions, billing opens payment sessions
	activator := &subscriptionActivator{}
	paymentRepo := payment.NewRepository(a.db)
	paymentService := payment.NewService(paymentRepo, registry, cartService, activator, &payment.Config{
		Environment:     cfg.Payment.Environment,
		DefaultProvider: "stripe",
		NotifyBaseURL:   cfg.Payment.NotifyBaseURL,
		ReturnURL:       cfg.Payment.ReturnURL,
	}, a.metrics, a.zapLogger)
	a.paymentHandler = payment.NewHandler(paymentService)
	a.webhookHandler = payment.NewWebhookHandler(paymentService, a.zapLogger)

	billingRepo := billing.NewRepository(a.db)
	billingService := billing.NewService(billingRepo, userService, paymentService, a.metrics, a.zapLogger)
	activator.billing = billingService
	a.billingHandler = billing.NewHandler(billingService)

	// checkout
	checkoutService := checkout.NewService(cartService, userService, paymentService, a.metrics, a.zapLogger)
	a.checkoutHandler = checkout.NewHandler(checkoutService)

	// delivery, only when object storage is configured
	if cfg.Storage.Endpoint != "" {
		store, err := delivery.NewObjectStore(&delivery.StorageConfig{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
		})
		if err != nil {
			return fmt.Errorf("init object store: %w", err)
		}
		deliveryService := delivery.NewService(catalogService, paymentService, store, cfg.Storage.DownloadExpiry, a.zapLogger)
		a.deliveryHandler = delivery.NewHandler(deliveryService)
	}

	return nil
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Metrics(a.metrics))

	corsConfig := middleware.DefaultCORSConfig()
	if len(a.config.CORS.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = a.config.CORS.AllowOrigins
	}
	r.Use(middleware.CORS(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return r
}

// registerRoutes attaches module routes to the router.
func (a *App) registerRoutes() {
	v1 := a.router.Group("/api/v1")

	// public routes; optional auth so plan listings know the caller
	public := v1.Group("")
	public.Use(middleware.OptionalAuth(a.validator))
	a.catalogHandler.RegisterRoutes(public)
	a.billingHandler.RegisterPublicRoutes(public)

	// protected routes
	protected := v1.Group("")
	protected.Use(middleware.RequireAuth(a.validator))
	protected.Use(middleware.RateLimit(sharedcache.NewRateLimiter(a.redis), middleware.DefaultRateLimitConfig()))
	protected.Use(middleware.Idempotency(a.redis, middleware.DefaultIdempotencyConfig()))

	a.cartHandler.RegisterRoutes(protected)
	a.userHandler.RegisterRoutes(protected)
	a.settingsHandler.RegisterRoutes(protected)
	a.billingHandler.RegisterRoutes(protected)
	a.checkoutHandler.RegisterRoutes(protected)
	a.paymentHandler.RegisterRoutes(protected)
	a.catalogHandler.RegisterCreatorRoutes(protected)
	if a.deliveryHandler != nil {
		a.deliveryHandler.RegisterRoutes(protected)
	}

	// gateway notifications authenticate by signature, not session
	webhooks := a.router.Group("")
	a.webhookHandler.RegisterRoutes(webhooks)
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases resources.
func (a *App) Stop() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = a.zapLogger.Sync()
}
