package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	aliasapp "github.com/chatcart/backend/internal/application/alias"
	clarifyapp "github.com/chatcart/backend/internal/application/clarify"
	intakeapp "github.com/chatcart/backend/internal/application/intake"
	"github.com/chatcart/backend/internal/infrastructure/cache"
	"github.com/chatcart/backend/internal/infrastructure/config"
	"github.com/chatcart/backend/internal/infrastructure/logger"
	"github.com/chatcart/backend/internal/infrastructure/persistence"
	"github.com/chatcart/backend/internal/infrastructure/telemetry"
	"github.com/chatcart/backend/internal/infrastructure/token"
	"github.com/chatcart/backend/internal/infrastructure/transport"
	"github.com/chatcart/backend/internal/interfaces/http/handler"
	"github.com/chatcart/backend/internal/interfaces/http/middleware"
	"github.com/chatcart/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// version is stamped at build time via -ldflags "-X main.version=..."
var version = "dev"

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
		_ = log.Sync()
	}()

	log.Info("Starting ChatCart Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	// Initialize OpenTelemetry tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize database with the zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", zap.Error(err))
		}
	}()
	log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Register database query tracing when enabled
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        "postgresql",
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	customerAliasRepo := persistence.NewGormCustomerAliasRepository(db.DB)
	globalAliasRepo := persistence.NewGormGlobalAliasRepository(db.DB)
	clarificationLogRepo := persistence.NewGormClarificationLogRepository(db.DB)

	// Message dedup store (Redis when enabled, in-process otherwise)
	dedupFactory := cache.NewMessageDedupFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithMaxEntries(cfg.Clarify.DedupMaxEntries),
	)
	dedupStore, err := dedupFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create message dedup store", zap.Error(err))
	}

	// Clarification link delivery and token signing
	sender := transport.NewLogSender(log)
	tokenCodec := token.NewCodec(cfg.Token)

	// Initialize application services
	resolver := aliasapp.NewResolver(customerAliasRepo, globalAliasRepo)
	learner := aliasapp.NewLearner(customerAliasRepo, globalAliasRepo, cfg.Clarify.PromotionThreshold, log)
	clarifyService := clarifyapp.NewService(
		orderRepo,
		productRepo,
		clarificationLogRepo,
		tokenCodec,
		sender,
		learner,
		cfg.Token,
		cfg.Clarify,
		log,
	)
	intakeService := intakeapp.NewService(orderRepo, resolver, clarifyService, dedupStore, cfg.Clarify, log)

	// Initialize handlers
	intakeHandler := handler.NewIntakeHandler(intakeService)
	clarifyHandler := handler.NewClarifyHandler(clarifyService)
	orderHandler := handler.NewOrderHandler(orderRepo)
	aliasHandler := handler.NewAliasHandler(customerAliasRepo, globalAliasRepo)
	systemHandler := handler.NewSystemHandler(db, version)

	// Setup gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Clarification pages and health probes live at the root so links
	// pasted into chat stay short; everything else under /api/v1.
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.RegisterRoot(clarifyHandler)
	r.RegisterRoot(systemHandler)
	r.Register(intakeHandler)
	r.Register(orderHandler)
	r.Register(aliasHandler)
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
