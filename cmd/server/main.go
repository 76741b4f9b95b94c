package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	businessapp "github.com/cafeops/backend/internal/application/business"
	catalogapp "github.com/cafeops/backend/internal/application/catalog"
	inventoryapp "github.com/cafeops/backend/internal/application/inventory"
	partnerapp "github.com/cafeops/backend/internal/application/partner"
	"github.com/cafeops/backend/internal/infrastructure/audit"
	"github.com/cafeops/backend/internal/infrastructure/auth"
	"github.com/cafeops/backend/internal/infrastructure/cache"
	"github.com/cafeops/backend/internal/infrastructure/config"
	"github.com/cafeops/backend/internal/infrastructure/logger"
	"github.com/cafeops/backend/internal/infrastructure/messaging"
	"github.com/cafeops/backend/internal/infrastructure/persistence"
	"github.com/cafeops/backend/internal/infrastructure/telemetry"
	"github.com/cafeops/backend/internal/interfaces/http/handler"
	"github.com/cafeops/backend/internal/interfaces/http/middleware"
	"github.com/cafeops/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.FromAppConfig(cfg.Log)
	baseLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry first so the bridged logger and DB plugin see the providers
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.ConfigFrom(cfg.Telemetry), baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfigFrom(cfg.Telemetry), baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfigFrom(cfg.Telemetry), baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize logger provider", zap.Error(err))
	}

	log := baseLog
	if loggerProvider.IsEnabled() {
		exportCore, err := loggerProvider.ExportCore(logger.ParseLevel(cfg.Log.Level))
		if err != nil {
			baseLog.Fatal("Failed to initialize log export", zap.Error(err))
		}
		log = telemetry.Tee(logger.NewCore(logCfg), exportCore,
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting cafeops backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Bool("telemetry", cfg.Telemetry.Enabled),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFrom(cfg.Telemetry), log).Register(db.DB); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Business directory cache and token revocations share one Redis client
	cacheFactory := cache.NewFactory(cfg.Redis, cache.WithLogger(log))
	businessCache, err := cacheFactory.CreateBusinessCache(ctx)
	if err != nil {
		log.Fatal("Failed to create business cache", zap.Error(err))
	}
	defer func() { _ = businessCache.Close() }()

	var revocations auth.RevocationList
	if businessCache.Client != nil {
		revocations = auth.NewRedisRevocationList(businessCache.Client)
	} else {
		log.Warn("Redis unavailable, token revocation checks are disabled")
	}

	auditLogRepo := persistence.NewGormAuditLogRepository(db.DB)
	recorder := audit.NewRecorder(log)
	if cfg.Audit.PersistEnabled {
		recorder.AddWriter("database", auditLogRepo)
	}
	if cfg.Audit.PublishEnabled {
		publisher := messaging.NewKafkaAuditPublisher(cfg.Kafka)
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error("Error closing audit publisher", zap.Error(err))
			}
		}()
		recorder.AddWriter("kafka", publisher)
	}

	// Repositories
	businessRepo := persistence.NewGormBusinessRepository(db.DB)
	relationshipRepo := persistence.NewGormRelationshipRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	itemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	movementRepo := persistence.NewGormInventoryMovementRepository(db.DB)
	transferRepo := persistence.NewGormInventoryTransferRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	modifierRepo := persistence.NewGormModifierRepository(db.DB)

	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)
	businessScope := persistence.NewGormBusinessTransactionScope(db.DB)
	catalogScope := persistence.NewGormCatalogTransactionScope(db.DB)

	// Application services
	directory := businessapp.NewDirectory(businessRepo, businessCache, cfg.Redis.CacheTTL)
	relationshipService := businessapp.NewRelationshipService(relationshipRepo, businessScope, directory, recorder)
	supplierService := partnerapp.NewSupplierService(supplierRepo, recorder)
	itemService := inventoryapp.NewItemService(itemRepo, supplierRepo, inventoryScope, recorder)
	ledgerService := inventoryapp.NewLedgerService(inventoryScope, recorder)
	movementService := inventoryapp.NewMovementService(movementRepo, itemRepo, inventoryScope, recorder)
	transferService := inventoryapp.NewTransferService(transferRepo, itemRepo, inventoryScope, relationshipService, directory, recorder)
	productService := catalogapp.NewProductService(productRepo, catalogScope, recorder)
	modifierService := catalogapp.NewModifierService(modifierRepo, productRepo, catalogScope, recorder)

	var meter metric.Meter
	if meterProvider.IsEnabled() {
		meter = meterProvider.Meter("cafeops-backend")
		ledgerMetrics, err := telemetry.NewLedgerMetrics(telemetry.LedgerMetricsConfig{
			Meter:            meter,
			Logger:           log,
			LowStockProvider: telemetry.NewGormLowStockProvider(db.DB),
		})
		if err != nil {
			log.Warn("Ledger metrics disabled", zap.Error(err))
		} else {
			ledgerService.SetLedgerMetrics(ledgerMetrics)
			movementService.SetLedgerMetrics(ledgerMetrics)
			transferService.SetLedgerMetrics(ledgerMetrics)
			ledgerMetrics.StartPeriodicCollection(ctx, cfg.Telemetry.MetricsInterval)
			defer ledgerMetrics.Stop()
		}
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies", zap.Error(err))
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled),
		middleware.SpanErrorMarker(),
		middleware.CORS(middleware.CORSConfigFrom(cfg.HTTP)),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.HTTPMetrics(meter, log),
	)

	jwtService := auth.NewJWTService(cfg.JWT)
	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
	}
	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithMiddleware(
			middleware.Auth(middleware.AuthConfig{
				JWTService:  jwtService,
				Revocations: revocations,
				Logger:      log,
			}),
			middleware.SpanEnricher(),
			middleware.RateLimit(limiter),
		),
	)
	r.Register(router.DomainGroups(router.Handlers{
		Inventory: handler.NewInventoryHandler(itemService, ledgerService, movementService),
		Transfers: handler.NewTransferHandler(transferService),
		Business:  handler.NewBusinessHandler(relationshipService, directory),
		Suppliers: handler.NewSupplierHandler(supplierService),
		Products:  handler.NewProductHandler(productService, modifierService),
		Modifiers: handler.NewModifierHandler(modifierService),
		AuditLogs: handler.NewAuditLogHandler(auditLogRepo),
	})...).Setup()

	checks := map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if businessCache.Client != nil {
		checks["redis"] = func(ctx context.Context) error {
			return businessCache.Client.Ping(ctx).Err()
		}
	}
	router.RegisterSystemRoutes(engine, handler.NewSystemHandler(cfg.App.Name, version, checks))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	// exporters flush last so shutdown logs and spans are delivered
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
