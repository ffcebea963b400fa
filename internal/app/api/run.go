package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	pharmacyserver "github.com/Apurer/mediswift-api/go"

	"github.com/Apurer/mediswift-api/internal/domains/assistant/adapters/gemini"
	assistantobs "github.com/Apurer/mediswift-api/internal/domains/assistant/adapters/observability"
	assistantapp "github.com/Apurer/mediswift-api/internal/domains/assistant/application"
	assistantports "github.com/Apurer/mediswift-api/internal/domains/assistant/ports"
	cartapp "github.com/Apurer/mediswift-api/internal/domains/cart/application"
	catalogmemory "github.com/Apurer/mediswift-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/mediswift-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/mediswift-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/mediswift-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/mediswift-api/internal/domains/catalog/ports"
	ordersmemory "github.com/Apurer/mediswift-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/mediswift-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/mediswift-api/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/Apurer/mediswift-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/mediswift-api/internal/domains/orders/application"
	orderports "github.com/Apurer/mediswift-api/internal/domains/orders/ports"
	reportingobs "github.com/Apurer/mediswift-api/internal/domains/reporting/adapters/observability"
	reportingapp "github.com/Apurer/mediswift-api/internal/domains/reporting/application"
	sessionmemory "github.com/Apurer/mediswift-api/internal/domains/sessions/adapters/memory"
	sessionsobs "github.com/Apurer/mediswift-api/internal/domains/sessions/adapters/observability"
	sessionredis "github.com/Apurer/mediswift-api/internal/domains/sessions/adapters/redis"
	sessionsapp "github.com/Apurer/mediswift-api/internal/domains/sessions/application"
	sessionports "github.com/Apurer/mediswift-api/internal/domains/sessions/ports"
	"github.com/Apurer/mediswift-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/mediswift-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/mediswift-api/internal/platform/postgres"
	platformredis "github.com/Apurer/mediswift-api/internal/platform/redis"
	platformtemporal "github.com/Apurer/mediswift-api/internal/platform/temporal"
)

const (
	serviceName     = "mediswift-api"
	shutdownTimeout = 10 * time.Second
)

// Run boots the MediSwift HTTP API and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repos, cleanupDB := buildRepositories(ctx, cfg, logger)
	defer cleanupDB()
	catalogRepo, orderRepo := repos.catalog, repos.orders
	sessionStore, cleanupSessions := buildSessionStore(ctx, cfg, logger)
	defer cleanupSessions()

	coreCatalog := catalogapp.NewService(catalogRepo)
	if cfg.SeedCatalog {
		seeded, err := coreCatalog.Seed(ctx)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		logger.Info("catalog seeded", slog.Int("items", seeded))
	}
	catalogService := catalogobs.New(coreCatalog,
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	sessionService := sessionsobs.New(sessionsapp.NewService(sessionStore),
		sessionsobs.WithLogger(logger),
		sessionsobs.WithTracer(instruments.Tracer("internal.sessions.application")),
		sessionsobs.WithMeter(instruments.Meter("internal.sessions.application")),
	)
	orderService := ordersobs.New(ordersapp.NewService(orderRepo, sessionStore, ordersapp.WithIdempotencyStore(repos.checkoutKeys)),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	reportingService := reportingobs.New(reportingapp.NewService(orderRepo, catalogRepo),
		reportingobs.WithLogger(logger),
		reportingobs.WithTracer(instruments.Tracer("internal.reporting.application")),
	)
	assistantService := assistantobs.New(
		assistantapp.NewService(sessionStore, buildAssistantClient(cfg, logger), assistantapp.WithTimeout(cfg.AssistantTimeout)),
		assistantobs.WithLogger(logger),
		assistantobs.WithTracer(instruments.Tracer("internal.assistant.application")),
		assistantobs.WithMeter(instruments.Meter("internal.assistant.application")),
	)

	var fulfillment orderports.FulfillmentOrchestrator = ordersworkflows.NewInlineFulfillment(orderService)
	if temporalClient, err := platformtemporal.Dial(cfg.Temporal, instruments.Tracer("temporal-client"), logger); err != nil {
		logger.Warn("Temporal unavailable, dispatching orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		fulfillment = ordersworkflows.NewTemporalFulfillment(temporalClient, cfg.CourierLeg)
		logger.Info("Temporal fulfillment enabled", slog.String("namespace", cfg.Temporal.Namespace))
	}

	handlers := pharmacyserver.ApiHandleFunctions{
		SessionAPI:   pharmacyserver.NewSessionAPI(sessionService),
		CatalogAPI:   pharmacyserver.NewCatalogAPI(catalogService, sessionService),
		CartAPI:      pharmacyserver.NewCartAPI(cartapp.NewService(sessionStore, catalogService)),
		OrderAPI:     pharmacyserver.NewOrderAPI(orderService, sessionService, fulfillment),
		DashboardAPI: pharmacyserver.NewDashboardAPI(reportingService, sessionService),
		AssistantAPI: pharmacyserver.NewAssistantAPI(assistantService),
	}
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router = pharmacyserver.NewRouterWithGinEngine(router, handlers)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("MediSwift API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("MediSwift API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		logger.Info("shutting down MediSwift API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

type repositories struct {
	catalog      catalogports.Repository
	orders       orderports.Repository
	checkoutKeys orderports.IdempotencyStore
}

func memoryRepositories() repositories {
	return repositories{
		catalog:      catalogmemory.NewRepository(),
		orders:       ordersmemory.NewRepository(),
		checkoutKeys: ordersmemory.NewIdempotencyStore(),
	}
}

// buildRepositories returns Postgres repositories when POSTGRES_DSN is reachable and migrated,
// otherwise in-memory ones.
func buildRepositories(ctx context.Context, cfg Config, logger *slog.Logger) (repositories, func()) {
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return memoryRepositories(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("postgres migrations failed, using in-memory catalog and orders", slog.String("error", err.Error()))
		cleanup()
		return memoryRepositories(), func() {}
	}
	logger.Info("catalog and orders configured with postgres")
	return repositories{
		catalog:      catalogpostgres.NewRepository(db),
		orders:       orderspostgres.NewRepository(db),
		checkoutKeys: orderspostgres.NewIdempotencyStore(db),
	}, cleanup
}

func buildSessionStore(ctx context.Context, cfg Config, logger *slog.Logger) (sessionports.Store, func()) {
	client, cleanup := platformredis.ConnectOptional(ctx, cfg.RedisURL, logger)
	if client == nil {
		return sessionmemory.NewStore(), cleanup
	}
	return sessionredis.NewStore(client, sessionredis.WithTTL(cfg.SessionTTL)), cleanup
}

// buildAssistantClient returns nil without an API key so every question gets the apology reply.
func buildAssistantClient(cfg Config, logger *slog.Logger) assistantports.Client {
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, assistant will answer with the fallback reply")
		return nil
	}
	return gemini.NewClient(cfg.GeminiAPIKey,
		gemini.WithModel(cfg.GeminiModel),
		gemini.WithBaseURL(cfg.GeminiBaseURL),
	)
}
