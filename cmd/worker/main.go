package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	ordersmemory "github.com/Apurer/mediswift-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/mediswift-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/mediswift-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/mediswift-api/internal/domains/orders/application"
	orderports "github.com/Apurer/mediswift-api/internal/domains/orders/ports"
	sessionmemory "github.com/Apurer/mediswift-api/internal/domains/sessions/adapters/memory"
	"github.com/Apurer/mediswift-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/mediswift-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/mediswift-api/internal/platform/postgres"
	platformtemporal "github.com/Apurer/mediswift-api/internal/platform/temporal"
	fulfillmentactivities "github.com/Apurer/mediswift-api/internal/platform/temporal/activities/fulfillment"
	fulfillmentworkflows "github.com/Apurer/mediswift-api/internal/platform/temporal/workflows/fulfillment"
)

func main() {
	ctx := context.Background()
	const serviceName = "mediswift-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	orderRepo, cleanupRepo := buildOrderRepository(ctx, logger)
	defer cleanupRepo()
	// Checkout never runs in the worker, so its sessions are never read.
	orderService := ordersobs.New(
		ordersapp.NewService(orderRepo, sessionmemory.NewStore()),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	activities := fulfillmentactivities.NewActivities(orderService)

	options := platformtemporal.Options{
		Address:   envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
	}
	temporalClient, err := platformtemporal.Dial(options, instruments.Tracer("temporal-worker"), logger)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, fulfillmentworkflows.FulfillmentTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(fulfillmentworkflows.FulfillmentWorkflow, workflow.RegisterOptions{Name: fulfillmentworkflows.FulfillmentWorkflowName})
	w.RegisterActivityWithOptions(activities.MarkOutForDelivery, activity.RegisterOptions{Name: fulfillmentactivities.MarkOutForDeliveryActivityName})
	w.RegisterActivityWithOptions(activities.MarkDelivered, activity.RegisterOptions{Name: fulfillmentactivities.MarkDeliveredActivityName})

	logger.Info("worker listening", slog.String("taskQueue", fulfillmentworkflows.FulfillmentTaskQueue), slog.String("namespace", options.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildOrderRepository(ctx context.Context, logger *slog.Logger) (orderports.Repository, func()) {
	db, cleanup := platformpostgres.ConnectOptional(ctx, os.Getenv("POSTGRES_DSN"), logger)
	if db == nil {
		logger.Warn("worker orders live in memory and are not shared with the API")
		return ordersmemory.NewRepository(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Error("worker migrations failed", slog.String("error", err.Error()))
		cleanup()
		os.Exit(1)
	}
	return orderspostgres.NewRepository(db), cleanup
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
