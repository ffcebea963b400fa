// Command pending-report lists orders that have been waiting for pharmacist verification longer than
// PENDING_MAX_AGE_HOURS. It only reports; nothing is changed.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	catalogpostgres "github.com/Apurer/mediswift-api/internal/domains/catalog/adapters/persistence/postgres"
	orderspostgres "github.com/Apurer/mediswift-api/internal/domains/orders/adapters/persistence/postgres"
	reportingapp "github.com/Apurer/mediswift-api/internal/domains/reporting/application"
	platformobservability "github.com/Apurer/mediswift-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/mediswift-api/internal/platform/postgres"
)

const defaultMaxAge = 24 * time.Hour

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := platformobservability.NewLogger(os.Stderr, os.Getenv("LOG_LEVEL"), "text")
	db, cleanup := platformpostgres.ConnectOptional(ctx, os.Getenv("POSTGRES_DSN"), logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot report pending orders")
	}

	maxAge := maxAgeFromEnv()
	report := reportingapp.NewService(orderspostgres.NewRepository(db), catalogpostgres.NewRepository(db))
	stale, err := report.StalePending(ctx, time.Now().Add(-maxAge))
	if err != nil {
		log.Fatalf("failed to list pending orders: %v", err)
	}
	logger.Info("pending report", slog.Int("orders", len(stale)), slog.Duration("maxAge", maxAge))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tUSER\tPLACED\tWAITING\tTOTAL")
	for _, order := range stale {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			order.ID, order.UserID, order.CreatedAt.Format(time.RFC3339),
			time.Since(order.CreatedAt).Truncate(time.Minute), order.TotalAmount.StringFixed(2))
	}
	_ = w.Flush()
}

func maxAgeFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("PENDING_MAX_AGE_HOURS"))
	if raw == "" {
		return defaultMaxAge
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return defaultMaxAge
	}
	return time.Duration(hours) * time.Hour
}
