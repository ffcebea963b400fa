package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/Apurer/mediswift-api/internal/domains/assistant/adapters/gemini"
	assistantapp "github.com/Apurer/mediswift-api/internal/domains/assistant/application"
	sessionredis "github.com/Apurer/mediswift-api/internal/domains/sessions/adapters/redis"
	platformtemporal "github.com/Apurer/mediswift-api/internal/platform/temporal"
	fulfillmentworkflows "github.com/Apurer/mediswift-api/internal/platform/temporal/workflows/fulfillment"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port             string
	PostgresDSN      string
	RedisURL         string
	SessionTTL       time.Duration
	SeedCatalog      bool
	GeminiAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string
	AssistantTimeout time.Duration
	CourierLeg       time.Duration
	Temporal         platformtemporal.Options
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:          envDefault("PORT", "8080"),
		PostgresDSN:   strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisURL:      strings.TrimSpace(os.Getenv("REDIS_URL")),
		SeedCatalog:   true,
		GeminiAPIKey:  strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:   envDefault("GEMINI_MODEL", gemini.DefaultModel),
		GeminiBaseURL: envDefault("GEMINI_BASE_URL", gemini.DefaultBaseURL),
		Temporal: platformtemporal.Options{
			Address:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
			Namespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
			Disabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		},
	}
	if raw, ok := os.LookupEnv("SEED_CATALOG"); ok && strings.TrimSpace(raw) != "" {
		cfg.SeedCatalog = isTruthy(raw)
	}
	var err error
	if cfg.SessionTTL, err = positiveDuration("SESSION_TTL_HOURS", time.Hour, sessionredis.DefaultTTL); err != nil {
		return Config{}, err
	}
	if cfg.AssistantTimeout, err = positiveDuration("ASSISTANT_TIMEOUT_SECONDS", time.Second, assistantapp.DefaultTimeout); err != nil {
		return Config{}, err
	}
	if cfg.CourierLeg, err = positiveDuration("COURIER_LEG_MINUTES", time.Minute, fulfillmentworkflows.DefaultCourierLeg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func positiveDuration(key string, unit, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return time.Duration(n) * unit, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
