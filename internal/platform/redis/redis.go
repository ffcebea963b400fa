package redis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

const pingTimeout = 3 * time.Second

var ErrEmptyURL = errors.New("redis URL is empty")

// Connect parses a redis:// URL, dials it and pings it.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrEmptyURL
	}
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := goredis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// ConnectOptional returns nil when url is unset or unreachable so sessions stay in memory.
func ConnectOptional(ctx context.Context, url string, log *slog.Logger) (*goredis.Client, func()) {
	if strings.TrimSpace(url) == "" {
		log.Warn("REDIS_URL not set, keeping sessions in memory")
		return nil, func() {}
	}
	client, err := Connect(ctx, url)
	if err != nil {
		log.Warn("redis unavailable, keeping sessions in memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	log.Info("redis connection established")
	return client, func() { _ = client.Close() }
}
