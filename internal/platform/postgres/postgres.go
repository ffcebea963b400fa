package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	pingTimeout     = 5 * time.Second
	maxOpenConns    = 20
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

var ErrEmptyDSN = errors.New("postgres DSN is empty")

// Connect opens a pooled PostgreSQL connection through GORM and pings it.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrEmptyDSN
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// ConnectOptional dials dsn when it is set. A missing DSN or a failed dial is logged and yields a nil
// DB, which callers treat as "use the in-memory stores".
func ConnectOptional(ctx context.Context, dsn string, log *slog.Logger) (*gorm.DB, func()) {
	if strings.TrimSpace(dsn) == "" {
		log.Warn("POSTGRES_DSN not set, using in-memory catalog and orders")
		return nil, func() {}
	}
	db, err := Connect(ctx, dsn)
	if err != nil {
		log.Warn("postgres unavailable, using in-memory catalog and orders", slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("postgres handle unavailable, using in-memory catalog and orders", slog.String("error", err.Error()))
		return nil, func() {}
	}
	log.Info("postgres connection established")
	return db, func() { _ = sqlDB.Close() }
}
