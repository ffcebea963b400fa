package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the key was already used by another session.
var ErrIdempotencyConflict = errors.New("idempotency key already used")

// IdempotencyRecord ties a client-supplied checkout key to the order it placed.
type IdempotencyRecord struct {
	Key         string
	SessionHash string
	OrderID     string
	CreatedAt   time.Time
}

// IdempotencyStore remembers checkout keys so a retried checkout replays the placed order.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save persists the record. When the key exists with the same session and order the stored
	// record is returned; otherwise ErrIdempotencyConflict is returned with the stored record.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
