package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/mediswift-api/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore persists checkout keys in PostgreSQL.
type IdempotencyStore struct {
	db *gorm.DB
}

func NewIdempotencyStore(db *gorm.DB) *IdempotencyStore {
	return &IdempotencyStore{db: db}
}

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	SessionHash string    `gorm:"column:session_hash;size:64"`
	OrderID     string    `gorm:"column:order_id;size:16"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (idempotencyRecord) TableName() string { return "checkout_idempotency_keys" }

// Get loads a record by key, returning nil when absent.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record idempotencyRecord
	if err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toPortRecord(record), nil
}

// Save inserts the record. A key that already exists is compared with the stored one.
func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	dbRecord := idempotencyRecord{
		Key:         record.Key,
		SessionHash: record.SessionHash,
		OrderID:     record.OrderID,
		CreatedAt:   record.CreatedAt,
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
		Create(&dbRecord)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 1 {
		return toPortRecord(dbRecord), nil
	}
	existing, err := s.Get(ctx, record.Key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.New("idempotency key vanished after conflict")
	}
	if existing.SessionHash != record.SessionHash || existing.OrderID != record.OrderID {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, nil
}

func (s *IdempotencyStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres idempotency store not configured")
	}
	return nil
}

func toPortRecord(rec idempotencyRecord) *ports.IdempotencyRecord {
	return &ports.IdempotencyRecord{
		Key:         rec.Key,
		SessionHash: rec.SessionHash,
		OrderID:     rec.OrderID,
		CreatedAt:   rec.CreatedAt,
	}
}
