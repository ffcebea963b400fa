package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	assistant "github.com/Apurer/mediswift-api/internal/domains/assistant/domain"
	cart "github.com/Apurer/mediswift-api/internal/domains/cart/domain"
	catalog "github.com/Apurer/mediswift-api/internal/domains/catalog/domain"
	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	"github.com/Apurer/mediswift-api/internal/domains/sessions/domain"
	"github.com/Apurer/mediswift-api/internal/domains/sessions/ports"
)

const (
	// DefaultTTL bounds how long an idle session is kept.
	DefaultTTL        = 24 * time.Hour
	defaultKeyPrefix  = "mediswift:session:"
	defaultMaxRetries = 10
)

// ErrContention is returned when an update keeps losing optimistic locking races.
var ErrContention = errors.New("session update aborted after repeated concurrent modifications")

var _ ports.Store = (*Store)(nil)

// Store keeps sessions in Redis as JSON documents. Updates use WATCH/MULTI optimistic locking.
type Store struct {
	client     *redis.Client
	keyPrefix  string
	ttl        time.Duration
	maxRetries int
	now        func() time.Time
}

type Option func(*Store)

func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

func WithMaxRetries(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// NewStore wires a Redis-backed session store. Caller manages the client lifecycle.
func NewStore(client *redis.Client, opts ...Option) *Store {
	s := &Store{
		client:     client,
		keyPrefix:  defaultKeyPrefix,
		ttl:        DefaultTTL,
		maxRetries: defaultMaxRetries,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) Create(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return errors.New("cannot store nil session")
	}
	data, err := encode(session)
	if err != nil {
		return err
	}
	created, err := s.client.SetNX(ctx, s.key(session.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	if !created {
		return ports.ErrExists
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return decode(data)
}

func (s *Store) Update(ctx context.Context, id string, fn ports.MutateFunc) (*domain.Session, error) {
	key := s.key(id)
	var updated *domain.Session
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ports.ErrNotFound
			}
			return fmt.Errorf("loading session: %w", err)
		}
		session, err := decode(data)
		if err != nil {
			return err
		}
		if err := fn(session); err != nil {
			return err
		}
		session.UpdatedAt = s.now()
		encoded, err := encode(session)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = session
		return nil
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, ErrContention
}

func (s *Store) Delete(ctx context.Context, id string) error {
	removed, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if removed == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (s *Store) key(id string) string {
	return s.keyPrefix + id
}

type sessionRecord struct {
	ID         string              `json:"id"`
	Actor      *actorRecord        `json:"actor,omitempty"`
	Lines      []lineRecord        `json:"lines,omitempty"`
	Transcript []assistant.Message `json:"transcript,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

type actorRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type lineRecord struct {
	ItemID               string           `json:"itemId"`
	Name                 string           `json:"name"`
	Brand                string           `json:"brand"`
	Price                decimal.Decimal  `json:"price"`
	OriginalPrice        *decimal.Decimal `json:"originalPrice,omitempty"`
	Stock                int              `json:"stock"`
	RequiresPrescription bool             `json:"requiresPrescription"`
	Category             string           `json:"category"`
	Description          string           `json:"description,omitempty"`
	ImageURL             string           `json:"imageUrl,omitempty"`
	Quantity             int              `json:"quantity"`
}

func encode(session *domain.Session) ([]byte, error) {
	rec := sessionRecord{
		ID:         session.ID,
		Transcript: session.Transcript,
		CreatedAt:  session.CreatedAt,
		UpdatedAt:  session.UpdatedAt,
	}
	if session.Actor != nil {
		rec.Actor = &actorRecord{
			ID:    session.Actor.ID,
			Name:  session.Actor.Name,
			Email: session.Actor.Email,
			Role:  string(session.Actor.Role),
		}
	}
	for _, line := range session.Cart.Lines() {
		rec.Lines = append(rec.Lines, lineRecord{
			ItemID:               line.Item.ID,
			Name:                 line.Item.Name,
			Brand:                line.Item.Brand,
			Price:                line.Item.Price,
			OriginalPrice:        line.Item.OriginalPrice,
			Stock:                line.Item.Stock,
			RequiresPrescription: line.Item.RequiresPrescription,
			Category:             string(line.Item.Category),
			Description:          line.Item.Description,
			ImageURL:             line.Item.ImageURL,
			Quantity:             line.Quantity,
		})
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*domain.Session, error) {
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	lines := make([]cart.Line, 0, len(rec.Lines))
	for _, l := range rec.Lines {
		lines = append(lines, cart.Line{
			Item: catalog.Item{
				ID:                   l.ItemID,
				Name:                 l.Name,
				Brand:                l.Brand,
				Price:                l.Price,
				OriginalPrice:        l.OriginalPrice,
				Stock:                l.Stock,
				RequiresPrescription: l.RequiresPrescription,
				Category:             catalog.Category(l.Category),
				Description:          l.Description,
				ImageURL:             l.ImageURL,
			},
			Quantity: l.Quantity,
		})
	}
	restored, err := cart.Restore(lines)
	if err != nil {
		return nil, fmt.Errorf("decoding session cart: %w", err)
	}
	session := &domain.Session{
		ID:         rec.ID,
		Cart:       restored,
		Transcript: rec.Transcript,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
	if rec.Actor != nil {
		session.Actor = &identity.Actor{
			ID:    rec.Actor.ID,
			Name:  rec.Actor.Name,
			Email: rec.Actor.Email,
			Role:  identity.Role(rec.Actor.Role),
		}
	}
	return session, nil
}
