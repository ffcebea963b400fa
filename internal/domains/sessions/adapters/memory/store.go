package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/mediswift-api/internal/domains/sessions/domain"
	"github.com/Apurer/mediswift-api/internal/domains/sessions/ports"
)

var _ ports.Store = (*Store)(nil)

// Store keeps sessions in process memory.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{sessions: map[string]*domain.Session{}, now: time.Now}
}

func (s *Store) Create(_ context.Context, session *domain.Session) error {
	if session == nil {
		return errors.New("cannot store nil session")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; ok {
		return ports.ErrExists
	}
	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return session.Clone(), nil
}

func (s *Store) Update(_ context.Context, id string, fn ports.MutateFunc) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.sessions[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	working := current.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.UpdatedAt = s.now()
	s.sessions[id] = working
	return working.Clone(), nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}
