package application

import (
	"context"
	"time"

	"github.com/Apurer/mediswift-api/internal/domains/assistant/domain"
	"github.com/Apurer/mediswift-api/internal/domains/assistant/ports"
	sessiondomain "github.com/Apurer/mediswift-api/internal/domains/sessions/domain"
	sessionports "github.com/Apurer/mediswift-api/internal/domains/sessions/ports"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 20 * time.Second

// Service relays questions to the language model and records the conversation in the session.
type Service struct {
	sessions sessionports.Store
	client   ports.Client
	timeout  time.Duration
	now      func() time.Time
}

type Option func(*Service)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(sessions sessionports.Store, client ports.Client, opts ...Option) *Service {
	s := &Service{sessions: sessions, client: client, timeout: DefaultTimeout, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask records the question, asks the model and records the reply. Model failures become the
// apology reply rather than an error. The model call outlives a cancelled request so the reply still
// lands in the transcript.
func (s *Service) Ask(ctx context.Context, input ports.AskInput) (*ports.AskResult, error) {
	question, ok := domain.NormalizeQuestion(input.Text)
	if !ok {
		if _, err := s.sessions.Get(ctx, input.SessionID); err != nil {
			return nil, err
		}
		return &ports.AskResult{Ignored: true}, nil
	}
	asked := domain.Message{Speaker: domain.SpeakerUser, Text: question, At: s.now()}
	if _, err := s.sessions.Update(ctx, input.SessionID, func(session *sessiondomain.Session) error {
		session.AppendMessages(asked)
		return nil
	}); err != nil {
		return nil, err
	}

	detached := context.WithoutCancel(ctx)
	callCtx, cancel := context.WithTimeout(detached, s.timeout)
	defer cancel()
	var (
		text string
		err  error
	)
	if s.client == nil {
		err = errNoClient
	} else {
		text, err = s.client.Generate(callCtx, question)
	}

	reply := domain.Message{Speaker: domain.SpeakerAssistant, Text: domain.ReplyOrFallback(text, err), At: s.now()}
	if _, err := s.sessions.Update(detached, input.SessionID, func(session *sessiondomain.Session) error {
		session.AppendMessages(reply)
		return nil
	}); err != nil {
		return nil, err
	}
	return &ports.AskResult{Reply: &reply}, nil
}

// Transcript returns the conversation of a session in order.
func (s *Service) Transcript(ctx context.Context, sessionID string) ([]domain.Message, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Transcript, nil
}

var _ ports.Service = (*Service)(nil)
