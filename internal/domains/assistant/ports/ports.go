package ports

import (
	"context"

	"github.com/Apurer/mediswift-api/internal/domains/assistant/domain"
)

// Client is the language model behind the assistant. It receives the user's question and returns
// the model text, which may be empty.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AskInput is a question asked from a session.
type AskInput struct {
	SessionID string
	Text      string
}

// AskResult is the reply appended to the transcript. Ignored is set for blank questions, which
// leave the transcript untouched.
type AskResult struct {
	Reply   *domain.Message
	Ignored bool
}

// Service exposes the assistant use cases.
type Service interface {
	Ask(ctx context.Context, input AskInput) (*AskResult, error)
	Transcript(ctx context.Context, sessionID string) ([]domain.Message, error)
}
