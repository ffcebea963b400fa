package mapper

import (
	"time"

	"github.com/Apurer/mediswift-api/internal/domains/assistant/domain"
)

// Message is the transport form of a transcript entry.
type Message struct {
	Speaker string    `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// AskRequest is the body of a question.
type AskRequest struct {
	Text string `json:"text"`
}

// Transcript wraps the message list.
type Transcript struct {
	Messages []Message `json:"messages"`
}

func FromDomain(m domain.Message) Message {
	return Message{Speaker: string(m.Speaker), Text: m.Text, At: m.At}
}

func FromTranscript(messages []domain.Message) Transcript {
	out := Transcript{Messages: make([]Message, 0, len(messages))}
	for _, m := range messages {
		out.Messages = append(out.Messages, FromDomain(m))
	}
	return out
}
