package domain

import (
	"strings"
	"time"
)

// Speaker identifies who wrote a transcript message.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

const (
	// FallbackReply is returned when the language model cannot be reached.
	FallbackReply = "I'm having trouble connecting to the medical database right now. Please try again later."
	// EmptyReply is returned when the language model answers with no text.
	EmptyReply = "I couldn't generate a response at this time."
)

// SystemInstruction frames every question sent to the language model.
const SystemInstruction = "You are a helpful, empathetic medical assistant for the MediSwift app. " +
	"You help users understand medicines, side effects, and general wellness. " +
	"Disclaimer: Always advise users to consult a doctor for serious issues. " +
	"Keep answers concise and mobile-friendly."

// Message is one entry of the append-only chat transcript.
type Message struct {
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// NormalizeQuestion trims a question; ok is false when nothing is left to ask.
func NormalizeQuestion(text string) (string, bool) {
	text = strings.TrimSpace(text)
	return text, text != ""
}

// ReplyOrFallback picks the text shown to the user for a model answer.
func ReplyOrFallback(reply string, err error) string {
	if err != nil {
		return FallbackReply
	}
	if strings.TrimSpace(reply) == "" {
		return EmptyReply
	}
	return reply
}
