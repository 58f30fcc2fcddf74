/*
Package messaging contains the core logic for the expert conversation threads.

This file defines the chat message model. Sender is an explicit variant type,
and the moderation verdict is attached only to user-authored messages.
*/
package messaging

import (
	"time"

	"github.com/SADD1990/kkhebrah/internal/app/ai"
	"github.com/SADD1990/kkhebrah/internal/pkg/randx"
)

// MaxContentBytes is the maximum allowed size (in bytes) for message text.
const MaxContentBytes = 5000

// Sender identifies the author of a chat message.
type Sender string

const (
	// SenderUser is the signed-in member.
	SenderUser Sender = "user"

	// SenderExpert is the expert on the other side of the thread.
	SenderExpert Sender = "expert"

	// SenderBot is the platform assistant; it never writes into expert
	// threads but shares the message model with the assistant widget.
	SenderBot Sender = "bot"
)

// Message is one entry of a thread's append-only transcript.
type Message struct {
	// ID is a UUID assigned at creation.
	ID string `json:"id"`

	// Text is the message body.
	Text string `json:"text"`

	// Sender is the message author variant.
	Sender Sender `json:"sender"`

	// Timestamp is the creation time in RFC 3339 form.
	Timestamp string `json:"timestamp"`

	// Status carries the moderation verdict for user messages; nil for
	// scripted expert and assistant messages.
	Status *ai.Verdict `json:"status,omitempty"`
}

// NewUserMessage builds a member-authored message carrying its moderation
// verdict.
func NewUserMessage(text string, verdict ai.Verdict) Message {
	return Message{
		ID:        randx.MessageID(),
		Text:      text,
		Sender:    SenderUser,
		Timestamp: time.Now().Format(time.RFC3339),
		Status:    &verdict,
	}
}

// NewExpertMessage builds an expert-authored message.
func NewExpertMessage(text string) Message {
	return Message{
		ID:        randx.MessageID(),
		Text:      text,
		Sender:    SenderExpert,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
