/*
Package assistant tracks the live conversations with the platform assistant
widget.

This file defines the Registry struct, which maps opaque conversation codes to
Conversation handles and reaps conversations that have gone idle. Assistant
conversations are deliberately decoupled from sessions: the widget works for
anonymous visitors too, so continuity is keyed by the code alone.
*/
package assistant

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/SADD1990/kkhebrah/internal/app/ai"
	"github.com/SADD1990/kkhebrah/internal/pkg/logx"
	"github.com/SADD1990/kkhebrah/internal/pkg/randx"
)

const (
	// ConversationIdleTimeout is the inactivity duration after which a
	// conversation is reaped. The widget then transparently gets a fresh
	// conversation on its next message.
	ConversationIdleTimeout = 30 * time.Minute

	// reapInterval is how often the reaper scans for idle conversations.
	reapInterval = 5 * time.Minute

	// ConversationCodeFallbackLen matches the regular code length so fallback
	// codes survive the validity check on the next message.
	ConversationCodeFallbackLen = randx.ConversationCodeLength
)

// entry pairs a conversation with its last activity time.
type entry struct {
	conv       *ai.Conversation
	lastActive time.Time
}

// Registry is the in-memory index of live assistant conversations.
type Registry struct {
	// gateway creates conversations; each one carries its own transcript.
	gateway *ai.Gateway

	// mu protects entries.
	mu sync.Mutex

	// entries maps conversation codes to live conversations.
	entries map[string]*entry

	// done stops the reaper goroutine.
	done chan struct{}

	// wg waits for the reaper during shutdown.
	wg sync.WaitGroup

	// structured logger with registry context.
	logger zerolog.Logger
}

// NewRegistry constructs a Registry and starts its idle reaper.
func NewRegistry(gateway *ai.Gateway) *Registry {
	r := &Registry{
		gateway: gateway,
		entries: make(map[string]*entry),
		done:    make(chan struct{}),
		logger:  logx.Logger().With().Str("component", "assistant_registry").Logger(),
	}

	r.wg.Add(1)
	go r.runReaper()

	return r
}

// runReaper periodically removes conversations idle past the timeout.
func (r *Registry) runReaper() {
	defer r.wg.Done()

	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.reapIdle()
		case <-r.done:
			return
		}
	}
}

// reapIdle drops every conversation whose last activity is older than the
// idle timeout.
func (r *Registry) reapIdle() {
	cutoff := time.Now().Add(-ConversationIdleTimeout)

	r.mu.Lock()
	defer r.mu.Unlock()

	for code, e := range r.entries {
		if e.lastActive.Before(cutoff) {
			delete(r.entries, code)
			r.logger.Info().Str("conversation_code", code).Msg("Idle conversation reaped.")
		}
	}
}

// Converse routes a message to the conversation identified by code and
// returns the code and the assistant's reply. An empty, malformed, or unknown
// code starts a fresh conversation under a newly issued code, so the widget
// never observes an error for a stale handle.
func (r *Registry) Converse(ctx context.Context, code, message string) (string, string) {
	conv, code := r.resolve(code)

	// The model call happens outside the registry lock; slow turns must not
	// serialize unrelated conversations.
	reply := conv.Send(ctx, message)

	r.touch(code)

	return code, reply
}

// resolve returns the conversation for the given code, creating a fresh one
// under a new code when the given code cannot be honored.
func (r *Registry) resolve(code string) (*ai.Conversation, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if randx.IsValidConversationCode(code) {
		if e, ok := r.entries[code]; ok {
			return e.conv, code
		}
	}

	code, err := randx.ConversationCode()
	if err != nil {
		// crypto/rand failure is effectively fatal elsewhere; here a UUID
		// prefix keeps the widget alive since the code is only a lookup key.
		r.logger.Error().Err(err).Msg("Conversation code generation failed. Falling back to UUID prefix.")
		code = randx.MessageID()[:ConversationCodeFallbackLen]
	}

	e := &entry{
		conv:       r.gateway.NewConversation(),
		lastActive: time.Now(),
	}
	r.entries[code] = e

	r.logger.Info().Str("conversation_code", code).Msg("New assistant conversation created.")

	return e.conv, code
}

// touch refreshes the activity time of the given conversation, if it still
// exists.
func (r *Registry) touch(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[code]; ok {
		e.lastActive = time.Now()
	}
}

// Len reports the number of live conversations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// Shutdown stops the reaper and drops all conversations.
func (r *Registry) Shutdown() {
	close(r.done)
	r.wg.Wait()

	r.mu.Lock()
	r.entries = make(map[string]*entry)
	r.mu.Unlock()

	r.logger.Info().Msg("Assistant registry shutdown complete.")
}
