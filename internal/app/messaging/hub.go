/*
Package messaging contains the core logic for the expert conversation threads.

This file defines the Hub struct, which serves as the central manager for all
live threads. It is responsible for creating, tracking, retrieving, and
cleaning up Thread instances, one per signed-in session.
*/
package messaging

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/SADD1990/kkhebrah/internal/pkg/logx"
)

// Hub coordinates all live expert threads.
type Hub struct {
	// threads stores the live Thread instances, keyed by session ID.
	threads map[string]*Thread

	// replyDelay is handed to every created thread.
	replyDelay time.Duration

	// mu protects concurrent access to the threads map.
	mu sync.RWMutex

	// cleanup is the channel threads use to ask the Hub to forget them.
	cleanup chan string

	// wg waits for the cleanup loop during shutdown.
	wg sync.WaitGroup

	// structured logger with Hub context.
	logger zerolog.Logger
}

// NewHub constructs a Hub and starts its cleanup loop.
func NewHub(replyDelay time.Duration) *Hub {
	h := &Hub{
		threads:    make(map[string]*Thread),
		replyDelay: replyDelay,
		cleanup:    make(chan string, 16),
		logger:     logx.Logger().With().Str("component", "hub").Logger(),
	}

	h.wg.Add(1)
	go h.runCleanupLoop()

	return h
}

// runCleanupLoop removes threads that announced their shutdown.
func (h *Hub) runCleanupLoop() {
	defer h.wg.Done()

	h.logger.Info().Msg("Cleanup loop started.")

	for sessionID := range h.cleanup {
		h.remove(sessionID)
	}

	h.logger.Info().Msg("Cleanup loop stopped.")
}

// remove deletes the thread for the given session from the map.
func (h *Hub) remove(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.threads[sessionID]; ok {
		delete(h.threads, sessionID)
		h.logger.Info().Str("session_id", sessionID).Msg("Thread removed.")
	}
}

// Thread returns the live thread for the given session, creating it on first
// use. A thread that shut down while still mapped is replaced.
func (h *Hub) Thread(sessionID string) *Thread {
	h.mu.RLock()
	t, ok := h.threads[sessionID]
	h.mu.RUnlock()

	if ok && !t.Stopped() {
		return t
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if t, ok := h.threads[sessionID]; ok && !t.Stopped() {
		return t
	}

	t = newThread(sessionID, h.replyDelay, h.cleanup)
	h.threads[sessionID] = t

	h.logger.Info().Str("session_id", sessionID).Msg("New thread created.")

	return t
}

// Close stops and forgets the thread for the given session, if any. Called on
// logout so a pending scripted reply cannot land in a dead session.
func (h *Hub) Close(sessionID string) {
	h.mu.RLock()
	t, ok := h.threads[sessionID]
	h.mu.RUnlock()

	if !ok {
		return
	}

	t.Stop()
	h.remove(sessionID)
}

// Shutdown stops every thread and waits for the cleanup loop to exit.
func (h *Hub) Shutdown() {
	h.logger.Info().Msg("Shutting down Hub...")

	h.mu.Lock()
	for _, t := range h.threads {
		t.Stop()
	}
	h.threads = make(map[string]*Thread)
	h.mu.Unlock()

	close(h.cleanup)
	h.wg.Wait()

	h.logger.Info().Msg("Hub shutdown complete.")
}
