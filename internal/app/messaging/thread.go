/*
Package messaging contains the core logic for the expert conversation threads.

This file defines the Thread struct, the conversation between one session and
its demo expert. A thread owns an append-only message list, fans new messages
out to websocket subscribers, schedules the scripted expert reply, and shuts
itself down after a period of inactivity.
*/
package messaging

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/SADD1990/kkhebrah/internal/pkg/logx"
)

const (
	// ThreadIdleTimeout is the inactivity duration after which a thread
	// shuts down and asks the Hub to forget it.
	ThreadIdleTimeout = 30 * time.Minute

	// subscriberBuffer is the per-subscriber channel capacity. A subscriber
	// that falls this far behind misses messages instead of blocking the
	// thread.
	subscriberBuffer = 64
)

// Scripted thread content. The expert side of the conversation is simulated:
// a fixed greeting seeds the thread and a fixed reply follows every user
// message after a delay.
const (
	expertGreeting    = "أهلاً بك، كيف يمكنني مساعدتك اليوم في تعلم تصميم الجرافيك؟"
	memberOpener      = "مرحباً! أنا متحمس للبدء. ما هي أول خطوة؟"
	scriptedReplyText = "سؤال رائع! لنبدأ بأساسيات الألوان والخطوط. سأرسل لك بعض المواد."
)

// Thread is a single expert conversation, scoped to one session. The
// transcript lives only as long as the thread; nothing is persisted.
type Thread struct {
	// SessionID identifies the owning session.
	SessionID string

	// replyDelay is how long the simulated expert waits before replying.
	replyDelay time.Duration

	// cleanupChan notifies the Hub that this thread is done.
	cleanupChan chan<- string

	// mu protects messages, subscribers, stopped, and the idle timer.
	mu sync.Mutex

	// messages is the append-only transcript, oldest first.
	messages []Message

	// subscribers holds the live fan-out channels, keyed by the channel itself.
	subscribers map[chan Message]struct{}

	// stopped marks the thread as shut down; late timer callbacks check it
	// before touching state.
	stopped bool

	// idleTimer fires the inactivity shutdown.
	idleTimer *time.Timer

	// structured logger with thread context.
	logger zerolog.Logger
}

// newThread creates a thread seeded with the scripted opening exchange and
// arms its inactivity timer.
func newThread(sessionID string, replyDelay time.Duration, cleanupChan chan<- string) *Thread {
	t := &Thread{
		SessionID:   sessionID,
		replyDelay:  replyDelay,
		cleanupChan: cleanupChan,
		subscribers: make(map[chan Message]struct{}),
		logger: logx.Logger().With().
			Str("component", "thread").
			Str("session_id", sessionID).
			Logger(),
	}

	opener := NewExpertMessage(expertGreeting)
	reply := Message{
		ID:        opener.ID + "-opener",
		Text:      memberOpener,
		Sender:    SenderUser,
		Timestamp: opener.Timestamp,
	}
	t.messages = []Message{opener, reply}

	t.idleTimer = time.AfterFunc(ThreadIdleTimeout, t.expire)

	return t
}

// Messages returns a copy of the transcript in order.
func (t *Thread) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]Message(nil), t.messages...)
}

// Stopped reports whether the thread has shut down.
func (t *Thread) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.stopped
}

// Post appends a message to the transcript and fans it out to subscribers.
// A user message additionally schedules the scripted expert reply. Posting to
// a stopped thread returns false and changes nothing.
func (t *Thread) Post(msg Message) bool {
	t.mu.Lock()

	if t.stopped {
		t.mu.Unlock()
		return false
	}

	t.messages = append(t.messages, msg)
	t.touchLocked()
	t.fanOutLocked(msg)
	scheduleReply := msg.Sender == SenderUser

	t.mu.Unlock()

	if scheduleReply {
		time.AfterFunc(t.replyDelay, t.deliverScriptedReply)
	}

	return true
}

// deliverScriptedReply appends the simulated expert reply. The thread may
// have been stopped while the reply was pending (logout, inactivity); in that
// case the reply is discarded so no stale state is applied.
func (t *Thread) deliverScriptedReply() {
	reply := NewExpertMessage(scriptedReplyText)

	t.mu.Lock()

	if t.stopped {
		t.mu.Unlock()
		t.logger.Info().Msg("Thread stopped before scripted reply fired. Reply discarded.")
		return
	}

	t.messages = append(t.messages, reply)
	t.touchLocked()
	t.fanOutLocked(reply)

	t.mu.Unlock()
}

// Subscribe registers a fan-out channel for live message delivery. A stopped
// thread returns a closed channel so subscribers terminate immediately.
func (t *Thread) Subscribe() chan Message {
	ch := make(chan Message, subscriberBuffer)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		close(ch)
		return ch
	}

	t.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes a fan-out channel.
func (t *Thread) Unsubscribe(ch chan Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.subscribers[ch]; ok {
		delete(t.subscribers, ch)
		close(ch)
	}
}

// Stop shuts the thread down: pending scripted replies are discarded, all
// subscriber channels are closed, and the Hub is asked to forget the thread.
// Safe to call more than once.
func (t *Thread) Stop() {
	t.mu.Lock()

	if t.stopped {
		t.mu.Unlock()
		return
	}

	t.stopped = true
	t.idleTimer.Stop()

	for ch := range t.subscribers {
		delete(t.subscribers, ch)
		close(ch)
	}

	t.mu.Unlock()

	t.logger.Info().Msg("Thread stopped.")

	select {
	case t.cleanupChan <- t.SessionID:
	default:
		t.logger.Warn().Msg("Hub cleanup channel blocked. Skipping cleanup notification.")
	}
}

// expire is the idle-timer callback.
func (t *Thread) expire() {
	t.logger.Info().Msg("Thread idle timeout reached. Shutting down.")
	t.Stop()
}

// touchLocked re-arms the inactivity timer. Caller must hold mu.
func (t *Thread) touchLocked() {
	if t.idleTimer != nil {
		t.idleTimer.Stop()
		t.idleTimer.Reset(ThreadIdleTimeout)
	}
}

// fanOutLocked delivers a message to each subscriber without blocking; a full
// subscriber simply misses the message. Caller must hold mu, which also
// serializes fan-out against channel closes in Stop and Unsubscribe.
func (t *Thread) fanOutLocked(msg Message) {
	for ch := range t.subscribers {
		select {
		case ch <- msg:
		default:
			t.logger.Warn().Msg("Subscriber channel full. Message dropped for that subscriber.")
		}
	}
}
