package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SADD1990/kkhebrah/internal/app/ai"
)

func testThread(replyDelay time.Duration) (*Thread, chan string) {
	cleanup := make(chan string, 1)
	return newThread("sess-1", replyDelay, cleanup), cleanup
}

func TestThreadSeededWithOpeningExchange(t *testing.T) {
	thread, _ := testThread(time.Hour)
	defer thread.Stop()

	messages := thread.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, SenderExpert, messages[0].Sender)
	assert.Equal(t, expertGreeting, messages[0].Text)
	assert.Equal(t, SenderUser, messages[1].Sender)
	assert.Equal(t, memberOpener, messages[1].Text)
}

func TestUserMessageTriggersScriptedReply(t *testing.T) {
	thread, _ := testThread(10 * time.Millisecond)
	defer thread.Stop()

	posted := thread.Post(NewUserMessage("متى نبدأ؟", ai.VerdictSafe))
	require.True(t, posted)

	require.Eventually(t, func() bool {
		return len(thread.Messages()) == 4
	}, time.Second, 5*time.Millisecond)

	messages := thread.Messages()
	assert.Equal(t, "متى نبدأ؟", messages[2].Text)
	assert.Equal(t, SenderExpert, messages[3].Sender)
	assert.Equal(t, scriptedReplyText, messages[3].Text)
}

func TestExpertMessageDoesNotTriggerReply(t *testing.T) {
	thread, _ := testThread(10 * time.Millisecond)
	defer thread.Stop()

	require.True(t, thread.Post(NewExpertMessage("رسالة من الخبير")))

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, thread.Messages(), 3)
}

func TestStopDiscardsPendingReply(t *testing.T) {
	thread, cleanup := testThread(20 * time.Millisecond)

	require.True(t, thread.Post(NewUserMessage("رسالة أخيرة", ai.VerdictSafe)))
	thread.Stop()

	// Wait past the reply delay; the pending reply must have been discarded.
	time.Sleep(60 * time.Millisecond)
	assert.Len(t, thread.Messages(), 3)
	assert.True(t, thread.Stopped())

	select {
	case id := <-cleanup:
		assert.Equal(t, "sess-1", id)
	default:
		t.Fatal("expected cleanup notification after Stop")
	}
}

func TestPostAfterStopReturnsFalse(t *testing.T) {
	thread, _ := testThread(time.Hour)
	thread.Stop()

	assert.False(t, thread.Post(NewUserMessage("بعد الإغلاق", ai.VerdictSafe)))
	assert.Len(t, thread.Messages(), 2)
}

func TestStopIsIdempotent(t *testing.T) {
	thread, _ := testThread(time.Hour)

	thread.Stop()
	thread.Stop()

	assert.True(t, thread.Stopped())
}

func TestSubscriberReceivesPostedMessages(t *testing.T) {
	thread, _ := testThread(time.Hour)
	defer thread.Stop()

	feed := thread.Subscribe()

	msg := NewUserMessage("مرحبا", ai.VerdictSafe)
	require.True(t, thread.Post(msg))

	select {
	case got := <-feed:
		assert.Equal(t, msg.ID, got.ID)
		assert.Equal(t, "مرحبا", got.Text)
	case <-time.After(time.Second):
		t.Fatal("expected fan-out delivery to subscriber")
	}

	thread.Unsubscribe(feed)

	// The channel is closed on unsubscribe.
	_, open := <-feed
	assert.False(t, open)
}

func TestSubscribeOnStoppedThreadReturnsClosedChannel(t *testing.T) {
	thread, _ := testThread(time.Hour)
	thread.Stop()

	feed := thread.Subscribe()

	_, open := <-feed
	assert.False(t, open)
}

func TestStopClosesSubscriberChannels(t *testing.T) {
	thread, _ := testThread(time.Hour)

	feed := thread.Subscribe()
	thread.Stop()

	_, open := <-feed
	assert.False(t, open)
}

func TestHubReusesLiveThread(t *testing.T) {
	hub := NewHub(time.Hour)
	defer hub.Shutdown()

	first := hub.Thread("sess-a")
	second := hub.Thread("sess-a")
	other := hub.Thread("sess-b")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}

func TestHubReplacesStoppedThread(t *testing.T) {
	hub := NewHub(time.Hour)
	defer hub.Shutdown()

	first := hub.Thread("sess-a")
	first.Stop()

	second := hub.Thread("sess-a")

	assert.NotSame(t, first, second)
	assert.False(t, second.Stopped())
}

func TestHubCloseStopsThread(t *testing.T) {
	hub := NewHub(time.Hour)
	defer hub.Shutdown()

	thread := hub.Thread("sess-a")
	hub.Close("sess-a")

	assert.True(t, thread.Stopped())

	// Closing an unknown session is harmless.
	hub.Close("sess-unknown")
}

func TestHubShutdownStopsAllThreads(t *testing.T) {
	hub := NewHub(time.Hour)

	a := hub.Thread("sess-a")
	b := hub.Thread("sess-b")

	hub.Shutdown()

	assert.True(t, a.Stopped())
	assert.True(t, b.Stopped())
}
