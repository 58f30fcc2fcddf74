package assistant

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SADD1990/kkhebrah/internal/app/ai"
	"github.com/SADD1990/kkhebrah/internal/pkg/randx"
)

// countingGenerator replies with the number of turns it was handed, which
// makes history growth observable from outside the conversation.
type countingGenerator struct {
	fail bool
}

func (g *countingGenerator) Generate(ctx context.Context, req ai.Request) (string, error) {
	if g.fail {
		return "", errors.New("model unreachable")
	}
	return fmt.Sprintf("رد %d", len(req.Turns)), nil
}

func newTestRegistry(gen ai.Generator) *Registry {
	return NewRegistry(ai.NewGateway(gen))
}

func TestConverseIssuesCodeForNewConversation(t *testing.T) {
	registry := newTestRegistry(&countingGenerator{})
	defer registry.Shutdown()

	code, reply := registry.Converse(context.Background(), "", "مرحبا")

	assert.True(t, randx.IsValidConversationCode(code))
	assert.Equal(t, "رد 1", reply)
	assert.Equal(t, 1, registry.Len())
}

func TestConverseKeepsContinuityForKnownCode(t *testing.T) {
	registry := newTestRegistry(&countingGenerator{})
	defer registry.Shutdown()

	code, _ := registry.Converse(context.Background(), "", "السؤال الأول")
	sameCode, reply := registry.Converse(context.Background(), code, "السؤال الثاني")

	assert.Equal(t, code, sameCode)

	// Turn two carries the first exchange plus the new message.
	assert.Equal(t, "رد 3", reply)
	assert.Equal(t, 1, registry.Len())
}

func TestConverseStartsFreshForUnknownCode(t *testing.T) {
	registry := newTestRegistry(&countingGenerator{})
	defer registry.Shutdown()

	// Valid shape but never issued.
	code, reply := registry.Converse(context.Background(), "AAAAAAAA", "مرحبا")

	assert.NotEqual(t, "AAAAAAAA", code)
	assert.True(t, randx.IsValidConversationCode(code))
	assert.Equal(t, "رد 1", reply)
}

func TestConverseStartsFreshForMalformedCode(t *testing.T) {
	registry := newTestRegistry(&countingGenerator{})
	defer registry.Shutdown()

	code, _ := registry.Converse(context.Background(), "صيغة غير صالحة", "مرحبا")

	assert.True(t, randx.IsValidConversationCode(code))
	assert.Equal(t, 1, registry.Len())
}

func TestConverseSurvivesModelFailure(t *testing.T) {
	registry := newTestRegistry(&countingGenerator{fail: true})
	defer registry.Shutdown()

	code, reply := registry.Converse(context.Background(), "", "مرحبا")

	// The gateway turns the failure into an apology; the conversation and its
	// code stay usable.
	assert.True(t, randx.IsValidConversationCode(code))
	assert.NotEmpty(t, reply)
	assert.Equal(t, 1, registry.Len())
}

func TestSeparateConversationsDoNotShareHistory(t *testing.T) {
	registry := newTestRegistry(&countingGenerator{})
	defer registry.Shutdown()

	codeA, _ := registry.Converse(context.Background(), "", "محادثة أولى")
	codeB, replyB := registry.Converse(context.Background(), "", "محادثة ثانية")

	assert.NotEqual(t, codeA, codeB)
	assert.Equal(t, "رد 1", replyB)
	assert.Equal(t, 2, registry.Len())
}

func TestReapIdleDropsStaleConversations(t *testing.T) {
	registry := newTestRegistry(&countingGenerator{})
	defer registry.Shutdown()

	code, _ := registry.Converse(context.Background(), "", "مرحبا")
	require.Equal(t, 1, registry.Len())

	// Age the entry past the idle timeout by hand, then run one reap pass.
	registry.mu.Lock()
	registry.entries[code].lastActive = registry.entries[code].lastActive.Add(-2 * ConversationIdleTimeout)
	registry.mu.Unlock()

	registry.reapIdle()

	assert.Equal(t, 0, registry.Len())

	// The widget transparently gets a new conversation for the reaped code.
	newCode, reply := registry.Converse(context.Background(), code, "ما زلت هنا")
	assert.NotEqual(t, code, newCode)
	assert.Equal(t, "رد 1", reply)
}
