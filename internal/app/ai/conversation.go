/*
Package ai contains the gateway to the hosted generative model.

This file defines the Conversation handle used by the platform assistant
("KIB"). A Conversation is an explicit, append-only transcript owned by its
creator, with no ambient module state, and is disposed by simply dropping the
handle.
*/
package ai

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/SADD1990/kkhebrah/internal/pkg/logx"
)

const (
	// assistantInstruction pins the assistant to platform support topics.
	assistantInstruction = `أنت "KIB"، مساعد ذكاء اصطناعي ودود ومتعاون في منصة "خِبرة" السعودية. مهمتك هي الإجابة على أسئلة المستخدمين حول كيفية استخدام المنصة، وشرح ميزاتها، وتقديم المساعدة باللغة العربية بأسلوب واضح ومختصر. لا تقدم نصائح خارج نطاق المنصة.`

	// chatFailureApology is returned to the caller when a turn cannot reach
	// the model. The failed user turn remains in the transcript, so a failed
	// turn still consumes a slot in context continuity.
	chatFailureApology = "عذراً، حدث خطأ أثناء التواصل مع المساعد. يرجى التأكد من أن مفتاح API صحيح ومعد بشكل جيد."
)

// Conversation is a multi-turn exchange with the assistant. The transcript is
// ordered and append-only; every Send resubmits the full history so the model
// keeps context.
type Conversation struct {
	mu     sync.Mutex
	gen    Generator
	system string
	turns  []Turn
	logger zerolog.Logger
}

// NewConversation creates a fresh assistant conversation with an empty
// transcript.
func (g *Gateway) NewConversation() *Conversation {
	return &Conversation{
		gen:    g.gen,
		system: assistantInstruction,
		logger: logx.Logger().With().Str("component", "ai_conversation").Logger(),
	}
}

// Send appends the user's message as the next turn and returns the model's
// reply. On failure it returns a static apology; the user turn is NOT rolled
// back, matching the platform's accepted inconsistency.
func (c *Conversation) Send(ctx context.Context, message string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.turns = append(c.turns, Turn{Role: RoleUser, Text: message})

	req := Request{
		System: c.system,
		Turns:  append([]Turn(nil), c.turns...),
	}

	reply, err := c.gen.Generate(ctx, req)
	if err != nil {
		c.logger.Error().Err(err).Int("turns", len(c.turns)).Msg("Assistant turn failed. Returning apology.")
		return chatFailureApology
	}

	c.turns = append(c.turns, Turn{Role: RoleModel, Text: reply})

	return reply
}

// History returns a copy of the transcript in submission order.
func (c *Conversation) History() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]Turn(nil), c.turns...)
}

// Len reports the number of turns currently in the transcript.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.turns)
}
