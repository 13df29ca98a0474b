package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// OfflineMessage is returned when no provider is configured (missing API key).
const OfflineMessage = "I'm sorry, my language core is offline (API key missing)."

// replyTimeout bounds a single generation attempt so a stalled external call
// cannot stall the whole session.
const replyTimeout = 15 * time.Second

// Gateway is the local-recovery boundary around the language model: every
// failure becomes a user-safe text reply, never an error in the caller's
// control flow. One attempt per user turn, no retries.
type Gateway struct {
	provider LLMProvider
	log      *zap.Logger
}

// NewGateway wraps a provider. provider may be nil; the gateway then answers
// every request with OfflineMessage without attempting network I/O.
func NewGateway(provider LLMProvider, log *zap.Logger) *Gateway {
	return &Gateway{provider: provider, log: log}
}

// Reply sends contextPrompt plus the user's message and returns the raw model
// text, or a degraded-but-valid fallback message.
func (g *Gateway) Reply(ctx context.Context, contextPrompt, userText string) string {
	if g.provider == nil {
		return OfflineMessage
	}

	ctx, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()

	prompt := fmt.Sprintf("%s\n\nUser Message: %s", contextPrompt, userText)
	text, err := g.provider.Generate(ctx, prompt)
	if err != nil {
		g.log.Warn("generation failed", zap.Error(err))
		return fmt.Sprintf("I apologize, I'm having trouble connecting right now. (%v)", err)
	}
	return text
}
