package ai

import "context"

// LLMProvider defines the contract for interacting with generative models.
// This interface allows for swapping different providers (Gemini, OpenAI, etc.).
type LLMProvider interface {
	// Generate sends a self-contained prompt and returns the raw model text.
	Generate(ctx context.Context, prompt string) (string, error)
}
