package translate

import (
	"context"
	"time"
)

// Provider is a generative-language backend able to produce text and speech.
// Both the realtime multiplexer and the single-shot HTTP client satisfy it;
// callers may select between them interchangeably.
type Provider interface {
	CreateText(ctx context.Context, instructions, prompt string, maxTokens int) (string, error)
	CreateSpeech(ctx context.Context, instructions, text string, maxTokens int) ([]byte, error)
}

// Cache stores finished translation results. Implementations must be
// failure-soft: a broken cache degrades to a miss, never to a failed request.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}
