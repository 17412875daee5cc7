package realtime

import (
	"time"

	"github.com/lexiglot/translate-backend/internal/audio"
)

const DefaultURL = "wss://api.openai.com/v1/realtime"

type Config struct {
	URL    string
	APIKey string
	Model  string

	Voice             string
	OutputAudioFormat string

	// RequestTimeout bounds every in-flight request. The provider has no
	// mid-stream cancellation, so expiry force-closes the socket.
	RequestTimeout time.Duration

	// MaxTokens is the output budget applied when a caller passes none.
	MaxTokens int

	Normalize audio.NormalizeConfig
}

func (c Config) withDefaults() Config {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.Voice == "" {
		c.Voice = "alloy"
	}
	if c.OutputAudioFormat == "" {
		c.OutputAudioFormat = "pcm16"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 5 * time.Second
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 4096
	}
	return c
}
