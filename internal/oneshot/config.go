package oneshot

import (
	"time"

	"github.com/lexiglot/translate-backend/internal/audio"
)

const (
	// DefaultURL is the chat-completions endpoint used when no override is
	// configured.
	DefaultURL = "https://api.openai.com/v1/chat/completions"

	defaultTimeout = 30 * time.Second
	defaultVoice   = "alloy"
)

type Config struct {
	URL     string
	APIKey  string
	Model   string
	Voice   string
	Timeout time.Duration

	// Normalize controls loudness normalization of synthesized audio.
	Normalize audio.NormalizeConfig
}

func (c Config) withDefaults() Config {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.Voice == "" {
		c.Voice = defaultVoice
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}
