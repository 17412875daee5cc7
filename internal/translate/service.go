package translate

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"
)

const (
	translateMaxTokens  = 2048
	definitionMaxTokens = 512
	speechMaxTokens     = 4096

	defaultCacheTTL = time.Hour
)

// Service exposes the three logical operations the front door serves. It is
// a thin layer: instruction building and output parsing here, all transport
// and streaming concerns in the Provider.
type Service struct {
	provider Provider
	cache    Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

func NewService(provider Provider, cache Cache, cacheTTL time.Duration, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &Service{
		provider: provider,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func cacheKey(targetLanguage, text string) string {
	h := sha256.New()
	h.Write([]byte(targetLanguage))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return "translate:v1:" + hex.EncodeToString(h.Sum(nil))
}

// stripCodeFence removes a surrounding markdown code fence, which the model
// sometimes wraps around JSON despite instructions not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
