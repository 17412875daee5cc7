package translate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lexiglot/translate-backend/internal/shared"
)

type fakeProvider struct {
	textOut   string
	textErr   error
	audioOut  []byte
	audioErr  error
	textCalls []struct {
		instructions string
		prompt       string
		maxTokens    int
	}
	audioCalls int
}

func (f *fakeProvider) CreateText(_ context.Context, instructions, prompt string, maxTokens int) (string, error) {
	f.textCalls = append(f.textCalls, struct {
		instructions string
		prompt       string
		maxTokens    int
	}{instructions, prompt, maxTokens})
	return f.textOut, f.textErr
}

func (f *fakeProvider) CreateSpeech(_ context.Context, _, _ string, _ int) ([]byte, error) {
	f.audioCalls++
	return f.audioOut, f.audioErr
}

type fakeCache struct {
	data map[string][]byte
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	c.data[key] = value
	c.sets++
}

func TestTranslateParsesWordPairs(t *testing.T) {
	provider := &fakeProvider{
		textOut: `[{"word":"こんにちは","literal":"konnichiwa"},{"word":"。","literal":"","punctuation":true}]`,
	}
	svc := NewService(provider, nil, 0, nil)

	words, err := svc.Translate(context.Background(), "hello.", "Japanese")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 word pairs, got %d: %+v", len(words), words)
	}
	if words[0].Word != "こんにちは" || words[0].Literal != "konnichiwa" {
		t.Errorf("unexpected first pair: %+v", words[0])
	}
	if !words[1].Punctuation {
		t.Errorf("expected second pair to be punctuation: %+v", words[1])
	}
	if len(provider.textCalls) != 1 {
		t.Fatalf("expected 1 provider call, got %d", len(provider.textCalls))
	}
	call := provider.textCalls[0]
	if call.prompt != "hello." {
		t.Errorf("prompt = %q, want %q", call.prompt, "hello.")
	}
	if !strings.Contains(call.instructions, "Japanese") {
		t.Errorf("instructions missing target language: %q", call.instructions)
	}
	if call.maxTokens != translateMaxTokens {
		t.Errorf("maxTokens = %d, want %d", call.maxTokens, translateMaxTokens)
	}
}

func TestTranslateStripsCodeFence(t *testing.T) {
	provider := &fakeProvider{
		textOut: "```json\n[{\"word\":\"hola\",\"literal\":\"hola\"}]\n```",
	}
	svc := NewService(provider, nil, 0, nil)

	words, err := svc.Translate(context.Background(), "hi", "Spanish")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(words) != 1 || words[0].Word != "hola" {
		t.Fatalf("unexpected words: %+v", words)
	}
}

func TestTranslateAcceptsWrappedPairs(t *testing.T) {
	provider := &fakeProvider{
		textOut: `{"pairs":[{"word":"bonjour","literal":"bonjour"}]}`,
	}
	svc := NewService(provider, nil, 0, nil)

	words, err := svc.Translate(context.Background(), "hello", "French")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(words) != 1 || words[0].Word != "bonjour" {
		t.Fatalf("unexpected words: %+v", words)
	}
}

func TestTranslateDropsEmptyTokens(t *testing.T) {
	provider := &fakeProvider{
		textOut: `[{"word":"","literal":""},{"word":"水","literal":"mizu"}]`,
	}
	svc := NewService(provider, nil, 0, nil)

	words, err := svc.Translate(context.Background(), "water", "Japanese")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(words) != 1 || words[0].Word != "水" {
		t.Fatalf("unexpected words: %+v", words)
	}
}

func TestTranslateMalformedOutput(t *testing.T) {
	cases := map[string]string{
		"not JSON":         "sure, here is the translation",
		"no usable tokens": `[{"word":"","literal":""}]`,
		"empty array":      `[]`,
	}
	for name, out := range cases {
		t.Run(name, func(t *testing.T) {
			svc := NewService(&fakeProvider{textOut: out}, nil, 0, nil)
			_, err := svc.Translate(context.Background(), "hi", "German")
			if !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestTranslatePropagatesProviderError(t *testing.T) {
	svc := NewService(&fakeProvider{textErr: shared.ErrTimeout}, nil, 0, nil)
	_, err := svc.Translate(context.Background(), "hi", "German")
	if !errors.Is(err, shared.ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestTranslateCacheRoundTrip(t *testing.T) {
	provider := &fakeProvider{
		textOut: `[{"word":"hallo","literal":"hallo"}]`,
	}
	cache := newFakeCache()
	svc := NewService(provider, cache, time.Minute, nil)

	first, err := svc.Translate(context.Background(), "hello", "German")
	if err != nil {
		t.Fatalf("first Translate failed: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected 1 cache set, got %d", cache.sets)
	}

	// Second call with the same inputs must be served from the cache.
	second, err := svc.Translate(context.Background(), "hello", "German")
	if err != nil {
		t.Fatalf("second Translate failed: %v", err)
	}
	if len(provider.textCalls) != 1 {
		t.Errorf("expected cached hit to skip the provider, got %d calls", len(provider.textCalls))
	}
	if len(second) != len(first) || second[0].Word != first[0].Word {
		t.Errorf("cached result differs: %+v vs %+v", second, first)
	}

	// A different language must not collide with the cached entry.
	if _, err := svc.Translate(context.Background(), "hello", "Dutch"); err != nil {
		t.Fatalf("Dutch Translate failed: %v", err)
	}
	if len(provider.textCalls) != 2 {
		t.Errorf("expected distinct cache keys per language, got %d provider calls", len(provider.textCalls))
	}
}

func TestTranslateIgnoresCorruptCacheEntry(t *testing.T) {
	provider := &fakeProvider{
		textOut: `[{"word":"ciao","literal":"ciao"}]`,
	}
	cache := newFakeCache()
	cache.data[cacheKey("Italian", "hello")] = []byte("not json")
	svc := NewService(provider, cache, time.Minute, nil)

	words, err := svc.Translate(context.Background(), "hello", "Italian")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(words) != 1 || words[0].Word != "ciao" {
		t.Fatalf("unexpected words: %+v", words)
	}
	if len(provider.textCalls) != 1 {
		t.Errorf("corrupt cache entry should fall through to the provider")
	}
}

func TestGetDefinition(t *testing.T) {
	provider := &fakeProvider{
		textOut: `{"definition":"A polite greeting used when meeting someone."}`,
	}
	svc := NewService(provider, nil, 0, nil)

	defs, err := svc.GetDefinition(context.Background(), "bonjour", "French", "Bonjour, comment allez-vous ?")
	if err != nil {
		t.Fatalf("GetDefinition failed: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(defs))
	}
	if defs[0].Word != "bonjour" {
		t.Errorf("definition keyed to %q, want %q", defs[0].Word, "bonjour")
	}
	if !strings.Contains(defs[0].Definition, "greeting") {
		t.Errorf("unexpected definition: %q", defs[0].Definition)
	}
	if !strings.Contains(provider.textCalls[0].prompt, "Passage:") {
		t.Errorf("prompt missing passage: %q", provider.textCalls[0].prompt)
	}
}

func TestGetDefinitionByWordLookup(t *testing.T) {
	provider := &fakeProvider{
		textOut: `{"definitions":[{"word":"Chat","definition":"A cat."},{"word":"chien","definition":"A dog."}]}`,
	}
	svc := NewService(provider, nil, 0, nil)

	defs, err := svc.GetDefinition(context.Background(), "chat", "French", "Le chat dort.")
	if err != nil {
		t.Fatalf("GetDefinition failed: %v", err)
	}
	if defs[0].Definition != "A cat." {
		t.Errorf("definition = %q, want %q", defs[0].Definition, "A cat.")
	}
}

func TestGetDefinitionMissing(t *testing.T) {
	provider := &fakeProvider{
		textOut: `{"definitions":[{"word":"chien","definition":"A dog."}]}`,
	}
	svc := NewService(provider, nil, 0, nil)

	_, err := svc.GetDefinition(context.Background(), "chat", "French", "Le chat dort.")
	if !errors.Is(err, shared.ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestGetAudio(t *testing.T) {
	provider := &fakeProvider{audioOut: []byte("RIFF....WAVE")}
	svc := NewService(provider, nil, 0, nil)

	clip, err := svc.GetAudio(context.Background(), "Hallo Welt", "German")
	if err != nil {
		t.Fatalf("GetAudio failed: %v", err)
	}
	if string(clip) != "RIFF....WAVE" {
		t.Errorf("unexpected clip: %q", clip)
	}
}

func TestGetAudioRejectsEmptyInput(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(provider, nil, 0, nil)

	if _, err := svc.GetAudio(context.Background(), "   ", "German"); err == nil {
		t.Error("expected error for blank text")
	}
	if _, err := svc.GetAudio(context.Background(), "Hallo", ""); err == nil {
		t.Error("expected error for blank target language")
	}
	if provider.audioCalls != 0 {
		t.Errorf("expected no provider calls, got %d", provider.audioCalls)
	}
}
