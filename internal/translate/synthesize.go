package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

func speechInstructions(targetLanguage string) string {
	return fmt.Sprintf("Speak the user's %s text aloud, exactly as written, at a natural pace. Do not translate it or add anything.", targetLanguage)
}

// GetAudio synthesizes spoken audio for text and returns a complete WAV clip.
// Empty input fails before any upstream request is made.
func (s *Service) GetAudio(ctx context.Context, text, targetLanguage string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("no text to synthesize")
	}
	if strings.TrimSpace(targetLanguage) == "" {
		return nil, errors.New("no target language for synthesis")
	}
	return s.provider.CreateSpeech(ctx, speechInstructions(targetLanguage), text, speechMaxTokens)
}
