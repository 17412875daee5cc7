package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lexiglot/translate-backend/internal/shared"
)

func definitionInstructions(targetLanguage string) string {
	return fmt.Sprintf(`You are a dictionary for %s learners. Given a word and the passage it
appeared in, explain what the word means in that context, in one or two short English
sentences. Respond with only JSON: {"definition": "..."}. No prose outside the JSON.`, targetLanguage)
}

// GetDefinition explains what word means in the context of passage. The
// result is a single-element slice keyed to the requested word.
func (s *Service) GetDefinition(ctx context.Context, word, targetLanguage, passage string) ([]Definition, error) {
	prompt := fmt.Sprintf("Word: %s\nPassage: %s", word, passage)
	out, err := s.provider.CreateText(ctx, definitionInstructions(targetLanguage), prompt, definitionMaxTokens)
	if err != nil {
		return nil, err
	}

	def, err := parseDefinition(out, word)
	if err != nil {
		return nil, err
	}
	return []Definition{{Word: word, Definition: def}}, nil
}

func parseDefinition(raw, word string) (string, error) {
	payload := []byte(stripCodeFence(raw))

	var resp struct {
		Definition  string       `json:"definition"`
		Definitions []Definition `json:"definitions"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return "", fmt.Errorf("%w: invalid definition JSON: %v", shared.ErrMalformedResponse, err)
	}
	if resp.Definition != "" {
		return resp.Definition, nil
	}
	for _, d := range resp.Definitions {
		if strings.EqualFold(d.Word, word) && d.Definition != "" {
			return d.Definition, nil
		}
	}
	return "", fmt.Errorf("%w: no definition for %q", shared.ErrMalformedResponse, word)
}
