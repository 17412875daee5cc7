package translate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lexiglot/translate-backend/internal/shared"
)

func translateInstructions(targetLanguage string) string {
	return fmt.Sprintf(`You are a translation engine. Translate the user's text into %s.
Respond with only JSON: an array of objects, one per token of the translation, each with
"word" (the translated token), "literal" (its romanized transliteration) and
"punctuation" (true when the token is punctuation). Attach punctuation to the
neighboring word's entry so that joining all "word" values with spaces reads naturally.
No prose outside the JSON.`, targetLanguage)
}

// Translate produces the tokenized translation of text into targetLanguage,
// with per-token transliteration.
func (s *Service) Translate(ctx context.Context, text, targetLanguage string) ([]WordPair, error) {
	key := cacheKey(targetLanguage, text)
	if s.cache != nil {
		if data, ok := s.cache.Get(ctx, key); ok {
			var words []WordPair
			if err := json.Unmarshal(data, &words); err == nil && len(words) > 0 {
				return words, nil
			}
		}
	}

	out, err := s.provider.CreateText(ctx, translateInstructions(targetLanguage), text, translateMaxTokens)
	if err != nil {
		return nil, err
	}

	words, err := parseWordPairs(out)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(words); err == nil {
			s.cache.Set(ctx, key, data, s.cacheTTL)
		}
	}
	return words, nil
}

func parseWordPairs(raw string) ([]WordPair, error) {
	payload := []byte(stripCodeFence(raw))

	var pairs []WordPair
	if err := json.Unmarshal(payload, &pairs); err != nil {
		// Some responses arrive wrapped in a {"pairs": [...]} object.
		var wrapper struct {
			Pairs []WordPair `json:"pairs"`
		}
		if err2 := json.Unmarshal(payload, &wrapper); err2 != nil {
			return nil, fmt.Errorf("%w: invalid translation JSON: %v", shared.ErrMalformedResponse, err)
		}
		pairs = wrapper.Pairs
	}

	words := make([]WordPair, 0, len(pairs))
	for _, p := range pairs {
		if p.Literal == "" && !p.Punctuation {
			continue
		}
		words = append(words, p)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: translation contained no usable tokens", shared.ErrMalformedResponse)
	}
	return words, nil
}
