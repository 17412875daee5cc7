// Package oneshot provides a single-shot HTTP alternative to the realtime
// websocket provider. Each call is an independent chat-completions request;
// there is no connection or queue to share, so it trades latency for
// simplicity.
package oneshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lexiglot/translate-backend/internal/audio"
	"github.com/lexiglot/translate-backend/internal/shared"
)

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	cfg = cfg.withDefaults()
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With(slog.String("component", "oneshot")),
	}
}

type chatRequest struct {
	Model      string       `json:"model"`
	Messages   []message    `json:"messages"`
	Modalities []string     `json:"modalities,omitempty"`
	Audio      *audioParams `json:"audio,omitempty"`
	MaxTokens  int          `json:"max_tokens,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type audioParams struct {
	Voice  string `json:"voice"`
	Format string `json:"format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Audio   *struct {
				Data string `json:"data"`
			} `json:"audio"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateText runs a single chat completion and returns the assistant text.
func (c *Client) CreateText(ctx context.Context, instructions, prompt string, maxTokens int) (string, error) {
	resp, err := c.complete(ctx, chatRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: instructions},
			{Role: "user", Content: prompt},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", shared.ErrEmptyOutput
	}
	return text, nil
}

// CreateSpeech runs a single audio-modality completion and returns a normalized
// WAV clip.
func (c *Client) CreateSpeech(ctx context.Context, instructions, text string, maxTokens int) ([]byte, error) {
	resp, err := c.complete(ctx, chatRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: instructions},
			{Role: "user", Content: text},
		},
		Modalities: []string{"text", "audio"},
		Audio:      &audioParams{Voice: c.cfg.Voice, Format: "pcm16"},
		MaxTokens:  maxTokens,
	})
	if err != nil {
		return nil, err
	}

	msg := resp.Choices[0].Message
	if msg.Audio == nil || msg.Audio.Data == "" {
		return nil, fmt.Errorf("%w: response carried no audio", shared.ErrEmptyOutput)
	}
	clip, err := audio.EncodeClip([]string{msg.Audio.Data}, c.cfg.Normalize)
	if err != nil {
		return nil, err
	}
	return clip, nil
}

func (c *Client) complete(ctx context.Context, req chatRequest) (*chatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrConnect, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: invalid completion JSON: %v", shared.ErrMalformedResponse, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		detail := httpResp.Status
		if resp.Error != nil && resp.Error.Message != "" {
			detail = resp.Error.Message
		}
		c.log.Warn("completion request failed",
			slog.Int("status", httpResp.StatusCode),
			slog.String("detail", detail))
		return nil, fmt.Errorf("%w: %s", shared.ErrUpstream, detail)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: response carried no choices", shared.ErrMalformedResponse)
	}
	return &resp, nil
}
