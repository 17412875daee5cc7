package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lexiglot/translate-backend/internal/audio"
	"github.com/lexiglot/translate-backend/internal/shared"
)

// Client multiplexes logical requests over one persistent connection to the
// realtime provider. The protocol has no per-request identifiers, so at most
// one request is in flight at a time; everything else waits in a FIFO queue.
type Client struct {
	cfg Config
	log *slog.Logger

	mu         sync.Mutex
	conn       *websocket.Conn
	connecting chan struct{}
	connectErr error
	queue      []*queuedRequest
	active     *activeRequest

	writeMu sync.Mutex
}

type result struct {
	text  string
	audio []byte
	err   error
}

type queuedRequest struct {
	instructions string
	prompt       string
	modalities   []string
	maxTokens    int
	wantAudio    bool
	done         chan result
}

type activeRequest struct {
	req       *queuedRequest
	timer     *time.Timer
	startedAt time.Time
	text      strings.Builder
	fragments []string
}

func NewClient(cfg Config, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		cfg: cfg.withDefaults(),
		log: log,
	}
}

// CreateText runs a text-only request and returns the accumulated output.
func (c *Client) CreateText(ctx context.Context, instructions, prompt string, maxTokens int) (string, error) {
	req := &queuedRequest{
		instructions: instructions,
		prompt:       prompt,
		modalities:   []string{"text"},
		maxTokens:    c.tokenBudget(maxTokens),
		done:         make(chan result, 1),
	}
	res, err := c.await(ctx, req)
	return res.text, err
}

// CreateSpeech runs an audio-producing request and returns a WAV clip.
func (c *Client) CreateSpeech(ctx context.Context, instructions, text string, maxTokens int) ([]byte, error) {
	req := &queuedRequest{
		instructions: instructions,
		prompt:       text,
		modalities:   []string{"audio", "text"},
		maxTokens:    c.tokenBudget(maxTokens),
		wantAudio:    true,
		done:         make(chan result, 1),
	}
	res, err := c.await(ctx, req)
	return res.audio, err
}

func (c *Client) tokenBudget(maxTokens int) int {
	if maxTokens > 0 {
		return maxTokens
	}
	return c.cfg.MaxTokens
}

func (c *Client) await(ctx context.Context, req *queuedRequest) (result, error) {
	c.mu.Lock()
	c.queue = append(c.queue, req)
	c.mu.Unlock()

	c.processNext()

	select {
	case res := <-req.done:
		return res, res.err
	case <-ctx.Done():
		c.dropQueued(req)
		// If the request was already dispatched it runs to settlement on its
		// own; only this caller stops waiting.
		select {
		case res := <-req.done:
			return res, res.err
		default:
			return result{}, ctx.Err()
		}
	}
}

// dropQueued removes req if it has not been dispatched yet. Active requests
// are left alone: the upstream protocol has no cancellation.
func (c *Client) dropQueued(req *queuedRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, q := range c.queue {
		if q == req {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			return
		}
	}
}

// processNext dispatches the queue head when the slot is free. A dispatch
// failure settles that request and moves on, so one bad connect never stalls
// the rest of the queue.
func (c *Client) processNext() {
	c.mu.Lock()
	if c.active != nil || len(c.queue) == 0 {
		c.mu.Unlock()
		return
	}
	req := c.queue[0]
	c.queue = c.queue[1:]
	act := &activeRequest{req: req, startedAt: time.Now()}
	act.timer = time.AfterFunc(c.cfg.RequestTimeout, func() { c.expire(act) })
	c.active = act
	c.mu.Unlock()

	if err := c.dispatch(req); err != nil {
		c.settle(act, result{err: err})
	}
}

func (c *Client) dispatch(req *queuedRequest) error {
	conn, err := c.ensureConnected()
	if err != nil {
		return err
	}

	msg := responseCreate{
		Type: "response.create",
		Response: responsePayload{
			Modalities:   req.modalities,
			Instructions: req.instructions,
			Input: []inputItem{{
				Type:    "message",
				Role:    "user",
				Content: []contentPart{{Type: "input_text", Text: req.prompt}},
			}},
			MaxOutputTokens: req.maxTokens,
		},
	}
	if err := c.sendJSON(conn, msg); err != nil {
		return fmt.Errorf("send response.create: %w", err)
	}
	return nil
}

// settle completes act exactly once: it is a no-op when the slot no longer
// holds act, so a timeout racing a terminal event cannot double-complete.
// Settling always advances the queue.
func (c *Client) settle(act *activeRequest, res result) {
	c.mu.Lock()
	if c.active != act {
		c.mu.Unlock()
		return
	}
	c.active = nil
	act.timer.Stop()
	c.mu.Unlock()

	if res.err != nil {
		c.log.Warn("request failed",
			"error", res.err,
			"elapsed", time.Since(act.startedAt))
	}
	act.req.done <- res

	c.processNext()
}

// expire fails act with a timeout and drops the socket. Closing is the only
// way to abandon a stuck response. The socket is detached before the queue
// advances so the next request dials fresh instead of landing on the stuck
// connection.
func (c *Client) expire(act *activeRequest) {
	c.mu.Lock()
	if c.active != act {
		c.mu.Unlock()
		return
	}
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}

	c.settle(act, result{err: fmt.Errorf("%w after %s", shared.ErrTimeout, c.cfg.RequestTimeout)})
}

// handleEvent feeds one provider event into the accumulator for the active
// request. Events with no active request are stray and ignored, as are events
// read off a superseded socket: a timeout force-close detaches the socket
// before the queue advances, and anything it already delivered must not leak
// into the next request's accumulator.
func (c *Client) handleEvent(conn *websocket.Conn, ev any) {
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}
	act := c.active
	c.mu.Unlock()
	if act == nil || ev == nil {
		return
	}

	switch ev := ev.(type) {
	case *errorEvent:
		msg := ev.Error.Message
		if msg == "" {
			msg = "provider reported an unspecified error"
		}
		c.settle(act, result{err: fmt.Errorf("%w: %s", shared.ErrUpstream, msg)})

	case *textDeltaEvent:
		act.text.WriteString(ev.Delta)

	case *textDoneEvent:
		// Deltas, when any arrived, already assembled the text; a duplicated
		// done payload must not overwrite them.
		if act.text.Len() == 0 {
			act.text.WriteString(ev.Text)
		}

	case *audioDeltaEvent:
		act.fragments = append(act.fragments, ev.Delta)

	case *responseDoneEvent:
		c.finish(act, ev)
	}
}

func (c *Client) finish(act *activeRequest, ev *responseDoneEvent) {
	// Some responses carry their text only inline on the terminal event, with
	// no deltas and no text.done. Same rule as text.done: inline output never
	// overwrites delta-assembled text.
	if act.text.Len() == 0 {
		for _, item := range ev.Response.Output {
			for _, part := range item.Content {
				act.text.WriteString(part.Text)
			}
		}
	}

	status := ev.Response.Status
	c.log.Debug("response done",
		"status", status,
		"total_tokens", ev.Response.Usage.TotalTokens,
		"elapsed", time.Since(act.startedAt))

	switch {
	case status == "completed":
		c.settle(act, c.collect(act))
	case act.req.wantAudio && status == "incomplete" && len(act.fragments) > 0:
		// Speech can be cut short near the token budget and still be
		// playable, so a truncated audio stream counts as success.
		c.settle(act, c.collect(act))
	default:
		msg := ev.Response.StatusDetails.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("response ended with status %q", status)
		}
		c.settle(act, result{err: fmt.Errorf("%w: %s", shared.ErrUpstream, msg)})
	}
}

func (c *Client) collect(act *activeRequest) result {
	if act.req.wantAudio {
		clip, err := audio.EncodeClip(act.fragments, c.cfg.Normalize)
		if err != nil {
			return result{err: fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)}
		}
		return result{audio: clip}
	}

	text := strings.TrimSpace(act.text.String())
	if text == "" {
		return result{err: shared.ErrEmptyOutput}
	}
	return result{text: text}
}
