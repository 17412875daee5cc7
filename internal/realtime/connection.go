package realtime

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lexiglot/translate-backend/internal/shared"
)

const dialTimeout = 10 * time.Second

// ensureConnected returns the open upstream socket, dialing if necessary.
// Concurrent callers share a single connect attempt; a connect failure
// rejects every caller waiting on that attempt and is not retried here.
func (c *Client) ensureConnected() (*websocket.Conn, error) {
	for {
		c.mu.Lock()
		if c.conn != nil {
			conn := c.conn
			c.mu.Unlock()
			return conn, nil
		}
		if c.connecting != nil {
			wait := c.connecting
			c.mu.Unlock()
			<-wait

			c.mu.Lock()
			conn, err := c.conn, c.connectErr
			c.mu.Unlock()
			if conn != nil {
				return conn, nil
			}
			if err != nil {
				return nil, err
			}
			// Opened and closed again before we looked; start over.
			continue
		}

		wait := make(chan struct{})
		c.connecting = wait
		c.mu.Unlock()

		conn, err := c.dial()

		c.mu.Lock()
		c.connecting = nil
		if err != nil {
			c.connectErr = fmt.Errorf("%w: %v", shared.ErrConnect, err)
			err = c.connectErr
			c.mu.Unlock()
			close(wait)
			return nil, err
		}
		c.conn = conn
		c.connectErr = nil
		c.mu.Unlock()
		close(wait)

		go c.readLoop(conn)
		return conn, nil
	}
}

func (c *Client) dial() (*websocket.Conn, error) {
	endpoint := c.cfg.URL
	if c.cfg.Model != "" {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint += sep + "model=" + url.QueryEscape(c.cfg.Model)
	}

	header := make(http.Header)
	if c.cfg.APIKey != "" {
		header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	header.Set("OpenAI-Beta", "realtime=v1")

	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.Dial(endpoint, header)
	if err != nil {
		return nil, err
	}

	// The provider does not acknowledge session configuration, so the socket
	// counts as open the moment the handshake message is on the wire.
	update := sessionUpdate{
		Type: "session.update",
		Session: sessionPayload{
			Voice:             c.cfg.Voice,
			OutputAudioFormat: c.cfg.OutputAudioFormat,
		},
	}
	if err := c.sendJSON(conn, update); err != nil {
		conn.Close()
		return nil, err
	}

	c.log.Info("upstream connected", "voice", c.cfg.Voice, "model", c.cfg.Model)
	return conn, nil
}

func (c *Client) sendJSON(conn *websocket.Conn, v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(v)
}

// readLoop owns all reads for one socket instance and exits on the first
// read error, which covers both remote closes and our own force-close.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleSocketClose(conn, err)
			return
		}
		c.handleEvent(conn, parseEvent(data))
	}
}

// handleSocketClose clears cached connection state so the next dispatch
// reconnects, and fails the active request if its terminal event never
// arrived. Closes of superseded sockets are ignored.
func (c *Client) handleSocketClose(conn *websocket.Conn, err error) {
	c.mu.Lock()
	current := c.conn == conn
	if current {
		c.conn = nil
	}
	act := c.active
	c.mu.Unlock()

	conn.Close()
	if !current {
		return
	}

	c.log.Debug("upstream connection closed", "error", err)
	if act != nil {
		c.settle(act, result{err: shared.ErrConnectionClosed})
	}
}

// IsConnected reports whether the upstream socket is currently open. The
// connection is lazy, so false just means nothing has needed it yet.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Close drops the upstream socket. Any in-flight request fails with
// ErrConnectionClosed via the read loop.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}
