package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// clientConn is one browser websocket. Outbound frames go through the send
// channel so the write pump is the only goroutine touching the socket for
// writes; request handlers run concurrently and just enqueue their result.
type clientConn struct {
	id     string
	ws     *websocket.Conn
	logger *slog.Logger
	send   chan *ServerMessage
	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func newClientConn(ws *websocket.Conn, logger *slog.Logger) *clientConn {
	id := uuid.NewString()
	return &clientConn{
		id:     id,
		ws:     ws,
		logger: logger.With(slog.String("conn_id", id)),
		send:   make(chan *ServerMessage, 32),
		done:   make(chan struct{}),
	}
}

func (c *clientConn) enqueue(msg *ServerMessage) {
	select {
	case c.send <- msg:
	case <-c.done:
	}
}

func (c *clientConn) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)
	c.mu.Unlock()

	_ = c.ws.Close()
}

func (c *clientConn) readPump(handle func(*ClientMessage)) {
	defer c.close()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("websocket read error", slog.String("error", err.Error()))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Error("failed to unmarshal message", slog.String("error", err.Error()))
			continue
		}

		handle(&msg)
	}
}

func (c *clientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			data, err := json.Marshal(msg)
			if err != nil {
				c.logger.Error("failed to marshal message", slog.String("error", err.Error()))
				continue
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Error("websocket write error", slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
