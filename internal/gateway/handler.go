// Package gateway is the browser-facing websocket front door. It accepts
// translate, definition and audio requests, fans them out to the translation
// service, and delivers results tagged with the request's requestId so the
// browser can match responses to in-flight requests in any order.
package gateway

import (
	"context"
	"encoding/base64"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lexiglot/translate-backend/internal/translate"
)

const (
	audioMimeType  = "audio/wav"
	requestTimeout = 2 * time.Minute
)

type Handler struct {
	service *translate.Service
	logger  *slog.Logger
}

func NewHandler(service *translate.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  logger.With(slog.String("component", "gateway")),
	}
}

func (h *Handler) HandleWebSocket(c echo.Context) error {
	ws, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return err
	}

	conn := newClientConn(ws, h.logger)
	h.logger.Info("client connected", slog.String("conn_id", conn.id))

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	go conn.writePump()
	conn.readPump(func(msg *ClientMessage) {
		go h.dispatch(ctx, conn, msg)
	})

	h.logger.Info("client disconnected", slog.String("conn_id", conn.id))
	return nil
}

func (h *Handler) dispatch(ctx context.Context, conn *clientConn, msg *ClientMessage) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	switch msg.Type {
	case TypeTranslateRequest:
		words, err := h.service.Translate(ctx, msg.Text, msg.TargetLanguage)
		if err != nil {
			h.fail(conn, msg, err)
			return
		}
		conn.enqueue(&ServerMessage{
			Type:      TypeTranslateSuccess,
			RequestID: msg.RequestID,
			Words:     words,
		})

	case TypeDefinitionsRequest:
		defs, err := h.service.GetDefinition(ctx, msg.Word, msg.TargetLanguage, msg.Context)
		if err != nil {
			h.fail(conn, msg, err)
			return
		}
		conn.enqueue(&ServerMessage{
			Type:        TypeDefinitionsSuccess,
			RequestID:   msg.RequestID,
			Definitions: defs,
		})

	case TypeAudioRequest:
		clip, err := h.service.GetAudio(ctx, msg.Text, msg.TargetLanguage)
		if err != nil {
			h.fail(conn, msg, err)
			return
		}
		conn.enqueue(&ServerMessage{
			Type:      TypeAudioSuccess,
			RequestID: msg.RequestID,
			Audio:     base64.StdEncoding.EncodeToString(clip),
			MimeType:  audioMimeType,
		})

	default:
		h.logger.Warn("unknown message type", slog.String("type", msg.Type))
		conn.enqueue(&ServerMessage{
			Type:      TypeError,
			RequestID: msg.RequestID,
			Error:     "unknown message type: " + msg.Type,
		})
	}
}

func (h *Handler) fail(conn *clientConn, msg *ClientMessage, err error) {
	h.logger.Warn("request failed",
		slog.String("type", msg.Type),
		slog.String("request_id", msg.RequestID),
		slog.String("error", err.Error()))
	conn.enqueue(&ServerMessage{
		Type:      TypeError,
		RequestID: msg.RequestID,
		Error:     err.Error(),
	})
}
