package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/okunev/pingchat-server/internal/core"
	"github.com/okunev/pingchat-server/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to the core session
// manager and message router.
type WSHandler struct {
	sessions *core.SessionManager
	router   *core.Router
	log      *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(sessions *core.SessionManager, router *core.Router, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{sessions: sessions, router: router, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(uuid.NewString())
	h.sessions.Connect(client)
	defer h.sessions.Disconnect(client.ID)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		if err := h.handleInbound(ctx, client, inbound); err != nil {
			h.log.Warn().Err(err).Str("conn_id", client.ID).Msg("failed to handle inbound")
			return err
		}
	}
}

// handleInbound dispatches one transport event. Domain errors are pushed back
// to this connection only; they never end the session.
func (h *WSHandler) handleInbound(ctx context.Context, client *core.Client, inbound proto.Inbound) error {
	switch inbound.Type {
	case proto.InboundTypeAddUser:
		var data proto.AddUserData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return err
		}
		if data.UserID == 0 {
			h.pushError(client, core.ErrCodeBadRequest, "userId is required")
			return nil
		}
		h.sessions.RegisterPresence(client.ID, data.UserID)
		return nil

	case proto.InboundTypeSendMessage:
		var data proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return err
		}
		if data.SenderID == 0 || data.ReceiverID == 0 || data.Message == "" {
			h.pushError(client, core.ErrCodeBadRequest, "senderId, receiverId and message are required")
			return nil
		}
		if _, err := h.router.Route(ctx, data.SenderID, data.ReceiverID, data.Message); err != nil {
			var coreErr *core.CoreError
			if errors.As(err, &coreErr) {
				h.pushError(client, coreErr.Code, coreErr.Message)
				return nil
			}
			return err
		}
		return nil

	case proto.InboundTypeLogOut:
		var data proto.LogOutData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return err
		}
		if data.UserID == 0 {
			h.pushError(client, core.ErrCodeBadRequest, "userId is required")
			return nil
		}
		h.sessions.Logout(data.UserID)
		return nil

	default:
		h.pushError(client, core.ErrCodeBadRequest, "unknown message type")
		return nil
	}
}

func (h *WSHandler) pushError(client *core.Client, code, msg string) {
	h.sessions.Push([]string{client.ID}, &core.Event{
		Kind:  core.EventError,
		Error: &core.CoreError{Code: code, Message: msg},
	})
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("conn_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
