package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/sdchat/sdchat-server/internal/auth"
	"github.com/sdchat/sdchat-server/internal/core"
	"github.com/sdchat/sdchat-server/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to the broker:
// join/leave map to subscribe/unsubscribe, msg maps to submit, and every
// subscribed room's fanout is pumped back over the socket.
type WSHandler struct {
	broker      *core.Broker
	authService *auth.Service
	log         *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(broker *core.Broker, authService *auth.Service, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{broker: broker, authService: authService, log: logger}
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

	sess := &wsSession{
		broker:      h.broker,
		authService: h.authService,
		log:         h.log,
		conn:        conn,
		outbound:    make(chan proto.Outbound, 64),
		subs:        make(map[string]*core.Channel),
	}
	defer sess.teardown()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- sess.readLoop(ctx)
	}()
	go func() {
		errCh <- sess.writeLoop(ctx)
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

// wsSession holds one connection's identity and room subscriptions.
// sender and subs are touched only by readLoop, and by teardown after
// both loops have exited.
type wsSession struct {
	broker      *core.Broker
	authService *auth.Service
	log         *zerolog.Logger
	conn        *websocket.Conn

	outbound chan proto.Outbound
	sender   *core.Sender
	subs     map[string]*core.Channel
}

func (s *wsSession) readLoop(ctx context.Context) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, s.conn, &inbound); err != nil {
			return err
		}

		out, reply, err := s.handle(ctx, inbound)
		if err != nil {
			return err
		}
		if reply {
			s.send(ctx, out)
		}
	}
}

func (s *wsSession) writeLoop(ctx context.Context) error {
	for {
		select {
		case out := <-s.outbound:
			if err := wsjson.Write(ctx, s.conn, out); err != nil {
				s.log.Error().Err(err).Msg("write ws outbound")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// handle processes one inbound frame. A returned error tears the
// connection down; protocol-level problems come back as error frames
// instead.
func (s *wsSession) handle(ctx context.Context, inbound proto.Inbound) (proto.Outbound, bool, error) {
	switch inbound.Type {
	case proto.InboundTypeHello:
		var hello proto.HelloData
		if err := json.Unmarshal(inbound.Data, &hello); err != nil {
			return proto.Outbound{}, false, err
		}
		sender, err := s.authService.CurrentSender(ctx, hello.Token)
		if err != nil {
			return outboundError(core.ErrCodeUnauthenticated, "invalid or revoked token"), true, nil
		}
		s.sender = &sender
		return outboundHello(sender.Name), true, nil

	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return proto.Outbound{}, false, err
		}
		if s.sender == nil {
			return outboundError(core.ErrCodeUnauthenticated, "hello first"), true, nil
		}
		if join.Room == "" {
			return outboundError(core.ErrCodeBadRequest, "room is required"), true, nil
		}
		if _, joined := s.subs[join.Room]; joined {
			return outboundError(core.ErrCodeBadRequest, "already joined"), true, nil
		}
		ch, err := s.broker.Subscribe(ctx, join.Room)
		if err != nil {
			return outboundFromErr(err), true, nil
		}
		s.subs[join.Room] = ch
		go s.pump(ctx, ch)
		return outboundJoined(join.Room), true, nil

	case proto.InboundTypeLeave:
		var leave proto.LeaveData
		if err := json.Unmarshal(inbound.Data, &leave); err != nil {
			return proto.Outbound{}, false, err
		}
		if leave.Room == "" {
			return outboundError(core.ErrCodeBadRequest, "room is required"), true, nil
		}
		// Leaving a room that was never joined is a no-op, not an error.
		if ch, joined := s.subs[leave.Room]; joined {
			s.broker.Unsubscribe(ch)
			delete(s.subs, leave.Room)
		}
		return outboundLeft(leave.Room), true, nil

	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return proto.Outbound{}, false, err
		}
		if s.sender == nil {
			return outboundError(core.ErrCodeUnauthenticated, "hello first"), true, nil
		}
		if msg.Room == "" {
			return outboundError(core.ErrCodeBadRequest, "room is required"), true, nil
		}
		// The sender always comes from the hello token; the submitter
		// sees its own message through fanout like everyone else.
		if _, err := s.broker.Submit(ctx, msg.Room, *s.sender, msg.Text); err != nil {
			return outboundFromErr(err), true, nil
		}
		return proto.Outbound{}, false, nil

	default:
		return outboundError(core.ErrCodeBadRequest, "unknown message type"), true, nil
	}
}

// pump forwards one subscription's fanout stream into the shared write
// queue. It exits when the channel closes, whether through leave, eviction,
// or connection teardown.
func (s *wsSession) pump(ctx context.Context, ch *core.Channel) {
	for {
		select {
		case msg, ok := <-ch.Events():
			if !ok {
				return
			}
			s.send(ctx, outboundFromMessage(msg))
		case <-ctx.Done():
			return
		}
	}
}

func (s *wsSession) send(ctx context.Context, out proto.Outbound) {
	select {
	case s.outbound <- out:
	case <-ctx.Done():
	}
}

// teardown unsubscribes every joined room. Runs after both loops have
// exited; racing fanouts see closed channels and skip them.
func (s *wsSession) teardown() {
	for _, ch := range s.subs {
		s.broker.Unsubscribe(ch)
	}
	s.subs = nil
}
