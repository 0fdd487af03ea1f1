package http

import (
	"errors"

	"github.com/sdchat/sdchat-server/internal/core"
	"github.com/sdchat/sdchat-server/internal/proto"
)

func outboundFromMessage(msg *core.Message) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: proto.EventNameMessage,
		Data: proto.EventMessage{
			ID:     msg.ID,
			Room:   msg.Room,
			Sender: msg.Sender.Name,
			Text:   msg.Text,
			SentAt: msg.SentAt.Unix(),
		},
	}
}

func outboundHello(name string) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: proto.EventNameHello,
		Data:  proto.EventHello{Name: name},
	}
}

func outboundJoined(room string) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: proto.EventNameJoined,
		Data:  proto.EventJoined{Room: room},
	}
}

func outboundLeft(room string) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: proto.EventNameLeft,
		Data:  proto.EventLeft{Room: room},
	}
}

func outboundError(code, msg string) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeError,
		Error: &proto.Error{Code: code, Msg: msg},
	}
}

// outboundFromErr maps domain errors onto protocol error frames.
func outboundFromErr(err error) proto.Outbound {
	var coreErr *core.CoreError
	if errors.As(err, &coreErr) {
		return outboundError(coreErr.Code, coreErr.Message)
	}
	switch {
	case errors.Is(err, core.ErrInvalidMessage):
		return outboundError(core.ErrCodeInvalidMessage, "invalid message")
	case errors.Is(err, core.ErrUnauthenticated):
		return outboundError(core.ErrCodeUnauthenticated, "unauthenticated")
	default:
		return outboundError(core.ErrCodeBadRequest, err.Error())
	}
}
