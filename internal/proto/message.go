package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeHello = "hello"
	InboundTypeJoin  = "join"
	InboundTypeLeave = "leave"
	InboundTypeMsg   = "msg"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventNameHello   = "hello"
	EventNameMessage = "message"
	EventNameJoined  = "joined"
	EventNameLeft    = "left"
)

// HelloData binds the connection to a signed-in session. It must be the
// first frame; everything else is rejected until the token checks out.
type HelloData struct {
	Token    string `json:"token"`
	Protocol int    `json:"protocol,omitempty"`
}

// JoinData requests a subscription to a room.
type JoinData struct {
	Room string `json:"room"`
}

// LeaveData drops the subscription to a room.
type LeaveData struct {
	Room string `json:"room"`
}

// MsgData submits a chat message. The sender is never part of this
// payload; it comes from the hello token.
type MsgData struct {
	Room string `json:"room"`
	Text string `json:"text"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventHello acknowledges the hello frame with the bound display name.
type EventHello struct {
	Name string `json:"name"`
}

// EventMessage is a fanned-out chat message.
type EventMessage struct {
	ID     string `json:"id"`
	Room   string `json:"room"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
	SentAt int64  `json:"sent_at"`
}

// EventJoined acknowledges a subscription to a room.
type EventJoined struct {
	Room string `json:"room"`
}

// EventLeft acknowledges leaving a room.
type EventLeft struct {
	Room string `json:"room"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
