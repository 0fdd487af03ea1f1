package core

import "sync"

// ChannelState tracks where a subscription channel is in its lifecycle.
type ChannelState int32

const (
	// StateConnecting means the channel exists but is not yet registered
	// with a room.
	StateConnecting ChannelState = iota
	// StateActive means the channel is registered and eligible for fanout.
	StateActive
	// StateClosed is terminal. A closed channel never receives another
	// message and can never become active again; reconnecting means a
	// new channel.
	StateClosed
)

// DefaultChannelBuffer is the event buffer size used when the caller does
// not specify one. A full buffer counts as a delivery failure and gets the
// channel evicted, so the buffer bounds how far a consumer may lag.
const DefaultChannelBuffer = 32

// Channel is one participant's live link to one room. The registry owns
// the channel for delivery purposes; the transport layer only receives
// from Events and calls Close.
type Channel struct {
	room string

	mu     sync.Mutex
	state  ChannelState
	events chan *Message
	done   chan struct{}
}

// NewChannel constructs a channel in the Connecting state.
func NewChannel(room string, buffer int) *Channel {
	if buffer <= 0 {
		buffer = DefaultChannelBuffer
	}
	return &Channel{
		room:   room,
		state:  StateConnecting,
		events: make(chan *Message, buffer),
		done:   make(chan struct{}),
	}
}

// Room returns the room this channel is bound to.
func (c *Channel) Room() string {
	return c.room
}

// Events returns the receive side of the delivery stream. The channel is
// closed after Close, so consumers may range over it.
func (c *Channel) Events() <-chan *Message {
	return c.events
}

// Done is closed when the channel transitions to Closed.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// State reports the current lifecycle state.
func (c *Channel) State() ChannelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// activate moves Connecting -> Active. Reports false if the channel was
// already closed (a closed channel cannot be resurrected) or already
// registered elsewhere.
func (c *Channel) activate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConnecting {
		return false
	}
	c.state = StateActive
	return true
}

// trySend offers a message to the channel without blocking. Reports false
// when the consumer has fallen behind (buffer full); the caller treats
// that as a delivery failure and evicts the channel. Sending to a closed
// channel is a no-op and reports true: closing is not a failure.
func (c *Channel) trySend(msg *Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return true
	}
	select {
	case c.events <- msg:
		return true
	default:
		return false
	}
}

// Close transitions the channel to Closed and releases its streams.
// Idempotent and safe to call concurrently with an in-flight delivery:
// the state flag and the events channel are guarded by the same mutex, so
// no send can happen after the close is observed.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return
	}
	c.state = StateClosed
	close(c.events)
	close(c.done)
}
