package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Broker accepts submitted messages, stamps them with identity and order,
// and fans them out to every subscriber of the target room. It is the
// single entry point the transport layer talks to.
type Broker struct {
	registry *Registry
	buffer   int
	log      *zerolog.Logger

	// Overridable for tests.
	now   func() time.Time
	newID func() string
}

// NewBroker constructs a broker over a fresh registry. buffer sets the
// per-channel event buffer; zero means DefaultChannelBuffer.
func NewBroker(logger *zerolog.Logger, buffer int) *Broker {
	return &Broker{
		registry: NewRegistry(logger),
		buffer:   buffer,
		log:      logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Registry exposes the underlying room registry.
func (b *Broker) Registry() *Registry {
	return b.registry
}

// Submit validates, stamps, and fans out one message. The returned
// message carries the assigned id and timestamp so the submitting client
// can confirm or optimistically render it. Submit returns once fanout has
// run; it never waits for any subscriber to consume the message, and a
// room with no subscribers is a successful delivery to nobody.
func (b *Broker) Submit(ctx context.Context, roomID string, sender Sender, text string) (*Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sender.Name == "" {
		return nil, coreError(ErrCodeInvalidMessage, "sender name is empty")
	}
	if text == "" {
		return nil, coreError(ErrCodeInvalidMessage, "message text is empty")
	}

	msg := &Message{
		ID:     b.newID(),
		Room:   roomID,
		Sender: sender,
		Text:   text,
		SentAt: b.now(),
	}

	b.registry.Fanout(roomID, msg)

	b.log.Debug().
		Str("room", roomID).
		Str("message_id", msg.ID).
		Str("sender", sender.Name).
		Msg("message submitted")
	return msg, nil
}

// Subscribe opens a live delivery stream for roomID. The stream stays
// open until Unsubscribe or until the broker evicts the channel after a
// delivery failure. A new subscription starts empty: there is no
// historical replay.
func (b *Broker) Subscribe(ctx context.Context, roomID string) (*Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := NewChannel(roomID, b.buffer)
	if err := b.registry.Subscribe(roomID, ch); err != nil {
		return nil, fmt.Errorf("subscribe room %q: %w", roomID, err)
	}
	return ch, nil
}

// Unsubscribe tears the channel down and removes it from its room. Safe
// to call more than once and safe to race with an in-flight fanout.
func (b *Broker) Unsubscribe(ch *Channel) {
	b.registry.Unsubscribe(ch.Room(), ch)
}
