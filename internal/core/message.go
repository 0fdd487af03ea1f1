package core

import "time"

// Sender is the display identity attached to a message. The name is bound
// to the submitting session by the auth layer; the core never reads it
// from a client payload.
type Sender struct {
	Name string
}

// Message is the domain model for a chat message. All fields are set once
// by the broker at submission time and never mutated afterwards.
type Message struct {
	ID     string
	Room   string
	Sender Sender
	Text   string
	SentAt time.Time
}
