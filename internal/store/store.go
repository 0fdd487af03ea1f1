package store

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when a session id has no row, either
// because it never existed or because the user signed out.
var ErrSessionNotFound = errors.New("session not found")

// Session binds a display name to a signed-in participant. Sessions are
// the only thing the server persists; messages are never written down.
type Session struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// SessionStore persists identity sessions.
type SessionStore interface {
	// CreateSession inserts a new session row.
	CreateSession(ctx context.Context, id, name string) (*Session, error)
	// GetSession fetches a session by id. Returns ErrSessionNotFound when
	// the session does not exist or has been revoked.
	GetSession(ctx context.Context, id string) (*Session, error)
	// DeleteSession revokes a session. Deleting an absent session is not
	// an error.
	DeleteSession(ctx context.Context, id string) error
	// DeleteSessionsBefore removes sessions created before the cutoff.
	// Returns the number of rows removed.
	DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Store is the full persistence surface the application wires up.
type Store interface {
	SessionStore
	Close() error
}
