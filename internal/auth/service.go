package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/sdchat/sdchat-server/internal/core"
	"github.com/sdchat/sdchat-server/internal/store"
)

var (
	// ErrInvalidName is returned when a display name doesn't meet constraints.
	ErrInvalidName = errors.New("invalid name")
	// ErrUnauthenticated is returned when a token is missing, malformed,
	// expired, or its session has been revoked.
	ErrUnauthenticated = errors.New("unauthenticated")
)

const maxNameLength = 32

// Service is the identity provider: it binds a display name to a session
// token at sign-in and resolves the bound sender for every submit and
// subscribe. The core trusts the sender it returns and never accepts a
// name straight from a client payload.
type Service struct {
	store     store.SessionStore
	jwtConfig *JWTConfig
}

// NewService creates a new identity service.
func NewService(sessionStore store.SessionStore, jwtConfig *JWTConfig) *Service {
	return &Service{
		store:     sessionStore,
		jwtConfig: jwtConfig,
	}
}

// SignIn creates a session for the given display name and returns a
// token bound to it. Names are trimmed; an empty or overlong name is
// rejected. Names are not unique: two participants may both be "alice".
func (s *Service) SignIn(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return "", ErrInvalidName
	}

	sessionID, err := generateSessionID()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}

	session, err := s.store.CreateSession(ctx, sessionID, name)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	token, err := GenerateToken(s.jwtConfig, session.ID, session.Name)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return token, nil
}

// CurrentSender resolves the sender identity bound to the token. The
// token signature is checked first, then the session row: signing out
// revokes the session, so a valid signature alone is not enough.
func (s *Service) CurrentSender(ctx context.Context, token string) (core.Sender, error) {
	claims, err := ValidateToken(s.jwtConfig, token)
	if err != nil {
		return core.Sender{}, ErrUnauthenticated
	}

	session, err := s.store.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return core.Sender{}, ErrUnauthenticated
		}
		return core.Sender{}, fmt.Errorf("get session: %w", err)
	}

	return core.Sender{Name: session.Name}, nil
}

// SignOut revokes the session behind the token. Idempotent; a bad token
// simply reports unauthenticated.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := ValidateToken(s.jwtConfig, token)
	if err != nil {
		return ErrUnauthenticated
	}

	if err := s.store.DeleteSession(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// generateSessionID generates a random opaque session id.
func generateSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
