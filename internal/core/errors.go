package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeInvalidMessage  = "invalid_message"
	ErrCodeUnauthenticated = "unauthenticated"
	ErrCodeDeliveryFailure = "delivery_failure"
	ErrCodeBadRequest      = "bad_request"
)

var (
	// ErrInvalidMessage rejects a submit with an empty sender name or empty text.
	ErrInvalidMessage = errors.New("invalid message")
	// ErrUnauthenticated rejects a call with no bound identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrChannelClosed reports a send attempted on a closed subscription channel.
	ErrChannelClosed = errors.New("channel closed")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

// Unwrap maps coded errors back to their sentinel values so callers can
// use errors.Is across layer boundaries.
func (e *CoreError) Unwrap() error {
	switch e.Code {
	case ErrCodeInvalidMessage:
		return ErrInvalidMessage
	case ErrCodeUnauthenticated:
		return ErrUnauthenticated
	default:
		return nil
	}
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
