package core

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func mustReceive(t *testing.T, ch *Channel) *Message {
	t.Helper()

	select {
	case msg, ok := <-ch.Events():
		if !ok {
			t.Fatalf("channel closed while waiting for message")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("expected message not received")
	}
	return nil
}

func mustNotReceive(t *testing.T, ch *Channel) {
	t.Helper()

	select {
	case msg, ok := <-ch.Events():
		if ok {
			t.Fatalf("unexpected message received: %+v", msg)
		}
	case <-time.After(100 * time.Millisecond):
	}
}
