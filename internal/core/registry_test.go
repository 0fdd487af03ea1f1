package core

import (
	"testing"
	"time"
)

func TestRegistryLazyCreateAndCollect(t *testing.T) {
	reg := NewRegistry(testLogger())

	ch := NewChannel("abc12345", 0)
	if err := reg.Subscribe("abc12345", ch); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if reg.Rooms() != 1 || reg.RoomSize("abc12345") != 1 {
		t.Fatalf("room not created: rooms=%d size=%d", reg.Rooms(), reg.RoomSize("abc12345"))
	}

	reg.Unsubscribe("abc12345", ch)
	if reg.Rooms() != 0 {
		t.Fatalf("empty room must be removed from registry")
	}
	if ch.State() != StateClosed {
		t.Fatalf("unsubscribed channel must be closed")
	}
}

func TestRegistryUnsubscribeUnknownIsNoop(t *testing.T) {
	reg := NewRegistry(testLogger())

	ch := NewChannel("ghost", 0)
	reg.Unsubscribe("ghost", ch)

	// Duplicate disconnect notifications must also be harmless.
	sub := NewChannel("abc12345", 0)
	if err := reg.Subscribe("abc12345", sub); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	reg.Unsubscribe("abc12345", sub)
	reg.Unsubscribe("abc12345", sub)
}

func TestRegistrySubscribeClosedChannelFails(t *testing.T) {
	reg := NewRegistry(testLogger())

	ch := NewChannel("abc12345", 0)
	ch.Close()
	if err := reg.Subscribe("abc12345", ch); err == nil {
		t.Fatalf("expected error subscribing a closed channel")
	}
	if reg.Rooms() != 0 {
		t.Fatalf("failed subscribe must not leave a room behind")
	}
}

func TestFanoutUnknownRoomIsNoop(t *testing.T) {
	reg := NewRegistry(testLogger())
	reg.Fanout("nobody", &Message{ID: "x", Room: "nobody", Text: "hi", SentAt: time.Now()})
}

func TestRoomsDoNotCrossDeliver(t *testing.T) {
	reg := NewRegistry(testLogger())

	abc := NewChannel("abc12345", 0)
	xyz := NewChannel("xyz98765", 0)
	if err := reg.Subscribe("abc12345", abc); err != nil {
		t.Fatalf("subscribe abc: %v", err)
	}
	if err := reg.Subscribe("xyz98765", xyz); err != nil {
		t.Fatalf("subscribe xyz: %v", err)
	}

	reg.Fanout("abc12345", &Message{ID: "m1", Room: "abc12345", Sender: Sender{Name: "alice"}, Text: "hi", SentAt: time.Now()})

	select {
	case msg := <-abc.Events():
		if msg.Room != "abc12345" {
			t.Fatalf("message delivered with wrong room: %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatalf("abc channel did not receive message")
	}

	select {
	case msg := <-xyz.Events():
		t.Fatalf("cross-room delivery: %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFanoutEvictsStalledChannel(t *testing.T) {
	reg := NewRegistry(testLogger())

	stalled := NewChannel("abc12345", 1)
	healthy := NewChannel("abc12345", 4)
	if err := reg.Subscribe("abc12345", stalled); err != nil {
		t.Fatalf("subscribe stalled: %v", err)
	}
	if err := reg.Subscribe("abc12345", healthy); err != nil {
		t.Fatalf("subscribe healthy: %v", err)
	}

	// First message fills the stalled channel's buffer; the second
	// overflows it and gets the channel evicted. The healthy channel
	// keeps receiving throughout.
	reg.Fanout("abc12345", &Message{ID: "m1", Room: "abc12345", Text: "a", SentAt: time.Now()})
	reg.Fanout("abc12345", &Message{ID: "m2", Room: "abc12345", Text: "b", SentAt: time.Now()})

	if stalled.State() != StateClosed {
		t.Fatalf("stalled channel should be closed after delivery failure")
	}
	if reg.RoomSize("abc12345") != 1 {
		t.Fatalf("expected only the healthy channel to remain, got %d", reg.RoomSize("abc12345"))
	}

	for _, want := range []string{"a", "b"} {
		select {
		case msg := <-healthy.Events():
			if msg.Text != want {
				t.Fatalf("healthy channel got %q, want %q", msg.Text, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("healthy channel missed %q", want)
		}
	}
}

func TestUnsubscribeRacesWithFanout(t *testing.T) {
	reg := NewRegistry(testLogger())

	ch := NewChannel("abc12345", 8)
	if err := reg.Subscribe("abc12345", ch); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			reg.Fanout("abc12345", &Message{ID: "m", Room: "abc12345", Text: "x", SentAt: time.Now()})
		}
	}()

	go func() {
		for range ch.Events() {
		}
	}()

	reg.Unsubscribe("abc12345", ch)
	<-done

	// No delivery may happen after close; trySend's state check makes the
	// remaining fanouts no-ops rather than panics.
	if ch.State() != StateClosed {
		t.Fatalf("channel should be closed")
	}
}
