package core

import (
	"sync"

	"github.com/rs/zerolog"
)

// Registry maps room ids to their live subscriber sets. Rooms are created
// lazily on first subscribe and forgotten as soon as the last subscriber
// leaves; an empty room has no state and no message backlog.
//
// Lock ordering is registry then room, everywhere. The registry lock only
// guards the map itself; delivery work happens under the per-room lock so
// a busy room cannot starve the others.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*room
	log   *zerolog.Logger
}

// NewRegistry constructs an empty registry.
func NewRegistry(logger *zerolog.Logger) *Registry {
	return &Registry{
		rooms: make(map[string]*room),
		log:   logger,
	}
}

// Subscribe registers the channel under roomID, creating the room if it
// does not exist yet. Concurrent subscribes to the same id land in the
// same room instance. The channel becomes eligible for every message
// submitted from this moment on. Subscribing an already-closed channel
// fails with ErrChannelClosed.
func (g *Registry) Subscribe(roomID string, ch *Channel) error {
	if !ch.activate() {
		return ErrChannelClosed
	}

	g.mu.Lock()
	r, ok := g.rooms[roomID]
	if !ok {
		r = newRoom(roomID)
		g.rooms[roomID] = r
	}
	r.add(ch)
	g.mu.Unlock()

	g.log.Debug().Str("room", roomID).Msg("channel subscribed")
	return nil
}

// Unsubscribe removes the channel from the room and closes it. Removing a
// channel that was never registered, or was already removed, is a no-op;
// disconnect notifications arrive more than once in practice. When the
// last channel leaves, the room entry is dropped from the registry.
func (g *Registry) Unsubscribe(roomID string, ch *Channel) {
	ch.Close()

	g.mu.Lock()
	r, ok := g.rooms[roomID]
	if !ok {
		g.mu.Unlock()
		return
	}
	removed, remaining := r.remove(ch)
	if remaining == 0 {
		// No add can interleave here: Subscribe needs the registry lock.
		delete(g.rooms, roomID)
	}
	g.mu.Unlock()

	if removed {
		g.log.Debug().Str("room", roomID).Int("remaining", remaining).Msg("channel unsubscribed")
	}
}

// Fanout delivers msg to every channel currently subscribed to roomID.
// A room nobody is listening to is not an error; the message simply goes
// nowhere. Channels whose delivery fails are evicted so one stalled
// consumer never blocks the room or fails the submit.
func (g *Registry) Fanout(roomID string, msg *Message) {
	g.mu.RLock()
	r, ok := g.rooms[roomID]
	g.mu.RUnlock()
	if !ok {
		return
	}

	for _, ch := range r.deliver(msg) {
		g.log.Warn().Str("room", roomID).Str("message_id", msg.ID).Msg("delivery failed, evicting channel")
		g.Unsubscribe(roomID, ch)
	}
}

// RoomSize reports how many channels are subscribed to roomID. Zero for
// unknown rooms.
func (g *Registry) RoomSize(roomID string) int {
	g.mu.RLock()
	r, ok := g.rooms[roomID]
	g.mu.RUnlock()
	if !ok {
		return 0
	}
	return r.size()
}

// Rooms reports how many rooms currently have at least one subscriber.
func (g *Registry) Rooms() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}
