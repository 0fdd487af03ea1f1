package core

import "sync"

// room groups the channels subscribed to one room id. Each room carries
// its own lock so that fanout and membership changes in one room never
// block another room.
type room struct {
	id string

	mu       sync.Mutex
	channels map[*Channel]struct{}
}

func newRoom(id string) *room {
	return &room{
		id:       id,
		channels: make(map[*Channel]struct{}),
	}
}

// add inserts a channel into the room. Returns true if newly added.
func (r *room) add(c *Channel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.channels[c]; exists {
		return false
	}
	r.channels[c] = struct{}{}
	return true
}

// remove deletes a channel from the room. Returns the channel's presence
// and the number of subscribers left.
func (r *room) remove(c *Channel) (removed bool, remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.channels[c]; !exists {
		return false, len(r.channels)
	}
	delete(r.channels, c)
	return true, len(r.channels)
}

// deliver sends a message to every subscribed channel and returns the
// channels whose delivery failed. The room lock is held for the whole
// loop: every channel observes the same total order of messages, and a
// channel subscribing concurrently either fully misses or fully receives
// this message. Individual sends never block, so a stalled consumer
// cannot hold the lock hostage.
func (r *room) deliver(msg *Message) (failed []*Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.channels {
		if !c.trySend(msg) {
			failed = append(failed, c)
		}
	}
	return failed
}

// empty reports whether no channels remain.
func (r *room) empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.channels) == 0
}

// size reports the current subscriber count.
func (r *room) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.channels)
}
