package telemetry

import (
	"sync"
	"sync/atomic"
)

const subscriberBuffer = 64

// Hub fans encoded snapshots out to subscribers.
// Broadcast never blocks; a subscriber that falls behind loses messages.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan []byte
	nextID      uint64

	dropped atomic.Uint64
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[uint64]chan []byte)}
}

// Subscribe registers a new subscriber and returns its id and channel.
func (h *Hub) Subscribe() (uint64, <-chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	ch := make(chan []byte, subscriberBuffer)
	h.subscribers[h.nextID] = ch
	return h.nextID, ch
}

// Unsubscribe removes the subscriber and closes its channel. Unknown ids are ignored.
func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subscribers[id]; ok {
		close(ch)
		delete(h.subscribers, id)
	}
}

// Broadcast sends msg to every subscriber.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- msg:
		default:
			h.dropped.Add(1)
		}
	}
}

// Count returns the number of subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Dropped returns how many messages were dropped for slow subscribers.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Close unsubscribes everyone.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, id)
	}
}
