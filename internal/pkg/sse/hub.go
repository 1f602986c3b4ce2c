package sse

import (
	"sync"
)

const (
	EventPunchRecorded      = "punch_recorded"
	EventShiftCorrected     = "shift_corrected"
	EventMissingPunchDigest = "missing_punch_digest"
)

// Event is a message delivered to every subscriber of a company channel
type Event struct {
	CompanyID string
	Event     string
	Data      interface{}
}

// Hub fans out events to subscribers grouped by company
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber on a company channel. The returned cleanup
// unregisters and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(companyID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)

	if h.subscribers[companyID] == nil {
		h.subscribers[companyID] = make(map[chan Event]struct{})
	}
	h.subscribers[companyID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[companyID], ch)
			close(ch)
			if len(h.subscribers[companyID]) == 0 {
				delete(h.subscribers, companyID)
			}
		})
	}

	return ch, cleanup
}

// Publish sends an event to all subscribers of a company
func (h *Hub) Publish(companyID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.CompanyID = companyID
	for ch := range h.subscribers[companyID] {
		select {
		case ch <- event:
		default:
			// slow subscriber, drop
		}
	}
}

func (h *Hub) SubscriberCount(companyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[companyID])
}

func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
