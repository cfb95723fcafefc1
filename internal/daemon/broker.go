package daemon

import (
	"sync"
	"time"
)

// broker numbers events, keeps the most recent ones and fans them out to
// stream subscribers. Slow subscribers miss events rather than block a poll.
type broker struct {
	mu     sync.Mutex
	limit  int
	lastID int64
	ring   []Event
	subs   map[chan Event]struct{}
}

func newBroker(limit int) *broker {
	return &broker{limit: limit, subs: make(map[chan Event]struct{})}
}

// emit assigns the next id to a new event and delivers it.
func (b *broker) emit(kind string, at time.Time, snap Snapshot, delta Delta) Event {
	b.mu.Lock()
	b.lastID++
	ev := Event{ID: b.lastID, Type: kind, Timestamp: at, Snapshot: snap, Delta: delta}
	b.mu.Unlock()
	b.publish(ev)
	return ev
}

func (b *broker) publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.ring = append(b.ring, ev)
	if over := len(b.ring) - b.limit; over > 0 {
		b.ring = b.ring[over:]
	}
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (b *broker) recent() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.ring...)
}

// subscribe returns a buffered feed and the func that detaches it.
func (b *broker) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch, func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
	}
}

func (b *broker) counts() (events, subscribers int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ring), len(b.subs)
}
