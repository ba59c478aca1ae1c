// Package bus is the in-process change broadcast: mutations publish one
// event per affected collection, listeners re-read the store on any event.
// Events carry no diff; "something changed, re-read everything" is the whole
// contract.
package bus

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
	OpSynced  Op = "synced"
)

type (
	Op string

	// Event signals that one collection changed. ID is the mutated record id
	// when the mutation targeted a single record; empty for bulk rewrites
	// like the revenue sync.
	Event struct {
		Collection string    `json:"collection"`
		Op         Op        `json:"op"`
		ID         string    `json:"id,omitempty"`
		At         time.Time `json:"at"`
	}
)

// EventName is the broadcast signal name for a collection, e.g.
// "clients" -> "clientsUpdated". These names are part of the external
// contract and mirror the historical browser events.
func EventName(collection string) string {
	return collection + "Updated"
}

// Bus fans events out to subscribers. Delivery is best-effort: a subscriber
// whose buffer is full misses the event, which is safe because listeners
// re-read full collections rather than applying diffs.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func New() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener. The returned cancel func must be called to
// release the subscription.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber without blocking.
func (b *Bus) Publish(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			slog.DebugContext(ctx, "Dropping change event for slow subscriber",
				"collection", ev.Collection, "op", string(ev.Op))
		}
	}
}
