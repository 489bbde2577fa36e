package queue

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tstelemetry/server/internal/queue"

// Kind classifies a queued payload.
type Kind int

const (
	KindFrame Kind = iota
	KindEvent
	KindGameplay
)

func (k Kind) String() string {
	switch k {
	case KindFrame:
		return "frame"
	case KindEvent:
		return "event"
	case KindGameplay:
		return "gameplayEvent"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Entry is a serialized payload waiting for the network side.
type Entry struct {
	Kind    Kind
	Payload []byte
}

// EventQueue decouples the simulation thread from the network thread.
// Frame entries coalesce: pushing a frame evicts any frame still queued.
// Other entries keep FIFO order and are bounded by maxEvents, the oldest
// being dropped first.
type EventQueue struct {
	mu        sync.Mutex
	items     []Entry
	maxEvents int
	notify    chan struct{}

	dropped   metric.Int64Counter
	coalesced metric.Int64Counter
}

// NewEventQueue creates an event queue. A non-positive maxEvents disables
// the bound.
func NewEventQueue(maxEvents int) (*EventQueue, error) {
	m := otel.Meter(instrumentationName)

	dropped, err := m.Int64Counter(
		"tstelemetry.queue.dropped",
		metric.WithDescription("Queued entries dropped because the queue was full"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}
	coalesced, err := m.Int64Counter(
		"tstelemetry.queue.coalesced",
		metric.WithDescription("Frame entries replaced by a newer frame before being sent"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating coalesced counter: %w", err)
	}

	return &EventQueue{
		maxEvents: maxEvents,
		notify:    make(chan struct{}, 1),
		dropped:   dropped,
		coalesced: coalesced,
	}, nil
}

// Push enqueues an entry and wakes a waiting consumer. It never blocks on
// the consumer.
func (e *EventQueue) Push(entry Entry) {
	var replaced, dropped int64

	e.mu.Lock()
	if entry.Kind == KindFrame {
		kept := e.items[:0]
		for _, it := range e.items {
			if it.Kind == KindFrame {
				replaced++
				continue
			}
			kept = append(kept, it)
		}
		clear(e.items[len(kept):])
		e.items = append(kept, entry)
	} else {
		if e.maxEvents > 0 {
			events := 0
			for _, it := range e.items {
				if it.Kind != KindFrame {
					events++
				}
			}
			for ; events >= e.maxEvents; events-- {
				e.items = removeFirstEvent(e.items)
				dropped++
			}
		}
		e.items = append(e.items, entry)
	}
	e.mu.Unlock()

	ctx := context.Background()
	if replaced > 0 {
		e.coalesced.Add(ctx, replaced)
	}
	if dropped > 0 {
		e.dropped.Add(ctx, dropped, metric.WithAttributes(attribute.String("kind", entry.Kind.String())))
	}

	select {
	case e.notify <- struct{}{}:
	default:
	}
}

func removeFirstEvent(items []Entry) []Entry {
	for i, it := range items {
		if it.Kind != KindFrame {
			copy(items[i:], items[i+1:])
			items[len(items)-1] = Entry{}
			return items[:len(items)-1]
		}
	}
	return items
}

// Pop removes the oldest entry without blocking.
func (e *EventQueue) Pop() (Entry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.items) == 0 {
		return Entry{}, false
	}
	entry := e.items[0]
	e.items[0] = Entry{}
	e.items = e.items[1:]
	return entry, true
}

// PopWait blocks until an entry is available or ctx is done.
func (e *EventQueue) PopWait(ctx context.Context) (Entry, error) {
	for {
		if entry, ok := e.Pop(); ok {
			return entry, nil
		}
		select {
		case <-ctx.Done():
			return Entry{}, ctx.Err()
		case <-e.notify:
		}
	}
}

// Notify fires at least once after every Push. Consumers select on it and
// then drain with Pop.
func (e *EventQueue) Notify() <-chan struct{} {
	return e.notify
}

// Drain removes and returns everything queued.
func (e *EventQueue) Drain() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	items := e.items
	e.items = nil
	return items
}

// Len returns the number of queued entries.
func (e *EventQueue) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.items)
}
