package network

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tstelemetry/server/internal/channel"
	"github.com/tstelemetry/server/internal/queue"
	"github.com/tstelemetry/server/internal/serializer"
)

// peer is one connected subscriber transport.
type peer interface {
	// Write sends one NUL-terminated payload, failing after deadline.
	Write(msg []byte, deadline time.Time) error
	// Drain reads until the remote side goes away and returns why.
	Drain() error
	Close() error
	RemoteAddr() string
}

// Drop reasons reported by the dropped counter.
const (
	reasonCapacity = "capacity"
	reasonOverflow = "overflow"
	reasonSend     = "send"
	reasonClosed   = "closed"
	reasonShutdown = "shutdown"
)

type subscriber struct {
	id     string
	peer   peer
	outbox *channel.Buffered[[]byte]
}

// hub is the liveness-tracked subscriber set shared by the push engines.
type hub struct {
	cfg    Config
	deps   Deps
	in     *instruments
	logger *slog.Logger

	mu        sync.Mutex
	subs      map[string]*subscriber
	lastFrame []byte
	closed    bool
	wg        sync.WaitGroup
}

func newHub(cfg Config, deps Deps, in *instruments) *hub {
	return &hub{
		cfg:    cfg,
		deps:   deps,
		in:     in,
		logger: deps.Logger,
		subs:   make(map[string]*subscriber),
	}
}

// full reports whether another subscriber would exceed the cap.
func (h *hub) full() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs) >= h.cfg.MaxSubscribers
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// initialFrame returns what a new subscriber sees first: the last broadcast
// frame, or the live frame if nothing was broadcast yet.
func (h *hub) initialFrame() []byte {
	if h.lastFrame != nil {
		return h.lastFrame
	}
	f := h.deps.Frames.Snapshot()
	b, err := serializer.SerializeFrame(&f)
	if err != nil {
		h.logger.Warn("Failed to serialize initial frame", "error", err)
		return nil
	}
	h.lastFrame = b
	return b
}

// add registers p and starts its reader and writer. The initial frame is
// queued before p joins the broadcast set, so it always arrives first.
func (h *hub) add(p peer) error {
	ctx := context.Background()

	h.mu.Lock()
	if h.closed || len(h.subs) >= h.cfg.MaxSubscribers {
		h.mu.Unlock()
		_ = p.Close()
		h.in.dropped.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reasonCapacity)))
		h.logger.Warn("Rejected subscriber", "remote", p.RemoteAddr(), "max", h.cfg.MaxSubscribers)
		return ErrCapacity
	}

	sub := &subscriber{
		id:     uuid.NewString(),
		peer:   p,
		outbox: channel.NewBuffered[[]byte](h.cfg.OutboxSize),
	}
	if frame := h.initialFrame(); frame != nil {
		sub.outbox.TrySend(frame)
	}
	h.subs[sub.id] = sub
	h.wg.Add(2)
	h.mu.Unlock()

	h.in.subscribers.Add(ctx, 1)
	h.logger.Info("Subscriber connected", "id", sub.id, "remote", p.RemoteAddr())

	go h.writeLoop(sub)
	go h.readLoop(sub)
	return nil
}

// writeLoop is the only goroutine writing to sub's peer.
func (h *hub) writeLoop(sub *subscriber) {
	defer h.wg.Done()
	for msg := range sub.outbox.Receive() {
		if err := sub.peer.Write(msg, time.Now().Add(h.cfg.SendTimeout)); err != nil {
			h.logger.Debug("Subscriber send failed", "id", sub.id, "error", err)
			h.remove(sub, reasonSend)
			return
		}
	}
}

// readLoop detects disconnects.
func (h *hub) readLoop(sub *subscriber) {
	defer h.wg.Done()
	err := sub.peer.Drain()
	h.logger.Debug("Subscriber read ended", "id", sub.id, "error", err)
	h.remove(sub, reasonClosed)
}

// remove drops sub exactly once; later calls for the same subscriber are
// no-ops.
func (h *hub) remove(sub *subscriber, reason string) {
	h.mu.Lock()
	if _, ok := h.subs[sub.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.subs, sub.id)
	h.mu.Unlock()

	sub.outbox.Close()
	_ = sub.peer.Close()

	ctx := context.Background()
	h.in.subscribers.Add(ctx, -1)
	h.in.dropped.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	h.logger.Info("Subscriber disconnected", "id", sub.id, "remote", sub.peer.RemoteAddr(), "reason", reason)
}

// broadcast hands entry to every subscriber. A subscriber whose outbox is
// full is treated as dead.
func (h *hub) broadcast(entry queue.Entry) {
	h.mu.Lock()
	if entry.Kind == queue.KindFrame {
		h.lastFrame = entry.Payload
	}
	var overflowed []*subscriber
	delivered := 0
	for _, sub := range h.subs {
		if sub.outbox.TrySend(entry.Payload) {
			delivered++
		} else {
			overflowed = append(overflowed, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range overflowed {
		h.remove(sub, reasonOverflow)
	}
	if delivered > 0 {
		h.in.sent.Add(context.Background(), int64(delivered),
			metric.WithAttributes(attribute.String("payload", entry.Kind.String())))
	}
}

// pump drains the queue into the subscriber set until ctx is done.
func (h *hub) pump(ctx context.Context) {
	q := h.deps.Queue
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.Notify():
		}
		for {
			entry, ok := q.Pop()
			if !ok {
				break
			}
			h.broadcast(entry)
		}
	}
}

// close disconnects everyone at once and waits for their goroutines.
func (h *hub) close() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.remove(sub, reasonShutdown)
		}()
	}
	wg.Wait()
	h.wg.Wait()
}
