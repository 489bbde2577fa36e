// Package network is the distribution engine: it owns the sockets and
// serves telemetry to remote subscribers from its own goroutines, never
// blocking the simulation thread.
package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/tstelemetry/server/internal/queue"
	"github.com/tstelemetry/server/pkg/telemetry"
)

var (
	// ErrAlreadyStarted is returned by Run on an engine that is running.
	ErrAlreadyStarted = errors.New("network: engine already started")
	// ErrClosed is returned by Run on an engine that was closed.
	ErrClosed = errors.New("network: engine closed")
	// ErrCapacity rejects a subscriber beyond the configured maximum.
	ErrCapacity = errors.New("network: subscriber limit reached")
)

// FrameSource yields a frozen copy of the live frame.
type FrameSource interface {
	Snapshot() telemetry.Frame
}

// Deps are the collaborators an engine serves from.
type Deps struct {
	Queue  *queue.EventQueue
	Frames FrameSource
	Logger *slog.Logger
}

// Status is a point-in-time view of an engine for reporting.
type Status struct {
	Mode        Mode   `json:"mode"`
	State       string `json:"state"`
	Address     string `json:"address"`
	Subscribers int    `json:"subscribers"`
	Peer        string `json:"peer,omitempty"`
	QueueLen    int    `json:"queueLen"`
}

// Engine is a bound network distribution engine. Run serves until ctx is
// cancelled or Close is called; Close is idempotent and safe before Run.
type Engine interface {
	Run(ctx context.Context) error
	Close() error
	Addr() net.Addr
	State() State
	Status() Status
}

// New validates cfg and binds the socket for its mode. On error nothing is
// left open.
func New(cfg Config, deps Deps) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid network config: %w", err)
	}
	if deps.Queue == nil || deps.Frames == nil {
		return nil, errors.New("network: queue and frame source are required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	cfg = cfg.withDefaults()

	in, err := newInstruments()
	if err != nil {
		return nil, err
	}

	switch cfg.Mode {
	case ModeUDP:
		return newDatagramEngine(cfg, deps, in)
	case ModeWebSocket:
		return newWebSocketEngine(cfg, deps, in)
	default:
		return newStreamEngine(cfg, deps, in)
	}
}

// isTimeout reports whether err is a deadline expiry, which the engines
// treat as "no progress this iteration".
func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// stopper joins an external context with Close.
type stopper struct {
	stop chan struct{}
	done chan struct{}
}

func newStopper() stopper {
	return stopper{stop: make(chan struct{}), done: make(chan struct{})}
}

// context derives a context that is also cancelled by Close.
func (s stopper) context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-s.stop:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
