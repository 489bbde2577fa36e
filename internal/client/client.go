// Package client is a reference consumer of the telemetry stream. It
// subscribes over any of the server's transports and hands every decoded
// envelope to a callback.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tstelemetry/server/internal/network"
	"github.com/tstelemetry/server/pkg/wire"
)

const (
	defaultPollInterval = 100 * time.Millisecond
	defaultBackoff      = time.Second
	maxBackoff          = 30 * time.Second
	maxReconnect        = 10
	maxMessageSize      = 1 << 20
)

// Handler receives one decoded message.
type Handler func(env wire.Envelope)

// Options tune a listener. Zero values pick defaults.
type Options struct {
	Logger *slog.Logger
	// PollInterval is how often a datagram listener asks for a frame.
	PollInterval time.Duration
	// Backoff is the first WebSocket reconnect delay; it doubles per attempt.
	Backoff time.Duration
	// WSPath is appended to the address for WebSocket listeners.
	WSPath string
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.Backoff <= 0 {
		o.Backoff = defaultBackoff
	}
	if o.WSPath == "" {
		o.WSPath = network.DefaultWSPath
	}
	return o
}

// Listen consumes addr with the transport mode names until ctx is done or
// the server goes away for good.
func Listen(ctx context.Context, mode network.Mode, addr string, h Handler, opts Options) error {
	opts = opts.withDefaults()
	switch mode {
	case network.ModeTCP:
		return listenStream(ctx, addr, h, opts)
	case network.ModeUDP:
		return listenDatagram(ctx, addr, h, opts)
	case network.ModeWebSocket:
		return listenWebSocket(ctx, "ws://"+addr+opts.WSPath, h, opts)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// deliver decodes msg and passes it on. Undecodable messages are logged.
func deliver(msg []byte, h Handler, logger *slog.Logger) {
	env, err := wire.Decode(msg)
	if err != nil {
		logger.Debug("Dropping undecodable message", "error", err, "size", len(msg))
		return
	}
	h(env)
}
