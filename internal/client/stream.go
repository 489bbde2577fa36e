package client

import (
	"context"
	"fmt"
	"net"

	"github.com/tstelemetry/server/pkg/wire"
)

func listenStream(ctx context.Context, addr string, h Handler, opts Options) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	opts.Logger.Info("Subscribed", "transport", "tcp", "address", addr)

	sc := wire.NewScanner(conn, maxMessageSize)
	for sc.Scan() {
		deliver(sc.Bytes(), h, opts.Logger)
	}
	if ctx.Err() != nil {
		return nil
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("stream read failed: %w", err)
	}
	opts.Logger.Info("Server closed the stream", "address", addr)
	return nil
}
