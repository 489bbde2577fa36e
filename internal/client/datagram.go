package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/tstelemetry/server/pkg/wire"
)

// listenDatagram pulls from a datagram server: PING once to bind, then a
// frame and an event request per poll interval.
func listenDatagram(ctx context.Context, addr string, h Handler, opts Options) error {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("invalid address %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return fmt.Errorf("failed to open socket: %w", err)
	}
	defer conn.Close()

	buf := make([]byte, wire.MaxDatagram)
	ask := func(req string) ([]byte, error) {
		if _, err := conn.Write(wire.Token(req)); err != nil {
			return nil, err
		}
		if err := conn.SetReadDeadline(time.Now().Add(opts.PollInterval)); err != nil {
			return nil, err
		}
		n, err := conn.Read(buf)
		if err != nil {
			return nil, err
		}
		return buf[:n], nil
	}

	reply, err := ask(wire.Ping)
	if err != nil {
		return fmt.Errorf("no answer to %s from %s: %w", wire.Ping, addr, err)
	}
	if tok := wire.ParseRequest(reply); tok != wire.Pong {
		return fmt.Errorf("unexpected answer to %s: %q", wire.Ping, tok)
	}
	opts.Logger.Info("Subscribed", "transport", "udp", "address", addr)

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		for _, req := range []string{wire.RequestFrame, wire.RequestEvent} {
			reply, err := ask(req)
			if errors.Is(err, os.ErrDeadlineExceeded) {
				opts.Logger.Debug("Request timed out", "request", req)
				continue
			}
			if err != nil {
				return fmt.Errorf("request %s failed: %w", req, err)
			}
			switch wire.ParseRequest(reply) {
			case wire.NoEvent, wire.Pong:
			case wire.FrameTooLarge:
				opts.Logger.Warn("Frame does not fit in a datagram", "address", addr)
			case wire.UnknownRequest:
				opts.Logger.Warn("Server did not understand request", "request", req)
			default:
				deliver(reply, h, opts.Logger)
			}
		}
	}
}
