package client

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

// connection is a WebSocket subscription that redials with exponential
// backoff when the server drops it.
type connection struct {
	mu   sync.Mutex
	conn *ws.Conn

	url  string
	opts Options
}

func listenWebSocket(ctx context.Context, rawURL string, h Handler, opts Options) error {
	if _, err := url.Parse(rawURL); err != nil {
		return fmt.Errorf("invalid websocket URL: %w", err)
	}
	c := &connection{url: rawURL, opts: opts}

	if err := c.dial(ctx); err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, c.close)
	defer stop()
	defer c.close()

	for {
		err := c.readLoop(h)
		if ctx.Err() != nil {
			return nil
		}
		opts.Logger.Warn("WebSocket read error", "error", err)
		if err := c.reconnect(ctx); err != nil {
			return err
		}
	}
}

// dial performs a single WebSocket dial.
func (c *connection) dial(ctx context.Context) error {
	conn, resp, err := ws.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("websocket dial failed: %s: %w", resp.Status, err)
		}
		return fmt.Errorf("websocket dial failed: %w", err)
	}
	conn.SetReadLimit(maxMessageSize)

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.opts.Logger.Info("Subscribed", "transport", "ws", "url", c.url)
	return nil
}

// readLoop delivers messages until the connection fails.
func (c *connection) readLoop(h Handler) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ws.ErrCloseSent
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		deliver(message, h, c.opts.Logger)
	}
}

// reconnect redials with exponential backoff, giving up after maxReconnect
// attempts.
func (c *connection) reconnect(ctx context.Context) error {
	c.close()

	backoff := c.opts.Backoff
	for attempt := 1; attempt <= maxReconnect; attempt++ {
		c.opts.Logger.Info("Reconnecting to WebSocket", "attempt", attempt, "backoff", backoff)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		if err := c.dial(ctx); err != nil {
			c.opts.Logger.Warn("Reconnect dial failed", "attempt", attempt, "error", err)
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		return nil
	}

	return fmt.Errorf("websocket reconnect failed after %d attempts", maxReconnect)
}

func (c *connection) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}
