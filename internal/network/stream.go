package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

const acceptPollInterval = 50 * time.Millisecond

// tcpPeer frames payloads by their NUL terminator on a stream socket.
type tcpPeer struct {
	conn net.Conn
}

func newTCPPeer(conn net.Conn) *tcpPeer {
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
	return &tcpPeer{conn: conn}
}

func (p *tcpPeer) Write(msg []byte, deadline time.Time) error {
	if err := p.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	// net.Conn.Write only returns early on error, so a short write is a
	// hard failure.
	_, err := p.conn.Write(msg)
	return err
}

// Drain discards anything the subscriber sends until EOF or error.
func (p *tcpPeer) Drain() error {
	_, err := io.Copy(io.Discard, p.conn)
	if err == nil {
		err = io.EOF
	}
	return err
}

func (p *tcpPeer) Close() error       { return p.conn.Close() }
func (p *tcpPeer) RemoteAddr() string { return p.conn.RemoteAddr().String() }

// StreamEngine is the multi-subscriber push engine over TCP.
type StreamEngine struct {
	cfg   Config
	deps  Deps
	ln    *net.TCPListener
	hub   *hub
	state lifecycle
	stop  stopper

	closeOnce sync.Once
	closeErr  error
}

func newStreamEngine(cfg Config, deps Deps, in *instruments) (*StreamEngine, error) {
	addr, err := net.ResolveTCPAddr("tcp", cfg.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", cfg.Address(), err)
	}
	ln, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Address(), err)
	}

	e := &StreamEngine{
		cfg:  cfg,
		deps: deps,
		ln:   ln,
		hub:  newHub(cfg, deps, in),
		stop: newStopper(),
	}
	e.state.set(StateBound)
	deps.Logger.Info("TCP engine bound", "address", ln.Addr().String(), "maxSubscribers", cfg.MaxSubscribers)
	return e, nil
}

// Run accepts subscribers and broadcasts queued payloads until ctx is
// cancelled or Close is called.
func (e *StreamEngine) Run(ctx context.Context) error {
	if err := e.state.start(); err != nil {
		return err
	}
	defer close(e.stop.done)

	ctx, cancel := e.stop.context(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.acceptLoop(ctx)
	}()

	e.deps.Logger.Info("TCP engine running", "address", e.ln.Addr().String())
	e.hub.pump(ctx)

	e.state.set(StateStopping)
	wg.Wait()
	e.hub.close()
	err := e.ln.Close()
	e.state.set(StateClosed)
	e.deps.Logger.Info("TCP engine stopped")
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("failed to close listener: %w", err)
	}
	return nil
}

// acceptLoop polls for new connections with a short deadline so it notices
// cancellation within one iteration.
func (e *StreamEngine) acceptLoop(ctx context.Context) {
	for ctx.Err() == nil {
		if err := e.ln.SetDeadline(time.Now().Add(acceptPollInterval)); err != nil {
			e.deps.Logger.Error("Failed to set accept deadline", "error", err)
			return
		}
		conn, err := e.ln.AcceptTCP()
		if err != nil {
			if isTimeout(err) {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			e.deps.Logger.Warn("Accept failed", "error", err)
			sleep(ctx, e.cfg.IdleSleep)
			continue
		}
		_ = e.hub.add(newTCPPeer(conn))
	}
}

// Close stops a running engine and releases the listener.
func (e *StreamEngine) Close() error {
	e.closeOnce.Do(func() {
		close(e.stop.stop)
		if e.state.transition(StateBound, StateClosed) {
			e.closeErr = e.ln.Close()
			return
		}
		<-e.stop.done
	})
	return e.closeErr
}

func (e *StreamEngine) Addr() net.Addr { return e.ln.Addr() }
func (e *StreamEngine) State() State   { return e.state.load() }

func (e *StreamEngine) Status() Status {
	return Status{
		Mode:        ModeTCP,
		State:       e.State().String(),
		Address:     e.ln.Addr().String(),
		Subscribers: e.hub.count(),
		QueueLen:    e.deps.Queue.Len(),
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
