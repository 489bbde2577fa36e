package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/tstelemetry/server/pkg/wire"
)

const (
	closeWait         = time.Second
	closeFrameWait    = 100 * time.Millisecond
	readHeaderTimeout = 5 * time.Second
)

// wsPeer sends each payload as one text message. WebSocket frames carry
// their own length, so the NUL terminator is stripped.
type wsPeer struct {
	conn *ws.Conn
}

func (p *wsPeer) Write(msg []byte, deadline time.Time) error {
	if err := p.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if n := len(msg); n > 0 && msg[n-1] == wire.Terminator {
		msg = msg[:n-1]
	}
	return p.conn.WriteMessage(ws.TextMessage, msg)
}

func (p *wsPeer) Drain() error {
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			return err
		}
	}
}

func (p *wsPeer) Close() error {
	_ = p.conn.WriteControl(ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
		time.Now().Add(closeFrameWait))
	return p.conn.Close()
}

func (p *wsPeer) RemoteAddr() string { return p.conn.RemoteAddr().String() }

// WebSocketEngine pushes payloads to up to MaxSubscribers WebSocket clients
// connected on WSPath.
type WebSocketEngine struct {
	cfg      Config
	deps     Deps
	ln       net.Listener
	srv      *http.Server
	upgrader ws.Upgrader
	hub      *hub
	state    lifecycle
	stop     stopper

	closeOnce sync.Once
	closeErr  error
}

func newWebSocketEngine(cfg Config, deps Deps, in *instruments) (*WebSocketEngine, error) {
	ln, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Address(), err)
	}

	e := &WebSocketEngine{
		cfg:  cfg,
		deps: deps,
		ln:   ln,
		hub:  newHub(cfg, deps, in),
		stop: newStopper(),
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.WSPath, e.handleSubscribe)
	e.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	e.state.set(StateBound)
	deps.Logger.Info("WebSocket engine bound", "address", ln.Addr().String(), "path", cfg.WSPath)
	return e, nil
}

func (e *WebSocketEngine) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if e.hub.full() {
		http.Error(w, ErrCapacity.Error(), http.StatusServiceUnavailable)
		return
	}
	conn, err := e.upgrader.Upgrade(w, r, nil)
	if err != nil {
		e.deps.Logger.Debug("WebSocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	_ = e.hub.add(&wsPeer{conn: conn})
}

// Run serves WebSocket subscribers until ctx is cancelled or Close is
// called.
func (e *WebSocketEngine) Run(ctx context.Context) error {
	if err := e.state.start(); err != nil {
		return err
	}
	defer close(e.stop.done)

	ctx, cancel := e.stop.context(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- e.srv.Serve(e.ln)
	}()

	e.deps.Logger.Info("WebSocket engine running", "address", e.ln.Addr().String())
	e.hub.pump(ctx)

	e.state.set(StateStopping)
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), closeWait)
	defer cancelShutdown()
	err := e.srv.Shutdown(shutdownCtx)
	e.hub.close()
	if sErr := <-serveErr; sErr != nil && !errors.Is(sErr, http.ErrServerClosed) {
		e.deps.Logger.Warn("WebSocket server stopped with error", "error", sErr)
	}
	e.state.set(StateClosed)
	e.deps.Logger.Info("WebSocket engine stopped")
	if err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// Close stops a running engine and releases the listener.
func (e *WebSocketEngine) Close() error {
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

func (e *WebSocketEngine) Addr() net.Addr { return e.ln.Addr() }
func (e *WebSocketEngine) State() State   { return e.state.load() }

func (e *WebSocketEngine) Status() Status {
	return Status{
		Mode:        ModeWebSocket,
		State:       e.State().String(),
		Address:     e.ln.Addr().String(),
		Subscribers: e.hub.count(),
		QueueLen:    e.deps.Queue.Len(),
	}
}
