package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tstelemetry/server/internal/serializer"
	"github.com/tstelemetry/server/pkg/wire"
)

// DatagramEngine serves one peer at a time over UDP. The peer pulls frames
// and events with request tokens; nothing is pushed.
type DatagramEngine struct {
	cfg   Config
	deps  Deps
	in    *instruments
	conn  *net.UDPConn
	state lifecycle
	stop  stopper

	mu       sync.Mutex
	peer     netip.AddrPort
	bound    bool
	lastSeen time.Time

	// Touched only by the Run goroutine.
	lastOversize time.Time

	closeOnce sync.Once
	closeErr  error
}

// oversizeWarnEvery limits how often an oversized frame is logged.
const oversizeWarnEvery = 10 * time.Second

func newDatagramEngine(cfg Config, deps Deps, in *instruments) (*DatagramEngine, error) {
	addr, err := net.ResolveUDPAddr("udp", cfg.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", cfg.Address(), err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", cfg.Address(), err)
	}

	e := &DatagramEngine{
		cfg:  cfg,
		deps: deps,
		in:   in,
		conn: conn,
		stop: newStopper(),
	}
	e.state.set(StateBound)
	deps.Logger.Info("UDP engine bound", "address", conn.LocalAddr().String())
	return e, nil
}

// Run answers requests until ctx is cancelled or Close is called.
func (e *DatagramEngine) Run(ctx context.Context) error {
	if err := e.state.start(); err != nil {
		return err
	}
	defer close(e.stop.done)

	ctx, cancel := e.stop.context(ctx)
	defer cancel()

	e.deps.Logger.Info("UDP engine running", "address", e.conn.LocalAddr().String())

	buf := make([]byte, wire.MaxDatagram)
	nextCheck := time.Now().Add(e.cfg.TimeoutCheckInterval)
	for ctx.Err() == nil {
		if now := time.Now(); now.After(nextCheck) {
			e.checkTimeout(now)
			nextCheck = now.Add(e.cfg.TimeoutCheckInterval)
		}

		if err := e.conn.SetReadDeadline(time.Now().Add(e.cfg.ReadTimeout)); err != nil {
			e.deps.Logger.Error("Failed to set read deadline", "error", err)
			break
		}
		n, from, err := e.conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				break
			}
			e.deps.Logger.Debug("Datagram read failed", "error", err)
			sleep(ctx, e.cfg.IdleSleep)
			continue
		}
		e.handle(ctx, from, buf[:n])
	}

	e.state.set(StateStopping)
	err := e.conn.Close()
	e.state.set(StateClosed)
	e.deps.Logger.Info("UDP engine stopped")
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("failed to close socket: %w", err)
	}
	return nil
}

// handle answers one request. Requests from anyone but the bound peer are
// dropped without a reply.
func (e *DatagramEngine) handle(ctx context.Context, from netip.AddrPort, msg []byte) {
	from = netip.AddrPortFrom(from.Addr().Unmap(), from.Port())
	if !e.accept(from) {
		e.in.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("request", "rejected")))
		return
	}

	req := wire.ParseRequest(msg)
	var reply []byte
	switch req {
	case wire.RequestFrame:
		if reply = e.frameReply(); reply == nil {
			return
		}
	case wire.Ping:
		reply = wire.Token(wire.Pong)
	case wire.RequestEvent:
		if entry, ok := e.deps.Queue.Pop(); ok {
			reply = entry.Payload
		} else {
			reply = wire.Token(wire.NoEvent)
		}
	default:
		req = wire.UnknownRequest
		reply = wire.Token(wire.UnknownRequest)
	}
	e.in.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("request", req)))
	e.reply(ctx, from, reply)
}

// frameReply serializes the live frame for one datagram. An oversized frame
// is retried without its unused trailer and wheel slots; if that still does
// not fit, the peer gets FRAME_TOO_LARGE.
func (e *DatagramEngine) frameReply() []byte {
	f := e.deps.Frames.Snapshot()
	b, err := serializer.SerializeFrame(&f)
	if err == nil && len(b) > wire.MaxDatagram {
		b, err = serializer.SerializeCompactFrame(&f)
	}
	if err != nil {
		e.deps.Logger.Warn("Failed to serialize frame", "error", err)
		return nil
	}
	if len(b) > wire.MaxDatagram {
		if now := time.Now(); now.Sub(e.lastOversize) >= oversizeWarnEvery {
			e.lastOversize = now
			e.deps.Logger.Warn("Frame exceeds datagram size", "size", len(b), "max", wire.MaxDatagram)
		}
		return wire.Token(wire.FrameTooLarge)
	}
	return b
}

// accept binds a fresh peer or checks from against the bound one.
func (e *DatagramEngine) accept(from netip.AddrPort) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.bound {
		e.peer = from
		e.bound = true
		e.lastSeen = time.Now()
		e.deps.Logger.Info("Datagram peer bound", "peer", from.String())
		return true
	}
	if e.peer.Addr() != from.Addr() || e.peer.Port() != from.Port() {
		return false
	}
	e.lastSeen = time.Now()
	return true
}

func (e *DatagramEngine) reply(ctx context.Context, to netip.AddrPort, msg []byte) {
	if err := e.conn.SetWriteDeadline(time.Now().Add(e.cfg.SendTimeout)); err != nil {
		e.deps.Logger.Debug("Failed to set write deadline", "error", err)
	}
	if _, err := e.conn.WriteToUDPAddrPort(msg, to); err != nil {
		if isTimeout(err) {
			return
		}
		e.deps.Logger.Debug("Datagram reply failed", "peer", to.String(), "error", err)
		e.reset(ctx, reasonSend)
		return
	}
	e.in.sent.Add(ctx, 1)
}

// checkTimeout forgets the peer after ClientTimeout of silence.
func (e *DatagramEngine) checkTimeout(now time.Time) {
	e.mu.Lock()
	expired := e.bound && now.Sub(e.lastSeen) > e.cfg.ClientTimeout
	e.mu.Unlock()
	if expired {
		e.reset(context.Background(), "timeout")
	}
}

func (e *DatagramEngine) reset(ctx context.Context, reason string) {
	e.mu.Lock()
	if !e.bound {
		e.mu.Unlock()
		return
	}
	peer := e.peer
	e.peer = netip.AddrPort{}
	e.bound = false
	e.mu.Unlock()

	e.in.dropped.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	e.deps.Logger.Info("Datagram peer reset", "peer", peer.String(), "reason", reason)
}

// Peer returns the bound peer, if any.
func (e *DatagramEngine) Peer() (netip.AddrPort, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.peer, e.bound
}

// Close stops a running engine and releases the socket.
func (e *DatagramEngine) Close() error {
	e.closeOnce.Do(func() {
		close(e.stop.stop)
		if e.state.transition(StateBound, StateClosed) {
			e.closeErr = e.conn.Close()
			return
		}
		<-e.stop.done
	})
	return e.closeErr
}

func (e *DatagramEngine) Addr() net.Addr { return e.conn.LocalAddr() }
func (e *DatagramEngine) State() State   { return e.state.load() }

func (e *DatagramEngine) Status() Status {
	s := Status{
		Mode:     ModeUDP,
		State:    e.State().String(),
		Address:  e.conn.LocalAddr().String(),
		QueueLen: e.deps.Queue.Len(),
	}
	if p, ok := e.Peer(); ok {
		s.Subscribers = 1
		s.Peer = p.String()
	}
	return s
}
