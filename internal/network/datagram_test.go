package network

import (
	"errors"
	"net"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tstelemetry/server/internal/queue"
	"github.com/tstelemetry/server/internal/serializer"
	"github.com/tstelemetry/server/pkg/scs"
	"github.com/tstelemetry/server/pkg/telemetry"
	"github.com/tstelemetry/server/pkg/wire"
)

type udpClient struct {
	conn *net.UDPConn
}

func dialUDP(t *testing.T, e Engine) *udpClient {
	t.Helper()
	raddr, err := net.ResolveUDPAddr("udp", e.Addr().String())
	require.NoError(t, err)
	conn, err := net.DialUDP("udp", nil, raddr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &udpClient{conn: conn}
}

func (c *udpClient) addr(t *testing.T) netip.AddrPort {
	t.Helper()
	ap, err := netip.ParseAddrPort(c.conn.LocalAddr().String())
	require.NoError(t, err)
	return ap
}

// ask sends req and waits up to wait for a reply. ok is false on timeout.
func (c *udpClient) ask(t *testing.T, req string, wait time.Duration) (reply []byte, ok bool) {
	t.Helper()
	_, err := c.conn.Write([]byte(req))
	require.NoError(t, err)
	require.NoError(t, c.conn.SetReadDeadline(time.Now().Add(wait)))
	buf := make([]byte, wire.MaxDatagram)
	n, err := c.conn.Read(buf)
	if err != nil {
		var ne net.Error
		require.True(t, errors.As(err, &ne) && ne.Timeout(), "unexpected read error: %v", err)
		return nil, false
	}
	return buf[:n], true
}

func peerOf(t *testing.T, e Engine) (netip.AddrPort, bool) {
	t.Helper()
	de, ok := e.(*DatagramEngine)
	require.True(t, ok)
	return de.Peer()
}

func TestDatagramEngine_PingBindsPeer(t *testing.T) {
	fx := newFixture(t)
	e := startEngine(t, testConfig(ModeUDP), fx.deps)
	c := dialUDP(t, e)

	reply, ok := c.ask(t, wire.Ping, waitFor)
	require.True(t, ok)
	assert.Equal(t, "PONG\x00", string(reply))

	peer, bound := peerOf(t, e)
	require.True(t, bound)
	assert.Equal(t, c.addr(t), peer)

	st := e.Status()
	assert.Equal(t, 1, st.Subscribers)
	assert.Equal(t, c.addr(t).String(), st.Peer)
}

func TestDatagramEngine_RequestFrame(t *testing.T) {
	fx := newFixture(t)
	e := startEngine(t, testConfig(ModeUDP), fx.deps)
	fx.store.ApplyChannelUpdate(scs.TruckSpeed, scs.IndexNil, scs.DoubleValue(42.5))
	c := dialUDP(t, e)

	reply, ok := c.ask(t, wire.RequestFrame, waitFor)
	require.True(t, ok)
	assert.Equal(t, wire.Terminator, reply[len(reply)-1])
	assert.Equal(t, 42.5, decodeFrame(t, reply).Truck.Speed)
}

type fixedFrame telemetry.Frame

func (f *fixedFrame) Snapshot() telemetry.Frame { return telemetry.Frame(*f) }

func TestDatagramEngine_OversizedFrameIsCompacted(t *testing.T) {
	f := telemetry.NewFrame()
	f.Truck.Speed = 42.5
	f.Truck.Wheels[0].Rotation = 0.25
	f.TrailerCount = 1
	f.Trailers[0].Connected = true
	f.Trailers[0].Wheels[1].Steering = -0.5
	f.Job.Cargo = strings.Repeat("x", 30000)

	full, err := serializer.SerializeFrame(&f)
	require.NoError(t, err)
	require.Greater(t, len(full), wire.MaxDatagram)

	fx := newFixture(t)
	fx.deps.Frames = (*fixedFrame)(&f)
	e := startEngine(t, testConfig(ModeUDP), fx.deps)
	c := dialUDP(t, e)

	reply, ok := c.ask(t, wire.RequestFrame, waitFor)
	require.True(t, ok)
	assert.LessOrEqual(t, len(reply), wire.MaxDatagram)
	assert.Equal(t, f, decodeFrame(t, reply))
}

func TestDatagramEngine_FrameTooLarge(t *testing.T) {
	f := telemetry.NewFrame()
	f.Job.Cargo = strings.Repeat("x", wire.MaxDatagram)

	fx := newFixture(t)
	fx.deps.Frames = (*fixedFrame)(&f)
	e := startEngine(t, testConfig(ModeUDP), fx.deps)
	c := dialUDP(t, e)

	for range 3 {
		reply, ok := c.ask(t, wire.RequestFrame, waitFor)
		require.True(t, ok, "an oversized frame still gets an answer")
		assert.Equal(t, "FRAME_TOO_LARGE\x00", string(reply))
	}

	reply, ok := c.ask(t, wire.Ping, waitFor)
	require.True(t, ok)
	assert.Equal(t, "PONG\x00", string(reply))
}

func TestDatagramEngine_Requests(t *testing.T) {
	tests := []struct {
		name string
		req  string
		want string
	}{
		{"ping", "PING", "PONG\x00"},
		{"ping with terminator", "PING\x00", "PONG\x00"},
		{"unknown", "HELLO", "UNKNOWN_REQUEST\x00"},
		{"empty", "", "UNKNOWN_REQUEST\x00"},
		{"no event", "REQUEST_EVENT", "NO_EVENT\x00"},
	}

	fx := newFixture(t)
	e := startEngine(t, testConfig(ModeUDP), fx.deps)
	c := dialUDP(t, e)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, ok := c.ask(t, tt.req, waitFor)
			require.True(t, ok)
			assert.Equal(t, tt.want, string(reply))
		})
	}
}

func TestDatagramEngine_RequestEvent(t *testing.T) {
	fx := newFixture(t)
	e := startEngine(t, testConfig(ModeUDP), fx.deps)
	c := dialUDP(t, e)

	payload := wire.Terminate([]byte(`{"payloadType":"gameplayEvent","payload":{"eventType":"job.delivered","attributes":{}}}`))
	fx.queue.Push(queue.Entry{Kind: queue.KindGameplay, Payload: payload})

	reply, ok := c.ask(t, wire.RequestEvent, waitFor)
	require.True(t, ok)
	assert.Equal(t, payload, reply)

	reply, ok = c.ask(t, wire.RequestEvent, waitFor)
	require.True(t, ok)
	assert.Equal(t, "NO_EVENT\x00", string(reply))
}

func TestDatagramEngine_RejectsOtherPeer(t *testing.T) {
	fx := newFixture(t)
	e := startEngine(t, testConfig(ModeUDP), fx.deps)
	bound := dialUDP(t, e)
	other := dialUDP(t, e)

	_, ok := bound.ask(t, wire.Ping, waitFor)
	require.True(t, ok)

	_, ok = other.ask(t, wire.Ping, 200*time.Millisecond)
	assert.False(t, ok, "a second peer must not get a reply")

	peer, _ := peerOf(t, e)
	assert.Equal(t, bound.addr(t), peer)

	_, ok = bound.ask(t, wire.Ping, waitFor)
	assert.True(t, ok)
}

func TestDatagramEngine_SilentPeerTimesOut(t *testing.T) {
	fx := newFixture(t)
	cfg := testConfig(ModeUDP)
	cfg.ClientTimeout = 100 * time.Millisecond
	cfg.TimeoutCheckInterval = 20 * time.Millisecond
	e := startEngine(t, cfg, fx.deps)

	first := dialUDP(t, e)
	_, ok := first.ask(t, wire.Ping, waitFor)
	require.True(t, ok)

	require.Eventually(t, func() bool { return e.Status().Peer == "" }, waitFor, 5*time.Millisecond)
	assert.Zero(t, e.Status().Subscribers)

	second := dialUDP(t, e)
	reply, ok := second.ask(t, wire.Ping, waitFor)
	require.True(t, ok)
	assert.Equal(t, "PONG\x00", string(reply))
	peer, _ := peerOf(t, e)
	assert.Equal(t, second.addr(t), peer)
}

func TestDatagramEngine_ActivePeerStaysBound(t *testing.T) {
	fx := newFixture(t)
	cfg := testConfig(ModeUDP)
	cfg.ClientTimeout = 150 * time.Millisecond
	cfg.TimeoutCheckInterval = 20 * time.Millisecond
	e := startEngine(t, cfg, fx.deps)
	c := dialUDP(t, e)

	for range 10 {
		_, ok := c.ask(t, wire.Ping, waitFor)
		require.True(t, ok)
		time.Sleep(30 * time.Millisecond)
	}
	_, bound := peerOf(t, e)
	assert.True(t, bound)
}

func TestNew_UDPBindFailure(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	fx := newFixture(t)
	cfg := testConfig(ModeUDP)
	cfg.Port = pc.LocalAddr().(*net.UDPAddr).Port
	_, err = New(cfg, fx.deps)
	assert.Error(t, err)
}
