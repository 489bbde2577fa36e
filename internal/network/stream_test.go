package network

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tstelemetry/server/internal/queue"
	"github.com/tstelemetry/server/pkg/scs"
	"github.com/tstelemetry/server/pkg/wire"
)

type tcpClient struct {
	conn net.Conn
	sc   *bufio.Scanner
}

func dialTCP(t *testing.T, e Engine) *tcpClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", e.Addr().String(), waitFor)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &tcpClient{conn: conn, sc: wire.NewScanner(conn, 1<<20)}
}

func (c *tcpClient) next(t *testing.T) []byte {
	t.Helper()
	require.NoError(t, c.conn.SetReadDeadline(time.Now().Add(waitFor)))
	require.True(t, c.sc.Scan(), "no message: %v", c.sc.Err())
	return append([]byte(nil), c.sc.Bytes()...)
}

func TestStreamEngine_SpeedReachesSubscriber(t *testing.T) {
	fx := newFixture(t)
	e := startEngine(t, testConfig(ModeTCP), fx.deps)
	c := dialTCP(t, e)

	initial := decodeFrame(t, c.next(t))
	assert.Zero(t, initial.Truck.Speed)

	fx.store.ApplyChannelUpdate(scs.TruckSpeed, scs.IndexNil, scs.DoubleValue(42.5))
	fx.pushFrame(t)

	f := decodeFrame(t, c.next(t))
	assert.Equal(t, 42.5, f.Truck.Speed)
}

func TestStreamEngine_NewSubscriberGetsLastFrame(t *testing.T) {
	fx := newFixture(t)
	e := startEngine(t, testConfig(ModeTCP), fx.deps)

	first := dialTCP(t, e)
	first.next(t)

	fx.store.ApplyChannelUpdate(scs.TruckSpeed, scs.IndexNil, scs.DoubleValue(10))
	fx.pushFrame(t)
	assert.Equal(t, 10.0, decodeFrame(t, first.next(t)).Truck.Speed)

	// Not broadcast, so a new subscriber must still see 10.
	fx.store.ApplyChannelUpdate(scs.TruckSpeed, scs.IndexNil, scs.DoubleValue(99))

	second := dialTCP(t, e)
	assert.Equal(t, 10.0, decodeFrame(t, second.next(t)).Truck.Speed)
}

func TestStreamEngine_BroadcastsEventsInOrder(t *testing.T) {
	fx := newFixture(t)
	e := startEngine(t, testConfig(ModeTCP), fx.deps)
	a := dialTCP(t, e)
	b := dialTCP(t, e)
	a.next(t)
	b.next(t)
	require.Eventually(t, func() bool { return e.Status().Subscribers == 2 }, waitFor, time.Millisecond)

	fx.queue.Push(queue.Entry{Kind: queue.KindGameplay, Payload: wire.Terminate([]byte(`{"payloadType":"gameplayEvent","payload":1}`))})
	fx.queue.Push(queue.Entry{Kind: queue.KindEvent, Payload: wire.Terminate([]byte(`{"payloadType":"event","payload":2}`))})

	for _, c := range []*tcpClient{a, b} {
		env, err := wire.Decode(c.next(t))
		require.NoError(t, err)
		assert.Equal(t, wire.PayloadGameplayEvent, env.PayloadType)
		env, err = wire.Decode(c.next(t))
		require.NoError(t, err)
		assert.Equal(t, wire.PayloadEvent, env.PayloadType)
	}
}

func TestStreamEngine_RejectsOverCapacity(t *testing.T) {
	fx := newFixture(t)
	cfg := testConfig(ModeTCP)
	cfg.MaxSubscribers = 1
	e := startEngine(t, cfg, fx.deps)

	first := dialTCP(t, e)
	first.next(t)

	second := dialTCP(t, e)
	require.NoError(t, second.conn.SetReadDeadline(time.Now().Add(waitFor)))
	_, err := second.conn.Read(make([]byte, 1))
	require.Error(t, err)
	var ne net.Error
	assert.False(t, errors.As(err, &ne) && ne.Timeout(), "expected the server to close, got %v", err)
	assert.Equal(t, 1, e.Status().Subscribers)
}

func TestStreamEngine_RemovesDisconnected(t *testing.T) {
	fx := newFixture(t)
	e := startEngine(t, testConfig(ModeTCP), fx.deps)

	c := dialTCP(t, e)
	c.next(t)
	require.Equal(t, 1, e.Status().Subscribers)

	require.NoError(t, c.conn.Close())
	require.Eventually(t, func() bool { return e.Status().Subscribers == 0 }, waitFor, time.Millisecond)

	// A later broadcast with nobody connected is harmless.
	fx.pushFrame(t)
	assert.Eventually(t, func() bool { return fx.queue.Len() == 0 }, waitFor, time.Millisecond)
}

func TestStreamEngine_DropsSlowSubscriber(t *testing.T) {
	fx := newFixture(t)
	q, err := queue.NewEventQueue(0)
	require.NoError(t, err)
	fx.queue, fx.deps.Queue = q, q

	cfg := testConfig(ModeTCP)
	cfg.OutboxSize = 2
	cfg.SendTimeout = 200 * time.Millisecond
	e := startEngine(t, cfg, fx.deps)

	slow := dialTCP(t, e)
	require.NoError(t, slow.conn.(*net.TCPConn).SetReadBuffer(4096))
	fast := dialTCP(t, e)
	fast.next(t)
	require.Eventually(t, func() bool { return e.Status().Subscribers == 2 }, waitFor, time.Millisecond)

	pad := strings.Repeat("x", 256<<10)
	seq := 0
	send := func() {
		t.Helper()
		q.Push(queue.Entry{
			Kind:    queue.KindEvent,
			Payload: wire.Terminate(fmt.Appendf(nil, `{"payloadType":"event","payload":{"seq":%d,"pad":%q}}`, seq, pad)),
		})
		env, err := wire.Decode(fast.next(t))
		require.NoError(t, err)
		var p struct {
			Seq int `json:"seq"`
		}
		require.NoError(t, json.Unmarshal(env.Payload, &p))
		require.Equal(t, seq, p.Seq)
		seq++
	}

	for seq < 400 && e.Status().Subscribers == 2 {
		send()
	}
	require.Equal(t, 1, e.Status().Subscribers, "the slow subscriber was never dropped")

	for range 5 {
		send()
	}
	assert.Equal(t, 1, e.Status().Subscribers)
}

func TestStreamEngine_CloseDisconnectsSubscribers(t *testing.T) {
	fx := newFixture(t)
	e, err := New(testConfig(ModeTCP), fx.deps)
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- e.Run(t.Context()) }()
	require.Eventually(t, func() bool { return e.State() == StateRunning }, waitFor, time.Millisecond)

	c := dialTCP(t, e)
	c.next(t)

	require.NoError(t, e.Close())
	require.NoError(t, <-done)

	require.NoError(t, c.conn.SetReadDeadline(time.Now().Add(waitFor)))
	_, err = io.ReadAll(c.conn)
	assert.NoError(t, err)
}

func TestNew_BindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	fx := newFixture(t)
	cfg := testConfig(ModeTCP)
	cfg.Port = ln.Addr().(*net.TCPAddr).Port
	_, err = New(cfg, fx.deps)
	assert.Error(t, err)
}
