package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T, maxEvents int) *EventQueue {
	t.Helper()
	q, err := NewEventQueue(maxEvents)
	require.NoError(t, err)
	return q
}

func frame(p string) Entry { return Entry{Kind: KindFrame, Payload: []byte(p)} }
func event(p string) Entry { return Entry{Kind: KindGameplay, Payload: []byte(p)} }

func TestEventQueue_FramesCoalesce(t *testing.T) {
	q := newTestQueue(t, 0)

	q.Push(frame("F1"))
	q.Push(frame("F2"))
	q.Push(frame("F3"))

	require.Equal(t, 1, q.Len())
	got, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "F3", string(got.Payload))
}

func TestEventQueue_EventsKeepOrder(t *testing.T) {
	q := newTestQueue(t, 0)

	q.Push(event("E1"))
	q.Push(event("E2"))

	first, ok := q.Pop()
	require.True(t, ok)
	second, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "E1", string(first.Payload))
	assert.Equal(t, "E2", string(second.Payload))
	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestEventQueue_FrameMovesBehindEvents(t *testing.T) {
	q := newTestQueue(t, 0)

	q.Push(frame("F1"))
	q.Push(event("E1"))
	q.Push(frame("F2"))
	q.Push(Entry{Kind: KindEvent, Payload: []byte("E2")})

	var got []string
	for _, e := range q.Drain() {
		got = append(got, string(e.Payload))
	}
	assert.Equal(t, []string{"E1", "F2", "E2"}, got)
}

func TestEventQueue_BoundDropsOldestEvent(t *testing.T) {
	q := newTestQueue(t, 2)

	q.Push(event("E1"))
	q.Push(frame("F1"))
	q.Push(event("E2"))
	q.Push(event("E3"))

	var got []string
	for _, e := range q.Drain() {
		got = append(got, string(e.Payload))
	}
	assert.Equal(t, []string{"F1", "E2", "E3"}, got)
}

func TestEventQueue_PopWait(t *testing.T) {
	q := newTestQueue(t, 0)

	done := make(chan Entry, 1)
	go func() {
		e, err := q.PopWait(context.Background())
		if err == nil {
			done <- e
		}
	}()

	time.Sleep(10 * time.Millisecond)
	q.Push(event("late"))

	select {
	case e := <-done:
		assert.Equal(t, "late", string(e.Payload))
	case <-time.After(time.Second):
		t.Fatal("PopWait did not return after Push")
	}
}

func TestEventQueue_PopWaitCancelled(t *testing.T) {
	q := newTestQueue(t, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.PopWait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEventQueue_NotifyNeverBlocks(t *testing.T) {
	q := newTestQueue(t, 0)

	for range 100 {
		q.Push(event("x"))
	}
	select {
	case <-q.Notify():
	default:
		t.Fatal("expected a pending notification")
	}
	assert.Equal(t, 100, q.Len())
}

func TestEventQueue_ConcurrentProducers(t *testing.T) {
	q := newTestQueue(t, 0)
	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				q.Push(event("e"))
				q.Push(frame("f"))
			}
		}()
	}
	wg.Wait()

	frames, events := 0, 0
	for _, e := range q.Drain() {
		if e.Kind == KindFrame {
			frames++
		} else {
			events++
		}
	}
	assert.Equal(t, 1, frames)
	assert.Equal(t, 400, events)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "frame", KindFrame.String())
	assert.Equal(t, "gameplayEvent", KindGameplay.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
