package dispatcher

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// testLogger implements Logger for testing
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) record(level, msg string, keysAndValues []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("%s: %s %v", level, msg, keysAndValues))
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) { l.record("DEBUG", msg, keysAndValues) }
func (l *testLogger) Info(msg string, keysAndValues ...any)  { l.record("INFO", msg, keysAndValues) }
func (l *testLogger) Error(msg string, keysAndValues ...any) { l.record("ERROR", msg, keysAndValues) }

func (l *testLogger) count(prefix string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.messages {
		if strings.HasPrefix(m, prefix) {
			n++
		}
	}
	return n
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *testLogger) {
	logger := &testLogger{}

	d, err := New(logger)
	if err != nil {
		t.Fatalf("failed to create dispatcher: %v", err)
	}
	t.Cleanup(d.Close)

	return d, logger
}

func TestDispatcher_SyncHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var got Event
	d.Register("configuration", func(e Event) error {
		got = e
		return nil
	})

	err := d.Dispatch(Event{Name: "configuration", Info: "truck"})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if got.Info != "truck" {
		t.Errorf("expected info 'truck', got %v", got.Info)
	}
	if got.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestDispatcher_UnknownEvent(t *testing.T) {
	d, _ := newTestDispatcher(t)

	err := d.Dispatch(Event{Name: "teleport"})

	if !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestDispatcher_BufferedHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var processed atomic.Int32
	var wg sync.WaitGroup
	wg.Add(3)

	d.Register("frame_end", func(e Event) error {
		processed.Add(1)
		wg.Done()
		return nil
	}, Buffered(100))

	for i := 0; i < 3; i++ {
		if err := d.Dispatch(Event{Name: "frame_end"}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}

	wg.Wait()

	if processed.Load() != 3 {
		t.Errorf("expected 3 processed, got %d", processed.Load())
	}
}

func TestDispatcher_BufferedDropsWhenFull(t *testing.T) {
	d, _ := newTestDispatcher(t)

	block := make(chan struct{})
	started := make(chan struct{}, 1)
	d.Register("frame_end", func(e Event) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-block
		return nil
	}, Buffered(2))

	// One being processed, two queued
	_ = d.Dispatch(Event{Name: "frame_end"})
	<-started
	_ = d.Dispatch(Event{Name: "frame_end"})
	_ = d.Dispatch(Event{Name: "frame_end"})

	err := d.Dispatch(Event{Name: "frame_end"})

	if !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}

	close(block)
}

func TestDispatcher_BufferedBlocking(t *testing.T) {
	d, _ := newTestDispatcher(t)

	block := make(chan struct{})
	started := make(chan struct{}, 1)
	d.Register("gameplay", func(e Event) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-block
		return nil
	}, Buffered(1), Blocking())

	// First event starts processing
	_ = d.Dispatch(Event{Name: "gameplay"})
	<-started
	// Second event fills the queue
	_ = d.Dispatch(Event{Name: "gameplay"})

	done := make(chan struct{})
	go func() {
		_ = d.Dispatch(Event{Name: "gameplay"})
		close(done)
	}()

	select {
	case <-done:
		t.Error("dispatch should have blocked")
	case <-time.After(50 * time.Millisecond):
	}

	close(block)
	<-done
}

func TestDispatcher_LoggedHandler(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("paused", func(e Event) error { return nil }, Logged())

	_ = d.Dispatch(Event{Name: "paused"})

	if n := logger.count("DEBUG"); n < 2 {
		t.Errorf("expected at least 2 debug messages, got %d", n)
	}
}

func TestDispatcher_LoggedHandlerError(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("started", func(e Event) error {
		return fmt.Errorf("test error")
	}, Logged())

	if err := d.Dispatch(Event{Name: "started"}); err == nil {
		t.Error("expected handler error to be returned")
	}

	if logger.count("ERROR") == 0 {
		t.Error("expected error log message")
	}
}

func TestDispatcher_BufferedErrorIsLogged(t *testing.T) {
	d, logger := newTestDispatcher(t)

	done := make(chan struct{})
	d.Register("gameplay", func(e Event) error {
		defer close(done)
		return errors.New("boom")
	}, Buffered(1))

	_ = d.Dispatch(Event{Name: "gameplay"})
	<-done
	d.Close()

	if logger.count("ERROR") != 1 {
		t.Errorf("expected one error log, got %v", logger.messages)
	}
}

func TestDispatcher_HasHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	d.Register("frame_start", func(e Event) error { return nil })

	if !d.HasHandler("frame_start") {
		t.Error("expected handler to exist")
	}

	if d.HasHandler("frame_middle") {
		t.Error("expected handler to not exist")
	}
}

func TestDispatcher_CloseDrainsAndRejects(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var processed atomic.Int32
	d.Register("gameplay", func(e Event) error {
		time.Sleep(time.Millisecond)
		processed.Add(1)
		return nil
	}, Buffered(10))

	for i := 0; i < 5; i++ {
		_ = d.Dispatch(Event{Name: "gameplay"})
	}
	d.Close()
	d.Close()

	if processed.Load() != 5 {
		t.Errorf("expected queued events to finish, got %d", processed.Load())
	}
	if err := d.Dispatch(Event{Name: "gameplay"}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestDispatcher_CombinedOptions(t *testing.T) {
	d, logger := newTestDispatcher(t)

	var wg sync.WaitGroup
	wg.Add(1)

	d.Register("configuration", func(e Event) error {
		wg.Done()
		return nil
	}, Buffered(100), Logged())

	if err := d.Dispatch(Event{Name: "configuration"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	wg.Wait()

	if n := logger.count("DEBUG"); n < 2 {
		t.Errorf("expected log messages, got %d", n)
	}
}
