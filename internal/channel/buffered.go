// Package channel holds the bounded outbox used between the broadcaster and
// each subscriber's writer goroutine.
package channel

import "sync"

// Buffered is a bounded channel that tolerates sends after Close.
type Buffered[T any] struct {
	mu     sync.RWMutex
	ch     chan T
	closed bool
}

// NewBuffered creates a new buffered channel with the given size
func NewBuffered[T any](size int) *Buffered[T] {
	return &Buffered[T]{ch: make(chan T, size)}
}

// Send blocks until the value is buffered. Sends on a closed channel are
// discarded.
func (b *Buffered[T]) Send(v T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	b.ch <- v
}

// TrySend buffers v if there is room. It returns false when the buffer is
// full or the channel is closed.
func (b *Buffered[T]) TrySend(v T) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return false
	}
	select {
	case b.ch <- v:
		return true
	default:
		return false
	}
}

// Receive returns the receive-only channel
func (b *Buffered[T]) Receive() <-chan T {
	return b.ch
}

// Len returns the number of items currently in the buffer
func (b *Buffered[T]) Len() int {
	return len(b.ch)
}

// Cap returns the buffer size.
func (b *Buffered[T]) Cap() int {
	return cap(b.ch)
}

// Close closes the channel. It is safe to call more than once.
func (b *Buffered[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
}
