package network

import (
	"fmt"
	"sync/atomic"
)

// State is the lifecycle position of an engine.
type State int32

const (
	StateUninitialized State = iota
	StateBound
	StateRunning
	StateStopping
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBound:
		return "bound"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

type lifecycle struct {
	v atomic.Int32
}

func (l *lifecycle) load() State {
	return State(l.v.Load())
}

func (l *lifecycle) set(s State) {
	l.v.Store(int32(s))
}

func (l *lifecycle) transition(from, to State) bool {
	return l.v.CompareAndSwap(int32(from), int32(to))
}

// start moves Bound to Running, or explains why it cannot.
func (l *lifecycle) start() error {
	if l.transition(StateBound, StateRunning) {
		return nil
	}
	switch l.load() {
	case StateRunning:
		return ErrAlreadyStarted
	default:
		return ErrClosed
	}
}
