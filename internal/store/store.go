// Package store owns the live telemetry frame. Engine callbacks mutate it
// field by field through static dispatch tables; readers only ever get a
// copy.
package store

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tstelemetry/server/pkg/scs"
	"github.com/tstelemetry/server/pkg/telemetry"
)

// Store is the State Store. The zero value is not usable; use New.
type Store struct {
	mu      sync.Mutex
	frame   telemetry.Frame
	changed atomic.Bool

	channels map[string]Setter
	configs  map[string]map[string]configSetter
	log      zerolog.Logger
}

// New builds a store with a fresh paused frame. Warnings about rejected
// channel values are written to log.
func New(log zerolog.Logger) *Store {
	s := &Store{
		frame:    telemetry.NewFrame(),
		channels: buildChannelTable(),
		configs:  buildConfigTables(),
		log:      log,
	}
	s.changed.Store(true)
	return s
}

// Channels lists every channel registration the store can consume, indexed
// channels expanded once per wheel slot.
func (s *Store) Channels() []ChannelRegistration {
	return channelRegistrations(s.channels)
}

// ApplyChannelUpdate routes one channel value to its setter. Unknown
// channels are ignored. A value whose kind does not match the registered
// kind is dropped with a warning.
func (s *Store) ApplyChannelUpdate(name string, index uint32, v scs.Value) {
	setter, ok := s.channels[name]
	if !ok {
		return
	}
	if v.Kind != setter.Kind {
		s.log.Warn().Str("channel", name).Stringer("kind", v.Kind).Msg("Invalid channel value type!")
		return
	}
	if setter.Indexed && index >= telemetry.MaxWheelCount {
		return
	}

	s.mu.Lock()
	setter.apply(&s.frame, index, v)
	s.mu.Unlock()
	s.changed.Store(true)
}

// ApplyConfiguration applies a configuration batch and reports whether the
// configuration id is one the store tracks. An empty batch for a trailer or
// the job means the object is gone and resets it.
func (s *Store) ApplyConfiguration(info scs.ConfigurationInfo) bool {
	table, ok := s.configs[info.ID]
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.changed.Store(true)

	if len(info.Attributes) == 0 {
		if slot, ok := trailerSlot(info.ID); ok {
			s.frame.Trailers[slot] = telemetry.Trailer{}
			return true
		}
		if info.ID == scs.ConfigJob {
			s.frame.Job = telemetry.Job{}
			return true
		}
	}
	for _, attr := range info.Attributes {
		if set, ok := table[attr.Name]; ok {
			set(&s.frame, attr.Index, attr.Value)
		}
	}
	return true
}

// SetPaused records the simulation pause state.
func (s *Store) SetPaused(paused bool) {
	s.mu.Lock()
	s.frame.Paused = paused
	s.mu.Unlock()
	s.changed.Store(true)
}

// Snapshot returns a frozen copy of the frame.
func (s *Store) Snapshot() telemetry.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// MarkChanged flags the frame for transmission.
func (s *Store) MarkChanged() {
	s.changed.Store(true)
}

// Changed reports whether the frame changed since the last TakeChanged.
func (s *Store) Changed() bool {
	return s.changed.Load()
}

// TakeChanged clears the changed flag and reports its previous value.
func (s *Store) TakeChanged() bool {
	return s.changed.Swap(false)
}
