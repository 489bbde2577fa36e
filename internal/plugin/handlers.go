package plugin

import (
	"fmt"

	"github.com/tstelemetry/server/internal/dispatcher"
	"github.com/tstelemetry/server/internal/queue"
	"github.com/tstelemetry/server/internal/serializer"
	"github.com/tstelemetry/server/pkg/scs"
)

func (s *session) registerHandlers() {
	d := s.dispatcher

	d.Register(scs.EventConfiguration.String(), s.onConfiguration, dispatcher.Logged())
	d.Register(scs.EventPaused.String(), s.onPauseChange(true))
	d.Register(scs.EventStarted.String(), s.onPauseChange(false))
	d.Register(scs.EventFrameStart.String(), func(dispatcher.Event) error { return nil })
	// Serialization runs off the simulation thread. While one frame is being
	// serialized the next frame_end is dropped; its changes ride along with
	// the following one.
	d.Register(scs.EventFrameEnd.String(), s.onFrameEnd, dispatcher.Buffered(1))
	d.Register(scs.EventGameplay.String(), s.onGameplay, dispatcher.Logged())
}

// infoAs unwraps event info delivered either by value or by pointer.
func infoAs[T any](info any) (T, bool) {
	switch v := info.(type) {
	case T:
		return v, true
	case *T:
		if v != nil {
			return *v, true
		}
	}
	var zero T
	return zero, false
}

func (s *session) onFrameEnd(dispatcher.Event) error {
	if !s.pushes || !s.store.TakeChanged() {
		return nil
	}
	f := s.store.Snapshot()
	b, err := serializer.SerializeFrame(&f)
	if err != nil {
		return err
	}
	s.queue.Push(queue.Entry{Kind: queue.KindFrame, Payload: b})
	return nil
}

func (s *session) onPauseChange(paused bool) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) error {
		s.store.SetPaused(paused)
		return s.pushEngineEvent(serializer.EngineEvent{Event: e.Name})
	}
}

func (s *session) onConfiguration(e dispatcher.Event) error {
	info, ok := infoAs[scs.ConfigurationInfo](e.Info)
	if !ok {
		return fmt.Errorf("configuration event carries %T", e.Info)
	}
	if !s.store.ApplyConfiguration(info) {
		return nil
	}
	return s.pushEngineEvent(serializer.EngineEvent{Event: e.Name, Configuration: info.ID})
}

func (s *session) onGameplay(e dispatcher.Event) error {
	info, ok := infoAs[scs.GameplayInfo](e.Info)
	if !ok {
		return fmt.Errorf("gameplay event carries %T", e.Info)
	}
	b, err := serializer.SerializeEvent(s.store.HandleGameplay(info))
	if err != nil {
		return err
	}
	s.queue.Push(queue.Entry{Kind: queue.KindGameplay, Payload: b})
	return nil
}

// pushEngineEvent queues an engine state change for push subscribers.
// The datagram transport has no way to ask for these, so they are skipped.
func (s *session) pushEngineEvent(ev serializer.EngineEvent) error {
	if !s.pushes {
		return nil
	}
	b, err := serializer.SerializeEngineEvent(ev)
	if err != nil {
		return err
	}
	s.queue.Push(queue.Entry{Kind: queue.KindEvent, Payload: b})
	return nil
}
