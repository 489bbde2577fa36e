// Package plugin ties the telemetry core to the simulation engine's
// lifecycle. Init registers every event and channel the store consumes and
// starts the network engine on its own goroutine; Shutdown undoes all of it.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tstelemetry/server/internal/config"
	"github.com/tstelemetry/server/internal/dispatcher"
	"github.com/tstelemetry/server/internal/logging"
	"github.com/tstelemetry/server/internal/monitor"
	"github.com/tstelemetry/server/internal/network"
	"github.com/tstelemetry/server/internal/queue"
	"github.com/tstelemetry/server/internal/store"
	"github.com/tstelemetry/server/pkg/scs"
)

// LogPrefix starts every line the plugin writes into the engine's log.
const LogPrefix = "TSTelemetryServer: "

var (
	// ErrUnsupportedVersion rejects a telemetry API other than 1.01.
	ErrUnsupportedVersion = errors.New("plugin: unsupported telemetry API version")
	// ErrRegistration means a required event could not be registered.
	ErrRegistration = errors.New("plugin: unable to register events")
	// ErrAlreadyInitialized is returned by a second Init without Shutdown.
	ErrAlreadyInitialized = errors.New("plugin: already initialized")
)

// requiredEvents are registered in this order and all of them must succeed.
var requiredEvents = []scs.Event{
	scs.EventConfiguration,
	scs.EventPaused,
	scs.EventStarted,
	scs.EventFrameStart,
	scs.EventFrameEnd,
	scs.EventGameplay,
}

// Config holds everything a session is built from.
type Config struct {
	Network network.Config
	Queue   config.QueueConfig
	Status  config.StatusConfig
}

// Plugin owns at most one running session.
type Plugin struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	session *session
}

// session is the state of one Init..Shutdown span.
type session struct {
	game       zerolog.Logger
	store      *store.Store
	queue      *queue.EventQueue
	dispatcher *dispatcher.Dispatcher
	engine     network.Engine
	monitor    *monitor.Service
	pushes     bool

	events   []scs.Event
	channels []store.ChannelRegistration

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a plugin that has not been initialized yet. logger receives
// the host side logs; the engine's own log is taken from InitParams.
func New(cfg Config, logger *slog.Logger) *Plugin {
	if logger == nil {
		logger = slog.Default()
	}
	return &Plugin{cfg: cfg, logger: logger}
}

// Init validates the API version, registers every event and channel and
// starts the network engine. On error nothing is left running.
func (p *Plugin) Init(version uint32, params scs.InitParams) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != nil {
		return ErrAlreadyInitialized
	}
	if version != scs.TelemetryVersion1_01 {
		p.logger.Warn("Rejecting telemetry API version", "version", scs.VersionString(version))
		return fmt.Errorf("%w: %s", ErrUnsupportedVersion, scs.VersionString(version))
	}
	if params.Registrar == nil {
		return errors.New("plugin: init params carry no registrar")
	}

	game := logging.NewGameLogger(prefixed(params.Log))

	s, err := p.newSession(game)
	if err != nil {
		game.Error().Msg(err.Error())
		return err
	}

	if err := s.registerEvents(params.Registrar); err != nil {
		game.Error().Msg("Unable to register events!")
		s.withdraw(params.Registrar)
		s.close()
		return err
	}
	registered := s.registerChannels(params.Registrar)

	engine, err := network.New(p.cfg.Network, network.Deps{
		Queue:  s.queue,
		Frames: s.store,
		Logger: p.logger,
	})
	if err != nil {
		game.Error().Msg(err.Error())
		s.withdraw(params.Registrar)
		s.close()
		return err
	}
	s.start(engine, p.logger)

	if p.cfg.Status.Enabled {
		s.monitor = monitor.NewService(monitor.Dependencies{
			Engine:   engine,
			Frames:   s.store,
			Logger:   p.logger,
			File:     p.cfg.Status.File,
			Interval: p.cfg.Status.Interval,
		})
		if err := s.monitor.Start(); err != nil {
			p.logger.Warn("Failed to start status monitor", "error", err)
			s.monitor = nil
		}
	}

	p.session = s
	game.Info().Msg("Plugin init complete!")
	p.logger.Info("Plugin initialized",
		"game", params.GameName,
		"gameID", params.GameID,
		"gameVersion", scs.VersionString(params.GameVersion),
		"mode", p.cfg.Network.Mode,
		"address", engine.Addr().String(),
		"channels", registered,
	)
	return nil
}

// Shutdown stops the network engine and releases its sockets. It is safe
// to call any number of times and before Init.
func (p *Plugin) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session == nil {
		return
	}
	p.session.close()
	p.session = nil
	p.logger.Info("Plugin shut down")
}

// Status describes the running engine. ok is false outside Init..Shutdown.
func (p *Plugin) Status() (status network.Status, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session == nil || p.session.engine == nil {
		return network.Status{}, false
	}
	return p.session.engine.Status(), true
}

func (p *Plugin) newSession(game zerolog.Logger) (*session, error) {
	q, err := queue.NewEventQueue(p.cfg.Queue.MaxEvents)
	if err != nil {
		return nil, err
	}
	d, err := dispatcher.New(logging.NewDispatcherLogger(game))
	if err != nil {
		return nil, err
	}

	s := &session{
		game:       game,
		store:      store.New(game),
		queue:      q,
		dispatcher: d,
		pushes:     p.cfg.Network.Mode.Pushes(),
	}
	s.registerHandlers()
	return s, nil
}

// prefixed tags engine log lines with LogPrefix.
func prefixed(fn scs.LogFunc) scs.LogFunc {
	if fn == nil {
		return nil
	}
	return func(kind scs.LogType, msg string) {
		fn(kind, LogPrefix+msg)
	}
}

func (s *session) registerEvents(r scs.Registrar) error {
	for _, ev := range requiredEvents {
		if err := r.RegisterEvent(ev, s.onEvent); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrRegistration, ev, err)
		}
		s.events = append(s.events, ev)
	}
	return nil
}

// registerChannels subscribes to every channel the store knows. Channels an
// older game does not publish fail to register and are skipped.
func (s *session) registerChannels(r scs.Registrar) int {
	registered := 0
	for _, ch := range s.store.Channels() {
		if err := r.RegisterChannel(ch.Name, ch.Index, ch.Kind, s.store.ApplyChannelUpdate); err != nil {
			continue
		}
		s.channels = append(s.channels, ch)
		registered++
	}
	return registered
}

// withdraw takes back every registration of a session that failed to
// initialize. Engines without an Unregistrar keep the callbacks, which then
// only reach a closed dispatcher.
func (s *session) withdraw(r scs.Registrar) {
	u, ok := r.(scs.Unregistrar)
	if !ok {
		return
	}
	for _, ch := range s.channels {
		if err := u.UnregisterChannel(ch.Name, ch.Index); err != nil {
			s.game.Debug().Err(err).Str("channel", ch.Name).Msg("Unable to unregister channel")
		}
	}
	for _, ev := range s.events {
		if err := u.UnregisterEvent(ev); err != nil {
			s.game.Debug().Err(err).Str("event", ev.String()).Msg("Unable to unregister event")
		}
	}
	s.events, s.channels = nil, nil
}

func (s *session) start(engine network.Engine, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	s.engine = engine
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		if err := engine.Run(ctx); err != nil {
			logger.Error("Network engine stopped", "error", err)
		}
	}()
}

// close tears down whatever part of the session was built.
func (s *session) close() {
	if s.monitor != nil {
		s.monitor.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.engine != nil {
		_ = s.engine.Close()
	}
	if s.done != nil {
		<-s.done
	}
	s.dispatcher.Close()
}

// onEvent is the callback handed to the engine for every required event.
// It runs on the simulation thread.
func (s *session) onEvent(event scs.Event, info any) {
	err := s.dispatcher.Dispatch(dispatcher.Event{Name: event.String(), Info: info})
	switch {
	case err == nil:
	case errors.Is(err, dispatcher.ErrQueueFull), errors.Is(err, dispatcher.ErrClosed):
		// a frame is still being serialized, or the session is gone
	default:
		s.game.Warn().Msg(err.Error())
	}
}
