package main

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tstelemetry/server/pkg/scs"
)

const (
	simRate         = time.Second / 60
	simTollInterval = 30 * time.Second
)

type channelKey struct {
	name  string
	index uint32
}

type registration struct {
	kind scs.ValueKind
	cb   scs.ChannelCallback
}

// simGame stands in for the simulation engine. It accepts the plugin's
// registrations and drives them from a fixed rate loop with a made up drive.
type simGame struct {
	logger *slog.Logger

	mu       sync.Mutex
	channels map[channelKey]registration
	events   map[scs.Event]scs.EventCallback

	frames atomic.Uint64
}

func newSimGame(logger *slog.Logger) *simGame {
	return &simGame{
		logger:   logger,
		channels: make(map[channelKey]registration),
		events:   make(map[scs.Event]scs.EventCallback),
	}
}

func (g *simGame) RegisterChannel(name string, index uint32, kind scs.ValueKind, cb scs.ChannelCallback) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := channelKey{name, index}
	if _, ok := g.channels[key]; ok {
		return scs.ErrAlreadyRegistered
	}
	g.channels[key] = registration{kind: kind, cb: cb}
	return nil
}

func (g *simGame) RegisterEvent(event scs.Event, cb scs.EventCallback) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.events[event]; ok {
		return scs.ErrAlreadyRegistered
	}
	g.events[event] = cb
	return nil
}

func (g *simGame) UnregisterChannel(name string, index uint32) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := channelKey{name, index}
	if _, ok := g.channels[key]; !ok {
		return scs.ErrNotFound
	}
	delete(g.channels, key)
	return nil
}

func (g *simGame) UnregisterEvent(event scs.Event) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.events[event]; !ok {
		return scs.ErrNotFound
	}
	delete(g.events, event)
	return nil
}

// log receives the plugin's lines for the game log.
func (g *simGame) log(kind scs.LogType, msg string) {
	switch kind {
	case scs.LogError:
		g.logger.Error(msg, "source", "game")
	case scs.LogWarning:
		g.logger.Warn(msg, "source", "game")
	default:
		g.logger.Info(msg, "source", "game")
	}
}

func (g *simGame) params() scs.InitParams {
	return scs.InitParams{
		GameName:    "Simulated Truck",
		GameID:      "sim",
		GameVersion: 0x00010000,
		Log:         g.log,
		Registrar:   g,
	}
}

// contextAttrs is the logging context provider. It takes no plugin locks.
func (g *simGame) contextAttrs() []slog.Attr {
	return []slog.Attr{slog.Uint64("simFrame", g.frames.Load())}
}

func (g *simGame) event(event scs.Event, info any) {
	g.mu.Lock()
	cb, ok := g.events[event]
	g.mu.Unlock()
	if ok {
		cb(event, info)
	}
}

// set publishes x on a registered channel in the kind it was registered with.
func (g *simGame) set(name string, index uint32, x float64) {
	g.mu.Lock()
	reg, ok := g.channels[channelKey{name, index}]
	g.mu.Unlock()
	if !ok {
		return
	}
	reg.cb(name, index, valueOf(reg.kind, x))
}

func (g *simGame) setValue(name string, index uint32, v scs.Value) {
	g.mu.Lock()
	reg, ok := g.channels[channelKey{name, index}]
	g.mu.Unlock()
	if ok {
		reg.cb(name, index, v)
	}
}

func valueOf(kind scs.ValueKind, x float64) scs.Value {
	switch kind {
	case scs.KindBool:
		return scs.BoolValue(x != 0)
	case scs.KindS32:
		return scs.S32Value(int32(x))
	case scs.KindU32:
		return scs.U32Value(uint32(x))
	case scs.KindU64:
		return scs.U64Value(uint64(x))
	case scs.KindS64:
		return scs.S64Value(int64(x))
	case scs.KindFloat:
		return scs.FloatValue(float32(x))
	default:
		return scs.DoubleValue(x)
	}
}

func configure(id string, attrs ...scs.NamedValue) scs.ConfigurationInfo {
	return scs.ConfigurationInfo{ID: id, Attributes: attrs}
}

func attr(name string, v scs.Value) scs.NamedValue {
	return scs.NamedValue{Name: name, Index: scs.IndexNil, Value: v}
}

// run drives the session until ctx is done.
func (g *simGame) run(ctx context.Context) {
	g.event(scs.EventConfiguration, configure(scs.ConfigTruck,
		attr(scs.AttrBrand, scs.StringValue("Simulated")),
		attr(scs.AttrName, scs.StringValue("Hauler 500")),
		attr(scs.AttrFuelCapacity, scs.FloatValue(800)),
		attr(scs.AttrRPMLimit, scs.FloatValue(2500)),
		attr(scs.AttrForwardGearCount, scs.U32Value(12)),
	))
	g.event(scs.EventConfiguration, configure(scs.ConfigJob,
		attr(scs.AttrCargo, scs.StringValue("Apples")),
		attr(scs.AttrSourceCity, scs.StringValue("Berlin")),
		attr(scs.AttrDestinationCity, scs.StringValue("Prague")),
		attr(scs.AttrIncome, scs.U64Value(12500)),
		attr(scs.AttrPlannedDistanceKm, scs.U32Value(350)),
	))
	g.event(scs.EventStarted, nil)
	g.set(scs.TruckEngineEnabled, scs.IndexNil, 1)

	ticker := time.NewTicker(simRate)
	defer ticker.Stop()

	start := time.Now()
	lastToll := start
	fuel := 600.0
	var x, z float64

	for {
		select {
		case <-ctx.Done():
			g.event(scs.EventPaused, nil)
			return
		case now := <-ticker.C:
			elapsed := now.Sub(start).Seconds()
			frame := g.frames.Add(1)

			g.event(scs.EventFrameStart, scs.FrameStartInfo{
				RenderTime:     uint64(now.Sub(start).Microseconds()),
				SimulationTime: uint64(now.Sub(start).Microseconds()),
			})

			speed := 22 + 3*math.Sin(elapsed/10)
			heading := math.Mod(elapsed/600, 1)
			x += speed * simRate.Seconds() * math.Sin(2*math.Pi*heading)
			z += speed * simRate.Seconds() * math.Cos(2*math.Pi*heading)
			fuel = math.Max(0, fuel-speed*0.00001)

			g.set(scs.ChannelGameTime, scs.IndexNil, float64(frame/60))
			g.set(scs.TruckSpeed, scs.IndexNil, speed)
			g.set(scs.TruckEngineRPM, scs.IndexNil, 1100+speed*20)
			g.set(scs.TruckEngineGear, scs.IndexNil, 11)
			g.set(scs.TruckInputThrottle, scs.IndexNil, 0.4)
			g.set(scs.TruckFuel, scs.IndexNil, fuel)
			g.setValue(scs.TruckWorldPlacement, scs.IndexNil, scs.DPlacementValue(scs.DPlacement{
				Position:    scs.DVector{X: x, Z: z},
				Orientation: scs.Euler{Heading: float32(heading)},
			}))

			g.event(scs.EventFrameEnd, nil)

			if now.Sub(lastToll) >= simTollInterval {
				lastToll = now
				g.event(scs.EventGameplay, scs.GameplayInfo{
					ID:         scs.GameplayTollgatePaid,
					Attributes: []scs.NamedValue{attr("pay.amount", scs.S64Value(45))},
				})
			}
		}
	}
}
