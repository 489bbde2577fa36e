package scs

import (
	"errors"
	"fmt"
)

// Telemetry API versions. A version is major<<16 | minor.
const (
	TelemetryVersion1_00 uint32 = 0x00010000
	TelemetryVersion1_01 uint32 = 0x00010001
)

// VersionString renders a packed API version as "major.minor".
func VersionString(v uint32) string {
	return fmt.Sprintf("%d.%02d", v>>16, v&0xFFFF)
}

// Event identifies a discrete engine occurrence.
type Event uint32

const (
	EventInvalid Event = iota
	EventFrameStart
	EventFrameEnd
	EventPaused
	EventStarted
	EventConfiguration
	EventGameplay
)

var eventNames = map[Event]string{
	EventInvalid:       "invalid",
	EventFrameStart:    "frame_start",
	EventFrameEnd:      "frame_end",
	EventPaused:        "paused",
	EventStarted:       "started",
	EventConfiguration: "configuration",
	EventGameplay:      "gameplay",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", uint32(e))
}

// FrameStartInfo accompanies EventFrameStart.
type FrameStartInfo struct {
	Flags                uint32
	RenderTime           uint64
	SimulationTime       uint64
	PausedSimulationTime uint64
}

// ConfigurationInfo accompanies EventConfiguration. An empty attribute list
// means the configured object no longer exists.
type ConfigurationInfo struct {
	ID         string
	Attributes []NamedValue
}

// GameplayInfo accompanies EventGameplay.
type GameplayInfo struct {
	ID         string
	Attributes []NamedValue
}

// ChannelCallback receives a channel update. The engine calls it on the
// simulation thread and expects it to return quickly.
type ChannelCallback func(name string, index uint32, value Value)

// EventCallback receives a discrete event. info is one of the *Info types
// matching the event, or nil.
type EventCallback func(event Event, info any)

// Registrar is the registration surface the engine hands to a plugin.
type Registrar interface {
	RegisterChannel(name string, index uint32, kind ValueKind, cb ChannelCallback) error
	RegisterEvent(event Event, cb EventCallback) error
}

// Unregistrar is implemented by engines that can take registrations back.
type Unregistrar interface {
	UnregisterChannel(name string, index uint32) error
	UnregisterEvent(event Event) error
}

// LogType selects how the engine presents a log line.
type LogType int

const (
	LogMessage LogType = iota
	LogWarning
	LogError
)

// LogFunc writes a line into the engine's own log.
type LogFunc func(kind LogType, message string)

// InitParams is what the engine passes to the plugin's init entry point.
type InitParams struct {
	GameName    string
	GameID      string
	GameVersion uint32
	Log         LogFunc
	Registrar   Registrar
}

// Registration failures reported by a Registrar.
var (
	ErrNotFound          = errors.New("scs: channel or event not found")
	ErrUnsupported       = errors.New("scs: unsupported")
	ErrAlreadyRegistered = errors.New("scs: already registered")
)
