// Package serializer renders frames and events into NUL-terminated wire
// envelopes.
package serializer

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/tstelemetry/server/pkg/telemetry"
	"github.com/tstelemetry/server/pkg/wire"
)

type envelope struct {
	PayloadType string `json:"payloadType"`
	Payload     any    `json:"payload"`
}

func encode(payloadType string, payload any) ([]byte, error) {
	b, err := json.Marshal(envelope{PayloadType: payloadType, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s: %w", payloadType, err)
	}
	return wire.Terminate(b), nil
}

// SerializeFrame renders a frame snapshot. Frames produced by the store hold
// only finite numbers, so the error is only reachable for hand-built frames.
func SerializeFrame(f *telemetry.Frame) ([]byte, error) {
	return encode(wire.PayloadFrame, f)
}

type compactTruck struct {
	*telemetry.Truck
	Wheels []telemetry.Wheel `json:"wheels"`
}

type compactTrailer struct {
	*telemetry.Trailer
	Wheels []telemetry.Wheel `json:"wheels"`
}

type compactFrame struct {
	*telemetry.Frame
	Truck    compactTruck     `json:"truck"`
	Trailers []compactTrailer `json:"trailer"`
}

// SerializeCompactFrame renders a frame with trailing all-zero trailer and
// wheel slots left out. Decoding it into a telemetry.Frame gives back the
// same frame as SerializeFrame.
func SerializeCompactFrame(f *telemetry.Frame) ([]byte, error) {
	c := compactFrame{
		Frame: f,
		Truck: compactTruck{Truck: &f.Truck, Wheels: usedWheels(&f.Truck.Wheels)},
	}
	n := len(f.Trailers)
	for n > 0 && f.Trailers[n-1] == (telemetry.Trailer{}) {
		n--
	}
	c.Trailers = make([]compactTrailer, n)
	for i := range n {
		t := &f.Trailers[i]
		c.Trailers[i] = compactTrailer{Trailer: t, Wheels: usedWheels(&t.Wheels)}
	}
	return encode(wire.PayloadFrame, c)
}

func usedWheels(wheels *[telemetry.MaxWheelCount]telemetry.Wheel) []telemetry.Wheel {
	n := len(wheels)
	for n > 0 && wheels[n-1] == (telemetry.Wheel{}) {
		n--
	}
	return wheels[:n]
}

// gameplayPayload is the wire form of a gameplay event.
type gameplayPayload struct {
	EventType  string         `json:"eventType"`
	Attributes map[string]any `json:"attributes"`
}

// SerializeEvent renders a gameplay event.
func SerializeEvent(ev telemetry.GameplayEvent) ([]byte, error) {
	p := gameplayPayload{
		EventType:  ev.EventType,
		Attributes: make(map[string]any, len(ev.Attributes)),
	}
	for name, a := range ev.Attributes {
		p.Attributes[name] = attrValue(a)
	}
	return encode(wire.PayloadGameplayEvent, p)
}

// EngineEvent is the payload of an "event" envelope: the engine paused,
// started or reconfigured something.
type EngineEvent struct {
	Event         string `json:"event"`
	Configuration string `json:"configuration,omitempty"`
}

// SerializeEngineEvent renders an engine state change.
func SerializeEngineEvent(ev EngineEvent) ([]byte, error) {
	return encode(wire.PayloadEvent, ev)
}

// attrValue unwraps an attribute for encoding. Unknown kinds and non-finite
// floats become numeric zero.
func attrValue(a telemetry.Attr) any {
	switch v := a.(type) {
	case telemetry.AttrString:
		return string(v)
	case telemetry.AttrFloat:
		return finite(float64(v))
	case telemetry.AttrDouble:
		return finite(float64(v))
	case telemetry.AttrS32:
		return int32(v)
	case telemetry.AttrS64:
		return int64(v)
	case telemetry.AttrU32:
		return uint32(v)
	case telemetry.AttrU64:
		return uint64(v)
	case telemetry.AttrBool:
		return bool(v)
	default:
		return 0
	}
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
