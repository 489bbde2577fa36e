package store

import (
	"math"

	"github.com/tstelemetry/server/pkg/scs"
	"github.com/tstelemetry/server/pkg/telemetry"
)

// Setter writes one channel value into the frame. Kind is the value kind the
// channel is registered with; Indexed channels use the index as wheel slot.
type Setter struct {
	Kind    scs.ValueKind
	Indexed bool
	apply   func(f *telemetry.Frame, index uint32, v scs.Value)
}

// turnsToDegrees converts engine orientation units (full turns) to degrees.
const turnsToDegrees = 360

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func vec3(v scs.DVector) telemetry.Vec3 {
	return telemetry.Vec3{X: finite(v.X), Y: finite(v.Y), Z: finite(v.Z)}
}

func fvec3(v scs.FVector) telemetry.Vec3 {
	return vec3(scs.DVector{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)})
}

func orientation(e scs.Euler) telemetry.Orientation {
	return telemetry.Orientation{
		Heading: finite(float64(e.Heading) * turnsToDegrees),
		Pitch:   finite(float64(e.Pitch) * turnsToDegrees),
		Roll:    finite(float64(e.Roll) * turnsToDegrees),
	}
}

func placement(p scs.DPlacement) telemetry.Placement {
	return telemetry.Placement{Position: vec3(p.Position), Orientation: orientation(p.Orientation)}
}

func boolean(field func(*telemetry.Frame) *bool) Setter {
	return Setter{Kind: scs.KindBool, apply: func(f *telemetry.Frame, _ uint32, v scs.Value) {
		*field(f) = v.Bool
	}}
}

func s32(field func(*telemetry.Frame) *int32) Setter {
	return Setter{Kind: scs.KindS32, apply: func(f *telemetry.Frame, _ uint32, v scs.Value) {
		*field(f) = v.S32
	}}
}

func u32(field func(*telemetry.Frame) *uint32) Setter {
	return Setter{Kind: scs.KindU32, apply: func(f *telemetry.Frame, _ uint32, v scs.Value) {
		*field(f) = v.U32
	}}
}

func double(field func(*telemetry.Frame) *float64) Setter {
	return Setter{Kind: scs.KindDouble, apply: func(f *telemetry.Frame, _ uint32, v scs.Value) {
		*field(f) = finite(v.Double)
	}}
}

func float(field func(*telemetry.Frame) *float64) Setter {
	return Setter{Kind: scs.KindFloat, apply: func(f *telemetry.Frame, _ uint32, v scs.Value) {
		*field(f) = finite(float64(v.Float))
	}}
}

func dvector(field func(*telemetry.Frame) *telemetry.Vec3) Setter {
	return Setter{Kind: scs.KindDVector, apply: func(f *telemetry.Frame, _ uint32, v scs.Value) {
		*field(f) = vec3(v.DVector)
	}}
}

func dplacement(field func(*telemetry.Frame) *telemetry.Placement) Setter {
	return Setter{Kind: scs.KindDPlacement, apply: func(f *telemetry.Frame, _ uint32, v scs.Value) {
		*field(f) = placement(v.DPlacement)
	}}
}

type wheelsOf func(*telemetry.Frame) *[telemetry.MaxWheelCount]telemetry.Wheel

func wheelDouble(wheels wheelsOf, field func(*telemetry.Wheel) *float64) Setter {
	return Setter{Kind: scs.KindDouble, Indexed: true, apply: func(f *telemetry.Frame, i uint32, v scs.Value) {
		*field(&wheels(f)[i]) = finite(v.Double)
	}}
}

func wheelBool(wheels wheelsOf, field func(*telemetry.Wheel) *bool) Setter {
	return Setter{Kind: scs.KindBool, Indexed: true, apply: func(f *telemetry.Frame, i uint32, v scs.Value) {
		*field(&wheels(f)[i]) = v.Bool
	}}
}

func wheelU32(wheels wheelsOf, field func(*telemetry.Wheel) *uint32) Setter {
	return Setter{Kind: scs.KindU32, Indexed: true, apply: func(f *telemetry.Frame, i uint32, v scs.Value) {
		*field(&wheels(f)[i]) = v.U32
	}}
}
