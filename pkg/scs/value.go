// Package scs describes the producer-side interface of the simulation engine:
// typed channel values, named attribute batches, events and the registration
// calls a telemetry plugin uses to subscribe to them.
package scs

import "fmt"

// ValueKind tags the payload carried by a Value.
// The numbering follows the engine's value type identifiers.
type ValueKind uint32

const (
	KindInvalid ValueKind = iota
	KindBool
	KindS32
	KindU32
	KindU64
	KindFloat
	KindDouble
	KindFVector
	KindDVector
	KindEuler
	KindFPlacement
	KindDPlacement
	KindString
	KindS64
)

var kindNames = map[ValueKind]string{
	KindInvalid:    "invalid",
	KindBool:       "bool",
	KindS32:        "s32",
	KindU32:        "u32",
	KindU64:        "u64",
	KindFloat:      "float",
	KindDouble:     "double",
	KindFVector:    "fvector",
	KindDVector:    "dvector",
	KindEuler:      "euler",
	KindFPlacement: "fplacement",
	KindDPlacement: "dplacement",
	KindString:     "string",
	KindS64:        "s64",
}

func (k ValueKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint32(k))
}

// Valid reports whether k is one of the kinds the engine can deliver.
func (k ValueKind) Valid() bool {
	return k > KindInvalid && k <= KindS64
}

// IndexNil marks a channel or attribute that is not indexed.
const IndexNil uint32 = 0xFFFFFFFF

// FVector is a single precision 3-vector.
type FVector struct {
	X, Y, Z float32
}

// DVector is a double precision 3-vector.
type DVector struct {
	X, Y, Z float64
}

// Euler is an orientation in engine units, where 1.0 is a full turn.
type Euler struct {
	Heading, Pitch, Roll float32
}

// FPlacement is a single precision position plus orientation.
type FPlacement struct {
	Position    FVector
	Orientation Euler
}

// DPlacement is a double precision position plus orientation.
type DPlacement struct {
	Position    DVector
	Orientation Euler
}

// Value is a tagged union over every kind the engine delivers.
// Only the field matching Kind is meaningful.
type Value struct {
	Kind ValueKind

	Bool       bool
	S32        int32
	U32        uint32
	S64        int64
	U64        uint64
	Float      float32
	Double     float64
	FVector    FVector
	DVector    DVector
	Euler      Euler
	FPlacement FPlacement
	DPlacement DPlacement
	String     string
}

func BoolValue(v bool) Value       { return Value{Kind: KindBool, Bool: v} }
func S32Value(v int32) Value       { return Value{Kind: KindS32, S32: v} }
func U32Value(v uint32) Value      { return Value{Kind: KindU32, U32: v} }
func S64Value(v int64) Value       { return Value{Kind: KindS64, S64: v} }
func U64Value(v uint64) Value      { return Value{Kind: KindU64, U64: v} }
func FloatValue(v float32) Value   { return Value{Kind: KindFloat, Float: v} }
func DoubleValue(v float64) Value  { return Value{Kind: KindDouble, Double: v} }
func StringValue(v string) Value   { return Value{Kind: KindString, String: v} }
func FVectorValue(v FVector) Value { return Value{Kind: KindFVector, FVector: v} }
func DVectorValue(v DVector) Value { return Value{Kind: KindDVector, DVector: v} }
func EulerValue(v Euler) Value     { return Value{Kind: KindEuler, Euler: v} }

func FPlacementValue(v FPlacement) Value { return Value{Kind: KindFPlacement, FPlacement: v} }
func DPlacementValue(v DPlacement) Value { return Value{Kind: KindDPlacement, DPlacement: v} }

// NamedValue is one attribute of a configuration or gameplay batch.
type NamedValue struct {
	Name  string
	Index uint32
	Value Value
}
