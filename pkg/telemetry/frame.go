// Package telemetry defines the live simulation snapshot served to consumers.
package telemetry

// Fixed capacities of the indexed parts of a Frame.
const (
	MaxWheelCount        = 14
	MaxTrailers          = 10
	MaxForwardGearRatios = 24
	MaxReverseGearRatios = 8
)

// Vec3 is a position, velocity or acceleration vector.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Orientation is expressed in degrees.
type Orientation struct {
	Heading float64 `json:"heading"`
	Pitch   float64 `json:"pitch"`
	Roll    float64 `json:"roll"`
}

// Placement is a position plus orientation.
type Placement struct {
	Position    Vec3        `json:"position"`
	Orientation Orientation `json:"orientation"`
}

// WheelConfig is the static part of a wheel, delivered by configuration events.
type WheelConfig struct {
	IsLiftable  bool    `json:"isLiftable"`
	Position    Vec3    `json:"position"`
	IsPowered   bool    `json:"isPowered"`
	Radius      float64 `json:"radius"`
	IsSimulated bool    `json:"isSimulated"`
	IsSteerable bool    `json:"isSteerable"`
}

// Wheel holds live per-wheel state.
type Wheel struct {
	Lift                 float64     `json:"lift"`
	LiftOffset           float64     `json:"liftOffset"`
	IsOnGround           bool        `json:"isOnGround"`
	Rotation             float64     `json:"rotation"`
	Steering             float64     `json:"steering"`
	Substance            uint32      `json:"substance"`
	SuspensionDeflection float64     `json:"suspensionDeflection"`
	Velocity             float64     `json:"velocity"`
	Config               WheelConfig `json:"config"`
}

// Frame is the whole known simulation state. Every aggregate is always
// present; an absent object is represented by zero values.
type Frame struct {
	GameTime              uint32               `json:"gameTime"`
	LocalScale            float64              `json:"localScale"`
	MultiplayerTimeOffset int32                `json:"multiplayerTimeOffset"`
	RestStop              int32                `json:"restStop"`
	Paused                bool                 `json:"paused"`
	TrailerCount          uint32               `json:"trailerCount"`
	Truck                 Truck                `json:"truck"`
	Trailers              [MaxTrailers]Trailer `json:"trailer"`
	Job                   Job                  `json:"job"`
}

// NewFrame returns the initial state: paused until the engine says otherwise.
func NewFrame() Frame {
	return Frame{Paused: true}
}

// ZeroWheelsFrom clears every wheel slot at or beyond count.
func ZeroWheelsFrom(wheels *[MaxWheelCount]Wheel, count uint32) {
	for i := int(min(count, MaxWheelCount)); i < MaxWheelCount; i++ {
		wheels[i] = Wheel{}
	}
}

// ZeroTrailersFrom clears every trailer slot at or beyond count.
func (f *Frame) ZeroTrailersFrom(count uint32) {
	for i := int(min(count, MaxTrailers)); i < MaxTrailers; i++ {
		f.Trailers[i] = Trailer{}
	}
}
