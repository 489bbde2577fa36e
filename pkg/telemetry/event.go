package telemetry

// Attr is a gameplay event attribute value. The set of implementations is
// closed: AttrString, AttrFloat, AttrDouble, AttrS32, AttrS64, AttrU32,
// AttrU64 and AttrBool.
type Attr interface {
	isAttr()
}

type (
	AttrString string
	AttrFloat  float32
	AttrDouble float64
	AttrS32    int32
	AttrS64    int64
	AttrU32    uint32
	AttrU64    uint64
	AttrBool   bool
)

func (AttrString) isAttr() {}
func (AttrFloat) isAttr()  {}
func (AttrDouble) isAttr() {}
func (AttrS32) isAttr()    {}
func (AttrS64) isAttr()    {}
func (AttrU32) isAttr()    {}
func (AttrU64) isAttr()    {}
func (AttrBool) isAttr()   {}

// GameplayEvent is a one-off occurrence such as a delivered job or a fine.
// It is never merged into the Frame.
type GameplayEvent struct {
	EventType  string
	Attributes map[string]Attr
}
