package store

import (
	"strings"

	"github.com/tstelemetry/server/pkg/scs"
	"github.com/tstelemetry/server/pkg/telemetry"
)

// attrOf converts an engine value into a gameplay attribute. Kinds outside
// the attribute set yield nil, which serializes as zero.
func attrOf(v scs.Value) telemetry.Attr {
	switch v.Kind {
	case scs.KindString:
		return telemetry.AttrString(v.String)
	case scs.KindFloat:
		return telemetry.AttrFloat(v.Float)
	case scs.KindDouble:
		return telemetry.AttrDouble(v.Double)
	case scs.KindS32:
		return telemetry.AttrS32(v.S32)
	case scs.KindS64:
		return telemetry.AttrS64(v.S64)
	case scs.KindU32:
		return telemetry.AttrU32(v.U32)
	case scs.KindU64:
		return telemetry.AttrU64(v.U64)
	case scs.KindBool:
		return telemetry.AttrBool(v.Bool)
	default:
		return nil
	}
}

// HandleGameplay builds the event for a gameplay occurrence. Any job related
// event ends the current job, so the job aggregate is reset.
func (s *Store) HandleGameplay(info scs.GameplayInfo) telemetry.GameplayEvent {
	ev := telemetry.GameplayEvent{
		EventType:  info.ID,
		Attributes: make(map[string]telemetry.Attr, len(info.Attributes)),
	}
	for _, attr := range info.Attributes {
		ev.Attributes[attr.Name] = attrOf(attr.Value)
	}

	if strings.Contains(info.ID, "job") {
		s.mu.Lock()
		s.frame.Job = telemetry.Job{}
		s.mu.Unlock()
	}
	s.changed.Store(true)
	return ev
}
