package message

import "fmt"

// HexU32 is a 32-bit value always parsed and emitted in hexadecimal.
type HexU32 uint32

func (h HexU32) String() string { return fmt.Sprintf("%x", uint32(h)) }

// SatelliteID is the {prn_or_slot, freq_channel} pair ASCII-serialized as
// "prn", "prn+chan", or "prn-chan".
type SatelliteID struct {
	PRNOrSlot    uint16
	FreqChannel  int16
}

func (s SatelliteID) String() string {
	switch {
	case s.FreqChannel > 0:
		return fmt.Sprintf("%d+%d", s.PRNOrSlot, s.FreqChannel)
	case s.FreqChannel < 0:
		return fmt.Sprintf("%d-%d", s.PRNOrSlot, -s.FreqChannel)
	default:
		return fmt.Sprintf("%d", s.PRNOrSlot)
	}
}

// Field is one decoded entry in an intermediate message. A Message holds
// one Field per top-level descriptor, in descriptor order; the child
// descriptors of a CLASS or CLASS_ARRAY get no entry of their own at that
// level, their values live in the Elements of the class's Field.
//
// Exactly one of Scalar, Array, or Elements is populated, chosen by the
// descriptor's Storage:
//
//	SIMPLE/ENUM/STRING : Scalar holds the value (uint64/int64/float64/
//	                      bool/string/HexU32/SatelliteID as appropriate)
//	FIXED_ARRAY         : Array holds exactly ArrayLength elements
//	VAR_ARRAY           : Array holds RuntimeLen elements (RuntimeLen <= capacity)
//	CLASS               : Elements holds exactly one child Message
//	CLASS_ARRAY         : Elements holds RuntimeLen child Messages
type Field struct {
	Name     string
	Scalar   any
	Array    []any
	Elements []Message

	// RuntimeLen is the wire-carried occupancy of a VAR_ARRAY or
	// CLASS_ARRAY field; it is <= the schema's declared capacity.
	RuntimeLen int
}

// Message is an ordered sequence of typed field values, one per schema
// field at whatever nesting level it occurs.
type Message []Field

// ByName returns the first field with the given name, if any.
func (m Message) ByName(name string) (Field, bool) {
	for _, f := range m {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
