// Package schema models the runtime message-definition database: the
// per-message, per-field layout that drives body decoding and encoding.
// The database itself is treated as a read-only, already-parsed object
// handed to a Decoder/Encoder at construction (see the dbjson subpackage
// for turning a JSON definitions file into one).
package schema

// BaseType is the primitive wire type of a field.
type BaseType int

const (
	U8 BaseType = iota
	I8
	U16
	I16
	U32
	I32
	U64
	I64
	F32
	F64
	BOOL
	CHAR
	HEX_U32
	SATELLITE_ID
)

// Size returns the element size in bytes of a base type (1 for CHAR; a
// STRING field's width comes from its ArrayLength instead). It returns 0
// for an unrecognized value.
func (t BaseType) Size() int {
	switch t {
	case U8, I8, BOOL, CHAR:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32, HEX_U32:
		return 4
	case U64, I64, F64:
		return 8
	case SATELLITE_ID:
		return 4
	default:
		return 0
	}
}

func (t BaseType) String() string {
	switch t {
	case U8:
		return "U8"
	case I8:
		return "I8"
	case U16:
		return "U16"
	case I16:
		return "I16"
	case U32:
		return "U32"
	case I32:
		return "I32"
	case U64:
		return "U64"
	case I64:
		return "I64"
	case F32:
		return "F32"
	case F64:
		return "F64"
	case BOOL:
		return "BOOL"
	case CHAR:
		return "CHAR"
	case HEX_U32:
		return "HEX_U32"
	case SATELLITE_ID:
		return "SATELLITE_ID"
	default:
		return "UNKNOWN"
	}
}

// Storage is the cardinality/shape a field takes on the wire.
type Storage int

const (
	SIMPLE Storage = iota
	FIXED_ARRAY
	VAR_ARRAY
	STRING
	ENUM
	CLASS
	CLASS_ARRAY
)

func (s Storage) String() string {
	switch s {
	case SIMPLE:
		return "SIMPLE"
	case FIXED_ARRAY:
		return "FIXED_ARRAY"
	case VAR_ARRAY:
		return "VAR_ARRAY"
	case STRING:
		return "STRING"
	case ENUM:
		return "ENUM"
	case CLASS:
		return "CLASS"
	case CLASS_ARRAY:
		return "CLASS_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// EnumRef names the enum dictionary a field's values resolve against.
type EnumRef struct {
	Name string
}

// EnumDict maps an enum's numeric wire values to symbolic names and back.
type EnumDict struct {
	Name    string
	byValue map[uint32]string
	byName  map[string]uint32
}

// NewEnumDict builds a dictionary from an ordered set of (value, name) pairs.
func NewEnumDict(name string, members []EnumMember) *EnumDict {
	d := &EnumDict{
		Name:    name,
		byValue: make(map[uint32]string, len(members)),
		byName:  make(map[string]uint32, len(members)),
	}
	for _, m := range members {
		d.byValue[m.Value] = m.Name
		d.byName[m.Name] = m.Value
	}
	return d
}

// EnumMember is one (value, name) pair of an EnumDict.
type EnumMember struct {
	Value uint32
	Name  string
}

// NameOf resolves a numeric enum value to its symbolic name.
func (d *EnumDict) NameOf(value uint32) (string, bool) {
	name, ok := d.byValue[value]
	return name, ok
}

// ValueOf resolves a symbolic enum name back to its numeric wire value.
func (d *EnumDict) ValueOf(name string) (uint32, bool) {
	v, ok := d.byName[name]
	return v, ok
}

// FieldDescriptor is one entry in a message's field list, in wire order.
type FieldDescriptor struct {
	Name        string
	TypeName    string
	BaseType    BaseType
	Storage     Storage
	ElementSize int
	ArrayLength int
	EnumRef     *EnumRef
	// ChildCount is the number of subsequent descriptors that make up one
	// element of a CLASS or CLASS_ARRAY field.
	ChildCount int
}

// MessageDef is the ordered field layout and identity of one message.
type MessageDef struct {
	ID     uint16
	Name   string
	CRC    uint32
	Fields []FieldDescriptor
}

// Database is the immutable, read-only store of message definitions and
// enum dictionaries shared by every Decoder/Encoder instance.
type Database struct {
	byID   map[uint16]*MessageDef
	byName map[string]*MessageDef
	enums  map[string]*EnumDict
}

// New builds a Database from a flat set of message definitions and enum
// dictionaries. It is the construction path used directly by tests and by
// the dbjson loader.
func New(defs []*MessageDef, enums []*EnumDict) *Database {
	db := &Database{
		byID:   make(map[uint16]*MessageDef, len(defs)),
		byName: make(map[string]*MessageDef, len(defs)),
		enums:  make(map[string]*EnumDict, len(enums)),
	}
	for _, d := range defs {
		db.byID[d.ID] = d
		db.byName[d.Name] = d
	}
	for _, e := range enums {
		db.enums[e.Name] = e
	}
	return db
}

// DefinitionByID looks up a message definition by its numeric id.
func (db *Database) DefinitionByID(id uint16) (*MessageDef, bool) {
	d, ok := db.byID[id]
	return d, ok
}

// DefinitionByName looks up a message definition by its lowercase,
// suffix-stripped name.
func (db *Database) DefinitionByName(name string) (*MessageDef, bool) {
	d, ok := db.byName[name]
	return d, ok
}

// EnumByRef resolves a field's EnumRef to its dictionary.
func (db *Database) EnumByRef(ref *EnumRef) (*EnumDict, bool) {
	if ref == nil {
		return nil, false
	}
	d, ok := db.enums[ref.Name]
	return d, ok
}
