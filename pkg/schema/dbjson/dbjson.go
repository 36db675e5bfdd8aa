// Package dbjson parses the JSON message-definition database file into a
// *schema.Database. The core decoder never reads this file itself — it is
// handed an already-built *schema.Database — but nothing else in this
// module can produce one, so the loader lives here as the database's
// sole entry point from disk.
package dbjson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/novatel/novadec/pkg/schema"
)

// enumMemberJSON is one (value, name) pair as it appears in the database file.
type enumMemberJSON struct {
	Value uint32 `json:"value"`
	Name  string `json:"name"`
}

// enumJSON is one named enum dictionary.
type enumJSON struct {
	Name    string            `json:"name"`
	Members []enumMemberJSON  `json:"enumerators"`
}

// fieldJSON mirrors schema.FieldDescriptor on the wire.
type fieldJSON struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	BaseType    string `json:"baseType"`
	Storage     string `json:"storage"`
	ElementSize int    `json:"elementSize"`
	ArrayLength int     `json:"arrayLength,omitempty"`
	EnumRef     string  `json:"enumRef,omitempty"`
	ChildCount  int     `json:"childCount,omitempty"`
}

// messageJSON is one message definition as it appears in the database file.
type messageJSON struct {
	ID     uint16      `json:"id"`
	Name   string      `json:"name"`
	CRC    uint32      `json:"crc"`
	Fields []fieldJSON `json:"fields"`
}

// documentJSON is the top-level shape of the database file.
type documentJSON struct {
	Enums    []enumJSON    `json:"enums"`
	Messages []messageJSON `json:"messages"`
}

// LoadFile reads and parses a message-definition database file from disk.
func LoadFile(path string) (*schema.Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dbjson: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a message-definition database document from r.
func Load(r io.Reader) (*schema.Database, error) {
	var doc documentJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("dbjson: decode: %w", err)
	}

	enums := make([]*schema.EnumDict, 0, len(doc.Enums))
	for _, e := range doc.Enums {
		members := make([]schema.EnumMember, 0, len(e.Members))
		for _, m := range e.Members {
			members = append(members, schema.EnumMember{Value: m.Value, Name: m.Name})
		}
		enums = append(enums, schema.NewEnumDict(e.Name, members))
	}

	defs := make([]*schema.MessageDef, 0, len(doc.Messages))
	for _, m := range doc.Messages {
		fields := make([]schema.FieldDescriptor, 0, len(m.Fields))
		for _, f := range m.Fields {
			fd, err := toFieldDescriptor(f)
			if err != nil {
				return nil, fmt.Errorf("dbjson: message %s field %s: %w", m.Name, f.Name, err)
			}
			fields = append(fields, fd)
		}
		defs = append(defs, &schema.MessageDef{
			ID:     m.ID,
			Name:   strings.ToLower(m.Name),
			CRC:    m.CRC,
			Fields: fields,
		})
	}

	return schema.New(defs, enums), nil
}

func toFieldDescriptor(f fieldJSON) (schema.FieldDescriptor, error) {
	bt, err := parseBaseType(f.BaseType)
	if err != nil {
		return schema.FieldDescriptor{}, err
	}
	st, err := parseStorage(f.Storage)
	if err != nil {
		return schema.FieldDescriptor{}, err
	}
	fd := schema.FieldDescriptor{
		Name:        f.Name,
		TypeName:    f.Type,
		BaseType:    bt,
		Storage:     st,
		ElementSize: f.ElementSize,
		ArrayLength: f.ArrayLength,
		ChildCount:  f.ChildCount,
	}
	if f.EnumRef != "" {
		fd.EnumRef = &schema.EnumRef{Name: f.EnumRef}
	}
	if fd.ElementSize == 0 {
		fd.ElementSize = bt.Size()
	}
	return fd, nil
}

func parseBaseType(s string) (schema.BaseType, error) {
	switch strings.ToUpper(s) {
	case "U8":
		return schema.U8, nil
	case "I8":
		return schema.I8, nil
	case "U16":
		return schema.U16, nil
	case "I16":
		return schema.I16, nil
	case "U32":
		return schema.U32, nil
	case "I32":
		return schema.I32, nil
	case "U64":
		return schema.U64, nil
	case "I64":
		return schema.I64, nil
	case "F32":
		return schema.F32, nil
	case "F64":
		return schema.F64, nil
	case "BOOL":
		return schema.BOOL, nil
	case "CHAR":
		return schema.CHAR, nil
	case "HEX_U32":
		return schema.HEX_U32, nil
	case "SATELLITE_ID":
		return schema.SATELLITE_ID, nil
	default:
		return 0, fmt.Errorf("dbjson: unknown base type %q", s)
	}
}

func parseStorage(s string) (schema.Storage, error) {
	switch strings.ToUpper(s) {
	case "SIMPLE":
		return schema.SIMPLE, nil
	case "FIXED_ARRAY":
		return schema.FIXED_ARRAY, nil
	case "VAR_ARRAY":
		return schema.VAR_ARRAY, nil
	case "STRING":
		return schema.STRING, nil
	case "ENUM":
		return schema.ENUM, nil
	case "CLASS":
		return schema.CLASS, nil
	case "CLASS_ARRAY":
		return schema.CLASS_ARRAY, nil
	default:
		return 0, fmt.Errorf("dbjson: unknown storage kind %q", s)
	}
}
