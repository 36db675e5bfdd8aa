package decoder

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/novatel/novadec/pkg/message"
	"github.com/novatel/novadec/pkg/schema"
)

// flattenBinary produces the fixed-size record-per-message projection:
// every field occupies its declared capacity regardless of runtime
// length, so the result is suitable for downstream struct overlay.
func flattenBinary(fields []schema.FieldDescriptor, msg message.Message) ([]byte, error) {
	var out []byte
	for i, k := 0, 0; i < len(fields); k++ {
		fd := fields[i]
		if k >= len(msg) {
			return nil, fmt.Errorf("decoder: flatten: missing field %s", fd.Name)
		}
		f := msg[k]
		switch fd.Storage {
		case schema.SIMPLE, schema.ENUM:
			b, err := encodeBinaryScalar(fd.BaseType, f.Scalar)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)

		case schema.STRING:
			s, _ := f.Scalar.(string)
			out = append(out, padString(s, fd.ArrayLength)...)

		case schema.FIXED_ARRAY:
			for _, v := range f.Array {
				b, err := encodeBinaryScalar(fd.BaseType, v)
				if err != nil {
					return nil, err
				}
				out = append(out, b...)
			}

		case schema.VAR_ARRAY:
			out = append(out, leBytes32(uint32(f.RuntimeLen))...)
			for n := 0; n < fd.ArrayLength; n++ {
				if n < len(f.Array) {
					b, err := encodeBinaryScalar(fd.BaseType, f.Array[n])
					if err != nil {
						return nil, err
					}
					out = append(out, b...)
				} else {
					out = append(out, make([]byte, fd.BaseType.Size())...)
				}
			}

		case schema.CLASS:
			child := fields[i+1 : i+1+fd.ChildCount]
			var inner message.Message
			if len(f.Elements) > 0 {
				inner = f.Elements[0]
			}
			b, err := flattenBinary(child, inner)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)

		case schema.CLASS_ARRAY:
			out = append(out, leBytes32(uint32(f.RuntimeLen))...)
			child := fields[i+1 : i+1+fd.ChildCount]
			for n := 0; n < fd.ArrayLength; n++ {
				var inner message.Message
				if n < len(f.Elements) {
					inner = f.Elements[n]
				}
				b, err := flattenBinary(child, inner)
				if err != nil {
					return nil, err
				}
				out = append(out, b...)
			}
		}
		i++
		if fd.Storage == schema.CLASS || fd.Storage == schema.CLASS_ARRAY {
			i += fd.ChildCount
		}
	}
	return out, nil
}

func padString(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}

func leBytes32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func encodeBinaryScalar(bt schema.BaseType, v any) ([]byte, error) {
	switch bt {
	case schema.U8:
		return []byte{byte(toUint64(v))}, nil
	case schema.I8:
		return []byte{byte(int8(toInt64(v)))}, nil
	case schema.U16:
		u := uint16(toUint64(v))
		return []byte{byte(u), byte(u >> 8)}, nil
	case schema.I16:
		u := uint16(int16(toInt64(v)))
		return []byte{byte(u), byte(u >> 8)}, nil
	case schema.U32:
		return leBytes32(uint32(toUint64(v))), nil
	case schema.I32:
		return leBytes32(uint32(int32(toInt64(v)))), nil
	case schema.U64:
		return leBytes64(toUint64(v)), nil
	case schema.I64:
		return leBytes64(uint64(toInt64(v))), nil
	case schema.F32:
		f, _ := v.(float64)
		return leBytes32(math.Float32bits(float32(f))), nil
	case schema.F64:
		f, _ := v.(float64)
		return leBytes64(math.Float64bits(f)), nil
	case schema.BOOL:
		b, _ := v.(bool)
		if b {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case schema.CHAR:
		c, _ := v.(byte)
		return []byte{c}, nil
	case schema.HEX_U32:
		h, _ := v.(message.HexU32)
		return leBytes32(uint32(h)), nil
	case schema.SATELLITE_ID:
		s, _ := v.(message.SatelliteID)
		return leBytes32pair(s.PRNOrSlot, uint16(s.FreqChannel)), nil
	default:
		return nil, fmt.Errorf("decoder: unhandled base type %s", bt)
	}
}

func leBytes32pair(a, b uint16) []byte {
	return []byte{byte(a), byte(a >> 8), byte(b), byte(b >> 8)}
}

func leBytes64(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
	return b
}

func toUint64(v any) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case int64:
		return uint64(n)
	}
	return 0
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case uint64:
		return int64(n)
	}
	return 0
}

// projectJSON renders the intermediate message as a plain Go value tree
// (map[string]any / []any / scalars) matching §4.6's JSON projection
// rules, then marshals it.
func projectJSON(db *schema.Database, fields []schema.FieldDescriptor, msg message.Message) ([]byte, error) {
	v, err := projectValue(db, fields, msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func projectValue(db *schema.Database, fields []schema.FieldDescriptor, msg message.Message) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	i, k := 0, 0
	for i < len(fields) && k < len(msg) {
		fd := fields[i]
		f := msg[k]
		k++
		key := lastSegment(fd.Name)
		switch fd.Storage {
		case schema.SIMPLE:
			out[key] = projectScalar(fd, f.Scalar)
			i++
		case schema.ENUM:
			out[key] = projectEnum(db, fd, f.Scalar)
			i++
		case schema.STRING:
			out[key] = f.Scalar
			i++
		case schema.FIXED_ARRAY, schema.VAR_ARRAY:
			arr := make([]any, 0, len(f.Array))
			for _, v := range f.Array {
				arr = append(arr, projectArrayElement(db, fd, v))
			}
			out[key] = arr
			i++
		case schema.CLASS:
			child := fields[i+1 : i+1+fd.ChildCount]
			var inner message.Message
			if len(f.Elements) > 0 {
				inner = f.Elements[0]
			}
			obj, err := projectValue(db, child, inner)
			if err != nil {
				return nil, err
			}
			out[key] = obj
			i += 1 + fd.ChildCount
		case schema.CLASS_ARRAY:
			child := fields[i+1 : i+1+fd.ChildCount]
			arr := make([]any, 0, len(f.Elements))
			for _, elem := range f.Elements {
				obj, err := projectValue(db, child, elem)
				if err != nil {
					return nil, err
				}
				arr = append(arr, obj)
			}
			out[key] = arr
			i += 1 + fd.ChildCount
		default:
			i++
		}
	}
	return out, nil
}

func projectArrayElement(db *schema.Database, fd schema.FieldDescriptor, v any) any {
	if fd.EnumRef != nil {
		return projectEnum(db, fd, v)
	}
	return projectScalar(fd, v)
}

func projectScalar(fd schema.FieldDescriptor, v any) any {
	switch fd.BaseType {
	case schema.BOOL:
		b, _ := v.(bool)
		if b {
			return "TRUE"
		}
		return "FALSE"
	case schema.HEX_U32:
		h, _ := v.(message.HexU32)
		return h.String()
	case schema.SATELLITE_ID:
		s, _ := v.(message.SatelliteID)
		return s.String()
	default:
		return v
	}
}

func projectEnum(db *schema.Database, fd schema.FieldDescriptor, v any) any {
	if fd.EnumRef != nil && db != nil {
		if dict, ok := db.EnumByRef(fd.EnumRef); ok {
			if name, ok := dict.NameOf(uint32(toUint64(v))); ok {
				return name
			}
		}
	}
	return toUint64(v)
}

func lastSegment(name string) string {
	parts := strings.Split(name, ".")
	return parts[len(parts)-1]
}
