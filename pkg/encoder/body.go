package encoder

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/novatel/novadec/pkg/message"
	"github.com/novatel/novadec/pkg/schema"
)

// encodeBinaryBody walks def's field list in the same order the decoder
// reads it, writing each value's actual wire width: runtime-length
// arrays are NOT padded to capacity here (compare flattenBinary's
// projection, which pads for a fixed record size).
func encodeBinaryBody(fields []schema.FieldDescriptor, msg message.Message) ([]byte, error) {
	var out []byte
	i, k := 0, 0
	for i < len(fields) {
		if k >= len(msg) {
			return nil, fmt.Errorf("encoder: missing field %s", fields[i].Name)
		}
		fd, f := fields[i], msg[k]
		k++
		switch fd.Storage {
		case schema.SIMPLE, schema.ENUM:
			b, err := encodeScalar(fd.BaseType, f.Scalar)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
			i++

		case schema.STRING:
			s, _ := f.Scalar.(string)
			buf := make([]byte, fd.ArrayLength)
			copy(buf, s)
			out = append(out, buf...)
			i++

		case schema.FIXED_ARRAY:
			for _, v := range f.Array {
				b, err := encodeScalar(fd.BaseType, v)
				if err != nil {
					return nil, err
				}
				out = append(out, b...)
			}
			i++

		case schema.VAR_ARRAY:
			out = append(out, le32bytes(uint32(len(f.Array)))...)
			for _, v := range f.Array {
				b, err := encodeScalar(fd.BaseType, v)
				if err != nil {
					return nil, err
				}
				out = append(out, b...)
			}
			i++

		case schema.CLASS:
			child := fields[i+1 : i+1+fd.ChildCount]
			var inner message.Message
			if len(f.Elements) > 0 {
				inner = f.Elements[0]
			}
			b, err := encodeBinaryBody(child, inner)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
			i += 1 + fd.ChildCount

		case schema.CLASS_ARRAY:
			out = append(out, le32bytes(uint32(len(f.Elements)))...)
			child := fields[i+1 : i+1+fd.ChildCount]
			for _, elem := range f.Elements {
				b, err := encodeBinaryBody(child, elem)
				if err != nil {
					return nil, err
				}
				out = append(out, b...)
			}
			i += 1 + fd.ChildCount
		}
	}
	return out, nil
}

func le32bytes(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func encodeScalar(bt schema.BaseType, v any) ([]byte, error) {
	switch bt {
	case schema.U8:
		return []byte{byte(asUint64(v))}, nil
	case schema.I8:
		return []byte{byte(int8(asInt64(v)))}, nil
	case schema.U16:
		u := uint16(asUint64(v))
		return []byte{byte(u), byte(u >> 8)}, nil
	case schema.I16:
		u := uint16(int16(asInt64(v)))
		return []byte{byte(u), byte(u >> 8)}, nil
	case schema.U32:
		return le32bytes(uint32(asUint64(v))), nil
	case schema.I32:
		return le32bytes(uint32(int32(asInt64(v)))), nil
	case schema.U64:
		return le64bytes(asUint64(v)), nil
	case schema.I64:
		return le64bytes(uint64(asInt64(v))), nil
	case schema.F32:
		f, _ := v.(float64)
		return le32bytes(math.Float32bits(float32(f))), nil
	case schema.F64:
		f, _ := v.(float64)
		return le64bytes(math.Float64bits(f)), nil
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
		return le32bytes(uint32(h)), nil
	case schema.SATELLITE_ID:
		s, _ := v.(message.SatelliteID)
		return []byte{byte(s.PRNOrSlot), byte(s.PRNOrSlot >> 8), byte(s.FreqChannel), byte(uint16(s.FreqChannel) >> 8)}, nil
	default:
		return nil, fmt.Errorf("encoder: unhandled base type %s", bt)
	}
}

func le64bytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
	return b
}

func asUint64(v any) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case int64:
		return uint64(n)
	}
	return 0
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case uint64:
		return int64(n)
	}
	return 0
}

// encodeASCIIBody renders def's field list as the comma-joined text body
// the ASCII/short-ASCII formats embed between ';' and '*'.
func encodeASCIIBody(fields []schema.FieldDescriptor, msg message.Message) (string, error) {
	var parts []string
	i, k := 0, 0
	for i < len(fields) {
		if k >= len(msg) {
			return "", fmt.Errorf("encoder: missing field %s", fields[i].Name)
		}
		fd, f := fields[i], msg[k]
		k++
		switch fd.Storage {
		case schema.SIMPLE, schema.ENUM:
			parts = append(parts, formatASCIIScalar(fd.BaseType, f.Scalar))
			i++
		case schema.STRING:
			s, _ := f.Scalar.(string)
			parts = append(parts, "\""+s+"\"")
			i++
		case schema.FIXED_ARRAY:
			for _, v := range f.Array {
				parts = append(parts, formatASCIIScalar(fd.BaseType, v))
			}
			i++
		case schema.VAR_ARRAY:
			parts = append(parts, strconv.Itoa(len(f.Array)))
			for _, v := range f.Array {
				parts = append(parts, formatASCIIScalar(fd.BaseType, v))
			}
			i++
		case schema.CLASS:
			child := fields[i+1 : i+1+fd.ChildCount]
			var inner message.Message
			if len(f.Elements) > 0 {
				inner = f.Elements[0]
			}
			s, err := encodeASCIIBody(child, inner)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
			i += 1 + fd.ChildCount
		case schema.CLASS_ARRAY:
			parts = append(parts, strconv.Itoa(len(f.Elements)))
			child := fields[i+1 : i+1+fd.ChildCount]
			for _, elem := range f.Elements {
				s, err := encodeASCIIBody(child, elem)
				if err != nil {
					return "", err
				}
				parts = append(parts, s)
			}
			i += 1 + fd.ChildCount
		}
	}
	return strings.Join(parts, ","), nil
}

func formatASCIIScalar(bt schema.BaseType, v any) string {
	switch bt {
	case schema.U8, schema.U16, schema.U32, schema.U64:
		return strconv.FormatUint(asUint64(v), 10)
	case schema.I8, schema.I16, schema.I32, schema.I64:
		return strconv.FormatInt(asInt64(v), 10)
	case schema.F32, schema.F64:
		f, _ := v.(float64)
		return strconv.FormatFloat(f, 'g', -1, 64)
	case schema.BOOL:
		b, _ := v.(bool)
		if b {
			return "TRUE"
		}
		return "FALSE"
	case schema.CHAR:
		c, _ := v.(byte)
		return string(rune(c))
	case schema.HEX_U32:
		h, _ := v.(message.HexU32)
		return h.String()
	case schema.SATELLITE_ID:
		s, _ := v.(message.SatelliteID)
		return s.String()
	default:
		return ""
	}
}
