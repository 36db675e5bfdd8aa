package decoder

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/novatel/novadec/pkg/message"
	"github.com/novatel/novadec/pkg/schema"
)

// isBinaryFormat reports whether a format's body is laid out as packed
// little-endian binary rather than comma-separated ASCII text.
func isBinaryFormat(format message.Format) bool {
	return format == message.BINARY || format == message.SHORT_BINARY
}

// decodeBody walks def's field list against body according to format's
// wire shape, producing the intermediate field tree (C6).
func decodeBody(format message.Format, def *schema.MessageDef, body []byte) (message.Message, error) {
	if isBinaryFormat(format) {
		w := &binaryReader{format: format, buf: body}
		msg, err := w.readFields(def.Fields)
		if err != nil {
			return nil, err
		}
		return msg, nil
	}
	fields := splitASCIIFields(body)
	r := &asciiReader{format: format, fields: fields}
	msg, err := r.readFields(def.Fields)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// splitASCIIFields splits an ASCII body on every comma. Quoted strings and
// bracketed or parenthesized groups are not kept together: a comma inside
// one splits it like any other. Array fields are read as inline,
// comma-joined tokens, so splitting is purely
// positional: each descriptor consumes exactly one comma-delimited token
// except VAR_ARRAY/CLASS_ARRAY, which first consume a count token and
// then that many further tokens (or ChildCount-many each, for classes).
func splitASCIIFields(body []byte) []string {
	if len(body) == 0 {
		return nil
	}
	return strings.Split(string(body), ",")
}

// ---- binary body reading ----

type binaryReader struct {
	format message.Format
	buf    []byte
	pos    int
}

func (r *binaryReader) remaining() int { return len(r.buf) - r.pos }

func (r *binaryReader) take(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, message.New(message.UnexpectedEndOfMessage, r.format, r.buf, fmt.Errorf("need %d bytes, have %d", n, r.remaining()))
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *binaryReader) readFields(fields []schema.FieldDescriptor) (message.Message, error) {
	msg := make(message.Message, 0, len(fields))
	i := 0
	for i < len(fields) {
		fd := fields[i]
		switch fd.Storage {
		case schema.SIMPLE, schema.ENUM:
			v, err := r.readScalar(fd)
			if err != nil {
				return nil, err
			}
			msg = append(msg, message.Field{Name: fd.Name, Scalar: v})
			i++

		case schema.STRING:
			b, err := r.take(fd.ArrayLength)
			if err != nil {
				return nil, err
			}
			msg = append(msg, message.Field{Name: fd.Name, Scalar: cString(b)})
			i++

		case schema.FIXED_ARRAY:
			vals := make([]any, 0, fd.ArrayLength)
			for n := 0; n < fd.ArrayLength; n++ {
				v, err := r.readScalar(fd)
				if err != nil {
					return nil, err
				}
				vals = append(vals, v)
			}
			msg = append(msg, message.Field{Name: fd.Name, Array: vals})
			i++

		case schema.VAR_ARRAY:
			countBytes, err := r.take(4)
			if err != nil {
				return nil, err
			}
			count := int(le32(countBytes))
			if count > fd.ArrayLength {
				return nil, message.New(message.UnexpectedEndOfMessage, r.format, r.buf, fmt.Errorf("var array %s runtime length %d exceeds capacity %d", fd.Name, count, fd.ArrayLength))
			}
			vals := make([]any, 0, count)
			for n := 0; n < count; n++ {
				v, err := r.readScalar(fd)
				if err != nil {
					return nil, err
				}
				vals = append(vals, v)
			}
			msg = append(msg, message.Field{Name: fd.Name, Array: vals, RuntimeLen: count})
			i++

		case schema.CLASS:
			child := fields[i+1 : i+1+fd.ChildCount]
			elem, err := r.readFields(child)
			if err != nil {
				return nil, err
			}
			msg = append(msg, message.Field{Name: fd.Name, Elements: []message.Message{elem}})
			i += 1 + fd.ChildCount

		case schema.CLASS_ARRAY:
			countBytes, err := r.take(4)
			if err != nil {
				return nil, err
			}
			count := int(le32(countBytes))
			if count > fd.ArrayLength {
				return nil, message.New(message.UnexpectedEndOfMessage, r.format, r.buf, fmt.Errorf("class array %s runtime length %d exceeds capacity %d", fd.Name, count, fd.ArrayLength))
			}
			child := fields[i+1 : i+1+fd.ChildCount]
			elems := make([]message.Message, 0, count)
			for n := 0; n < count; n++ {
				elem, err := r.readFields(child)
				if err != nil {
					return nil, err
				}
				elems = append(elems, elem)
			}
			msg = append(msg, message.Field{Name: fd.Name, Elements: elems, RuntimeLen: count})
			i += 1 + fd.ChildCount

		default:
			return nil, fmt.Errorf("decoder: unhandled storage kind %s", fd.Storage)
		}
	}
	return msg, nil
}

func (r *binaryReader) readScalar(fd schema.FieldDescriptor) (any, error) {
	size := fd.BaseType.Size()
	b, err := r.take(size)
	if err != nil {
		return nil, err
	}
	return decodeBinaryScalar(fd.BaseType, b)
}

func decodeBinaryScalar(bt schema.BaseType, b []byte) (any, error) {
	switch bt {
	case schema.U8:
		return uint64(b[0]), nil
	case schema.I8:
		return int64(int8(b[0])), nil
	case schema.U16:
		return uint64(le16(b)), nil
	case schema.I16:
		return int64(int16(le16(b))), nil
	case schema.U32:
		return uint64(le32(b)), nil
	case schema.I32:
		return int64(int32(le32(b))), nil
	case schema.U64:
		return le64(b), nil
	case schema.I64:
		return int64(le64(b)), nil
	case schema.F32:
		return float64(math.Float32frombits(le32(b))), nil
	case schema.F64:
		return math.Float64frombits(le64(b)), nil
	case schema.BOOL:
		return b[0] != 0, nil
	case schema.CHAR:
		return b[0], nil
	case schema.HEX_U32:
		return message.HexU32(le32(b)), nil
	case schema.SATELLITE_ID:
		return message.SatelliteID{PRNOrSlot: le16(b[0:2]), FreqChannel: int16(le16(b[2:4]))}, nil
	default:
		return nil, fmt.Errorf("decoder: unhandled base type %s", bt)
	}
}

func le64(p []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(p[i])
	}
	return v
}

func cString(b []byte) string {
	if nul := indexByte(b, 0); nul >= 0 {
		b = b[:nul]
	}
	return string(b)
}

// ---- ASCII body reading ----

type asciiReader struct {
	format message.Format
	fields []string
	pos    int
}

func (r *asciiReader) next() (string, error) {
	if r.pos >= len(r.fields) {
		return "", message.New(message.UnexpectedEndOfMessage, r.format, nil, fmt.Errorf("ran out of ASCII fields"))
	}
	v := r.fields[r.pos]
	r.pos++
	return v, nil
}

func (r *asciiReader) readFields(fields []schema.FieldDescriptor) (message.Message, error) {
	msg := make(message.Message, 0, len(fields))
	i := 0
	for i < len(fields) {
		fd := fields[i]
		switch fd.Storage {
		case schema.SIMPLE, schema.ENUM:
			tok, err := r.next()
			if err != nil {
				return nil, err
			}
			v, err := parseASCIIScalar(fd, tok)
			if err != nil {
				return nil, invalidASCIIField(r.format, fd.Name, tok, err)
			}
			msg = append(msg, message.Field{Name: fd.Name, Scalar: v})
			i++

		case schema.STRING:
			tok, err := r.next()
			if err != nil {
				return nil, err
			}
			msg = append(msg, message.Field{Name: fd.Name, Scalar: strings.Trim(tok, "\"")})
			i++

		case schema.FIXED_ARRAY:
			vals := make([]any, 0, fd.ArrayLength)
			for n := 0; n < fd.ArrayLength; n++ {
				tok, err := r.next()
				if err != nil {
					return nil, err
				}
				v, err := parseASCIIScalar(fd, tok)
				if err != nil {
					return nil, invalidASCIIField(r.format, fd.Name, tok, err)
				}
				vals = append(vals, v)
			}
			msg = append(msg, message.Field{Name: fd.Name, Array: vals})
			i++

		case schema.VAR_ARRAY:
			countTok, err := r.next()
			if err != nil {
				return nil, err
			}
			count, err := strconv.Atoi(countTok)
			if err != nil {
				return nil, invalidASCIIField(r.format, fd.Name, countTok, err)
			}
			if count > fd.ArrayLength {
				return nil, message.New(message.UnexpectedEndOfMessage, r.format, nil, fmt.Errorf("var array %s runtime length %d exceeds capacity %d", fd.Name, count, fd.ArrayLength))
			}
			vals := make([]any, 0, count)
			for n := 0; n < count; n++ {
				tok, err := r.next()
				if err != nil {
					return nil, err
				}
				v, err := parseASCIIScalar(fd, tok)
				if err != nil {
					return nil, invalidASCIIField(r.format, fd.Name, tok, err)
				}
				vals = append(vals, v)
			}
			msg = append(msg, message.Field{Name: fd.Name, Array: vals, RuntimeLen: count})
			i++

		case schema.CLASS:
			child := fields[i+1 : i+1+fd.ChildCount]
			elem, err := r.readFields(child)
			if err != nil {
				return nil, err
			}
			msg = append(msg, message.Field{Name: fd.Name, Elements: []message.Message{elem}})
			i += 1 + fd.ChildCount

		case schema.CLASS_ARRAY:
			countTok, err := r.next()
			if err != nil {
				return nil, err
			}
			count, err := strconv.Atoi(countTok)
			if err != nil {
				return nil, invalidASCIIField(r.format, fd.Name, countTok, err)
			}
			if count > fd.ArrayLength {
				return nil, message.New(message.UnexpectedEndOfMessage, r.format, nil, fmt.Errorf("class array %s runtime length %d exceeds capacity %d", fd.Name, count, fd.ArrayLength))
			}
			child := fields[i+1 : i+1+fd.ChildCount]
			elems := make([]message.Message, 0, count)
			for n := 0; n < count; n++ {
				elem, err := r.readFields(child)
				if err != nil {
					return nil, err
				}
				elems = append(elems, elem)
			}
			msg = append(msg, message.Field{Name: fd.Name, Elements: elems, RuntimeLen: count})
			i += 1 + fd.ChildCount

		default:
			return nil, fmt.Errorf("decoder: unhandled storage kind %s", fd.Storage)
		}
	}
	return msg, nil
}

func invalidASCIIField(format message.Format, name, tok string, err error) error {
	return message.New(message.InvalidHeader, format, nil, fmt.Errorf("field %s: %q: %w", name, tok, err))
}

func parseASCIIScalar(fd schema.FieldDescriptor, tok string) (any, error) {
	switch fd.BaseType {
	case schema.U8, schema.U16, schema.U32, schema.U64:
		return strconv.ParseUint(tok, 10, 64)
	case schema.I8, schema.I16, schema.I32, schema.I64:
		return strconv.ParseInt(tok, 10, 64)
	case schema.F32, schema.F64:
		return strconv.ParseFloat(tok, 64)
	case schema.BOOL:
		return strconv.ParseBool(tok)
	case schema.CHAR:
		if len(tok) == 0 {
			return byte(0), nil
		}
		return tok[0], nil
	case schema.HEX_U32:
		v, err := strconv.ParseUint(tok, 16, 32)
		return message.HexU32(v), err
	case schema.SATELLITE_ID:
		return parseSatelliteID(tok)
	default:
		return nil, fmt.Errorf("unhandled base type %s", fd.BaseType)
	}
}

func parseSatelliteID(tok string) (message.SatelliteID, error) {
	sep := strings.IndexAny(tok, "+-")
	if sep <= 0 {
		prn, err := strconv.ParseUint(tok, 10, 16)
		return message.SatelliteID{PRNOrSlot: uint16(prn)}, err
	}
	prn, err := strconv.ParseUint(tok[:sep], 10, 16)
	if err != nil {
		return message.SatelliteID{}, err
	}
	ch, err := strconv.ParseInt(tok[sep+1:], 10, 16)
	if err != nil {
		return message.SatelliteID{}, err
	}
	if tok[sep] == '-' {
		ch = -ch
	}
	return message.SatelliteID{PRNOrSlot: uint16(prn), FreqChannel: int16(ch)}, nil
}
