// Package encoder implements the symmetric counterpart to pkg/decoder:
// given a canonical header and intermediate message, it re-serializes
// them into any of the wire formats pkg/decoder can parse.
package encoder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/novatel/novadec/internal/metrics"
	"github.com/novatel/novadec/pkg/crc"
	"github.com/novatel/novadec/pkg/message"
	"github.com/novatel/novadec/pkg/schema"
)

// Sink is the output-stream collaborator an encoded frame is written to.
// Implementations may track routing metadata (name, time, size) for an
// external splitter; the core encoder itself has no opinion on where
// bytes end up.
type Sink interface {
	Write(frame []byte) (n int, err error)
}

// Encoder re-serializes canonical headers and intermediate messages
// against a shared message-definition database.
type Encoder struct {
	db      *schema.Database
	metrics *metrics.Metrics
}

// New constructs an Encoder against db, which must be the same database
// (or an equivalent one) the originating Decoder used.
func New(db *schema.Database) *Encoder {
	return &Encoder{db: db}
}

// UseMetrics attaches a counters sink; nil disables counting.
func (e *Encoder) UseMetrics(m *metrics.Metrics) { e.metrics = m }

// Encode renders hdr/body as format's wire bytes.
func (e *Encoder) Encode(hdr *message.Header, body message.Message, format message.Format) ([]byte, error) {
	var (
		frame []byte
		err   error
	)
	switch format {
	case message.BINARY:
		frame, err = e.encodeBinary(hdr, body, binHeaderSize)
	case message.SHORT_BINARY:
		frame, err = e.encodeBinary(hdr, body, shortBinHeaderSize)
	case message.ASCII:
		frame, err = e.encodeASCII(hdr, body, false)
	case message.SHORT_ASCII:
		frame, err = e.encodeASCII(hdr, body, true)
	case message.ABBREV_ASCII:
		frame, err = e.encodeAbbrevASCII(hdr, body)
	case message.NMEA:
		frame, err = e.encodeNMEA(hdr, body)
	default:
		return nil, message.New(message.InvalidEncodeFormat, format, nil, fmt.Errorf("unsupported format"))
	}
	if err != nil {
		return nil, err
	}
	e.metrics.ObserveEncoded(format.String())
	return frame, nil
}

const (
	binHeaderSize      = 28
	shortBinHeaderSize = 12
)

func (e *Encoder) definitionFor(hdr *message.Header, format message.Format) (*schema.MessageDef, error) {
	if e.db == nil {
		return nil, message.New(message.InvalidEncodeFormat, format, nil, fmt.Errorf("no message-definition database configured"))
	}
	if def, ok := e.db.DefinitionByID(hdr.MessageID); ok {
		return def, nil
	}
	if def, ok := e.db.DefinitionByName(hdr.MessageName); ok {
		return def, nil
	}
	return nil, message.New(message.InvalidEncodeFormat, format, nil, fmt.Errorf("no schema entry for message %q (id %d)", hdr.MessageName, hdr.MessageID))
}

func (e *Encoder) encodeBinary(hdr *message.Header, body message.Message, hdrLen int) ([]byte, error) {
	def, err := e.definitionFor(hdr, boolFormat(hdrLen == binHeaderSize))
	if err != nil {
		return nil, err
	}
	bodyBytes, err := encodeBinaryBody(def.Fields, body)
	if err != nil {
		return nil, err
	}

	out := make([]byte, hdrLen)
	if hdrLen == binHeaderSize {
		out[0], out[1], out[2] = 0xAA, 0x44, 0x12
		out[3] = byte(binHeaderSize)
		putLE16(out[4:], hdr.MessageID)
		out[6] = msgTypeByte(hdr)
		out[7] = byte(hdr.Port)
		putLE16(out[8:], uint16(len(bodyBytes)))
		putLE16(out[10:], hdr.Sequence)
		out[12] = byte(hdr.IdleTimePercent / 0.5)
		out[13] = byte(hdr.TimeStatus)
		putLE16(out[14:], hdr.Week)
		putLE32(out[16:], hdr.Milliseconds)
		putLE32(out[20:], hdr.ReceiverStatus)
		putLE16(out[24:], uint16(hdr.MessageDefinitionCRC))
		putLE16(out[26:], hdr.ReceiverSWVersion)
	} else {
		out[0], out[1], out[2] = 0xAA, 0x44, 0x13
		out[3] = byte(len(bodyBytes))
		putLE16(out[4:], hdr.MessageID)
		putLE16(out[6:], hdr.Week)
		putLE32(out[8:], hdr.Milliseconds)
	}

	frame := append(out, bodyBytes...)
	sum := crc.Block(frame)
	frame = append(frame, byte(sum), byte(sum>>8), byte(sum>>16), byte(sum>>24))
	return frame, nil
}

func boolFormat(binary bool) message.Format {
	if binary {
		return message.BINARY
	}
	return message.SHORT_BINARY
}

func msgTypeByte(hdr *message.Header) byte {
	var b byte
	if hdr.IsResponse {
		b |= 0x80
	}
	if hdr.AntennaSource == message.SECONDARY {
		b |= 0x01
	}
	return b
}

func putLE16(p []byte, v uint16) { p[0] = byte(v); p[1] = byte(v >> 8) }
func putLE32(p []byte, v uint32) {
	p[0], p[1], p[2], p[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}

func (e *Encoder) encodeASCII(hdr *message.Header, body message.Message, short bool) ([]byte, error) {
	format := message.ASCII
	if short {
		format = message.SHORT_ASCII
	}
	def, err := e.definitionFor(hdr, format)
	if err != nil {
		return nil, err
	}
	bodyText, err := encodeASCIIBody(def.Fields, body)
	if err != nil {
		return nil, err
	}

	name := strings.ToUpper(hdr.MessageName)
	if !short {
		name += "A"
	}
	if hdr.AntennaSource == message.SECONDARY {
		name += "_1"
	}
	if hdr.IsResponse {
		name += "R"
	}

	var head string
	if short {
		head = fmt.Sprintf("%%%s,%d,%s", name, hdr.Week, formatSeconds(hdr.Milliseconds))
	} else {
		head = fmt.Sprintf("#%s,%d,%d,%.1f,%s,%d,%s,%08x,%04x,%d",
			name, hdr.Port, hdr.Sequence, hdr.IdleTimePercent, hdr.TimeStatus.String(),
			hdr.Week, formatSeconds(hdr.Milliseconds), hdr.ReceiverStatus, hdr.MessageDefinitionCRC, hdr.ReceiverSWVersion)
	}

	payload := head + ";" + bodyText
	// the CRC covers everything after the leading '#'/'%' sync character.
	sum := crc.Block([]byte(payload[1:]))
	return []byte(payload + "*" + crc.FormatASCII(sum) + "\r\n"), nil
}

func formatSeconds(ms uint32) string {
	return strconv.FormatFloat(float64(ms)/1000.0, 'f', 3, 64)
}

func (e *Encoder) encodeAbbrevASCII(hdr *message.Header, body message.Message) ([]byte, error) {
	if hdr.Format != message.ABBREV_ASCII {
		return nil, message.New(message.InvalidEncodeFormat, message.ABBREV_ASCII, nil, fmt.Errorf("header was not decoded as abbreviated ASCII"))
	}
	text, _ := body.ByName("text")
	s, _ := text.Scalar.(string)
	return []byte(s + "\r\n"), nil
}

func (e *Encoder) encodeNMEA(hdr *message.Header, body message.Message) ([]byte, error) {
	if !hdr.NMEA {
		return nil, message.New(message.InvalidEncodeFormat, message.NMEA, nil, fmt.Errorf("header was not decoded as NMEA"))
	}
	tokens := make([]string, len(body))
	for i, f := range body {
		s, _ := f.Scalar.(string)
		tokens[i] = s
	}
	payload := "$" + strings.Join(tokens, ",")
	sum, _ := crc.NMEAChecksum([]byte(payload + "*"))
	return []byte(payload + "*" + crc.FormatNMEA(sum) + "\r\n"), nil
}
