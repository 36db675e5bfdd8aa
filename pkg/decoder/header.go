package decoder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/novatel/novadec/pkg/classifier"
	"github.com/novatel/novadec/pkg/message"
)

// decodeHeader dispatches on frame's format and returns the canonical
// header plus the remaining body bytes (header and trailer stripped).
func decodeHeader(format message.Format, frame []byte) (*message.Header, []byte, error) {
	switch format {
	case message.BINARY:
		return decodeBinaryHeader(frame, binHeaderLen)
	case message.SHORT_BINARY:
		return decodeShortBinaryHeader(frame)
	case message.ASCII:
		return decodeASCIIHeader(frame)
	case message.SHORT_ASCII:
		return decodeShortASCIIHeader(frame)
	case message.ABBREV_ASCII:
		return decodeAbbrevASCIIHeader(frame)
	case message.NMEA:
		return decodeNMEAHeader(frame)
	default:
		return nil, nil, fmt.Errorf("decoder: unsupported header format %s", format)
	}
}

func decodeBinaryHeader(frame []byte, hdrLen int) (*message.Header, []byte, error) {
	if len(frame) < hdrLen+4 {
		return nil, nil, fmt.Errorf("decoder: binary frame shorter than header+crc")
	}
	h := frame[:hdrLen]
	msgID := le16(h[4:6])
	msgType := h[6]
	bodyLen := int(le16(h[8:10]))
	body := frame[hdrLen : hdrLen+bodyLen]

	hdr := &message.Header{
		MessageID:            msgID,
		Format:               message.BINARY,
		Port:                 message.Port(h[7]),
		Sequence:              le16(h[10:12]),
		IdleTimePercent:      float64(h[12]) * 0.5,
		TimeStatus:           message.TimeStatus(h[13]),
		Week:                 le16(h[14:16]),
		Milliseconds:         le32(h[16:20]),
		ReceiverStatus:       le32(h[20:24]),
		MessageDefinitionCRC: uint32(le16(h[24:26])),
		ReceiverSWVersion:    le16(h[26:28]),
		IsResponse:           msgType&0x80 != 0,
		AntennaSource:        antennaFromBit(msgType&0x01 != 0),
	}
	if hdr.IsResponse && len(body) >= 4 {
		hdr.ResponseID = int(int32(le32(body[:4])))
		hdr.IsErrorResponse = hdr.ResponseID != 1
	}
	return hdr, body, nil
}

func decodeShortBinaryHeader(frame []byte) (*message.Header, []byte, error) {
	if len(frame) < shortBinHeaderLen+4 {
		return nil, nil, fmt.Errorf("decoder: short binary frame shorter than header+crc")
	}
	h := frame[:shortBinHeaderLen]
	bodyLen := int(h[3])
	body := frame[shortBinHeaderLen : shortBinHeaderLen+bodyLen]

	hdr := &message.Header{
		MessageID:    le16(h[4:6]),
		Format:       message.SHORT_BINARY,
		Week:         le16(h[6:8]),
		Milliseconds: le32(h[8:12]),
	}
	return hdr, body, nil
}

func antennaFromBit(secondary bool) message.AntennaSource {
	if secondary {
		return message.SECONDARY
	}
	return message.PRIMARY
}

func le32(p []byte) uint32 {
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
}

// decodeASCIIHeader splits the header between '#' and ';' into exactly
// ten comma-separated fields.
func decodeASCIIHeader(frame []byte) (*message.Header, []byte, error) {
	semi := indexByteFrom(frame, ';', 1)
	if semi < 0 {
		return nil, nil, invalidHeader(message.ASCII, frame, fmt.Errorf("missing ';' terminator"))
	}
	fields := strings.Split(string(frame[1:semi]), ",")
	if len(fields) != 10 {
		return nil, nil, invalidHeader(message.ASCII, frame, fmt.Errorf("expected 10 header fields, got %d", len(fields)))
	}
	if fields[0] == "" {
		return nil, nil, invalidHeader(message.ASCII, frame, fmt.Errorf("empty message name"))
	}

	base, isResponse, antenna := splitASCIISuffixes(fields[0], message.ASCII)

	port, err := strconv.ParseUint(fields[1], 10, 8)
	var portVal message.Port
	if err != nil {
		portVal = portFromLabel(fields[1])
	} else {
		portVal = message.Port(port)
	}

	seq, err := strconv.ParseUint(fields[2], 10, 16)
	if err != nil {
		return nil, nil, invalidHeader(message.ASCII, frame, fmt.Errorf("sequence: %w", err))
	}
	idle, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return nil, nil, invalidHeader(message.ASCII, frame, fmt.Errorf("idle time: %w", err))
	}
	timeStatus, ok := timeStatusFromName(fields[4])
	if !ok {
		return nil, nil, invalidHeader(message.ASCII, frame, fmt.Errorf("unknown time status %q", fields[4]))
	}
	week, err := strconv.ParseUint(fields[5], 10, 16)
	if err != nil {
		return nil, nil, invalidHeader(message.ASCII, frame, fmt.Errorf("week: %w", err))
	}
	ms, err := foldSeconds(fields[6])
	if err != nil {
		return nil, nil, invalidHeader(message.ASCII, frame, fmt.Errorf("seconds: %w", err))
	}
	recvStatus, err := strconv.ParseUint(fields[7], 16, 32)
	if err != nil {
		return nil, nil, invalidHeader(message.ASCII, frame, fmt.Errorf("receiver status: %w", err))
	}
	msgDefCRC, err := strconv.ParseUint(fields[8], 16, 32)
	if err != nil {
		return nil, nil, invalidHeader(message.ASCII, frame, fmt.Errorf("message def crc: %w", err))
	}
	recvSW, err := strconv.ParseUint(fields[9], 10, 16)
	if err != nil {
		return nil, nil, invalidHeader(message.ASCII, frame, fmt.Errorf("receiver sw version: %w", err))
	}

	star := lastIndexByte(frame, '*')
	if star < 0 || star <= semi {
		return nil, nil, invalidHeader(message.ASCII, frame, fmt.Errorf("missing '*' crc separator"))
	}
	body := frame[semi+1 : star]

	hdr := &message.Header{
		MessageName:          base,
		Format:               message.ASCII,
		Port:                 portVal,
		Sequence:             uint16(seq),
		IdleTimePercent:      idle,
		TimeStatus:           timeStatus,
		Week:                 uint16(week),
		Milliseconds:         ms,
		ReceiverStatus:       uint32(recvStatus),
		MessageDefinitionCRC: uint32(msgDefCRC),
		ReceiverSWVersion:    uint16(recvSW),
		AntennaSource:        antenna,
		IsResponse:           isResponse,
		IsErrorResponse:      isResponse && strings.Contains(strings.ToUpper(base), "ERROR"),
	}
	return hdr, body, nil
}

// decodeShortASCIIHeader splits the header between '%' and ';' into
// exactly three comma-separated fields.
func decodeShortASCIIHeader(frame []byte) (*message.Header, []byte, error) {
	semi := indexByteFrom(frame, ';', 1)
	if semi < 0 {
		return nil, nil, invalidHeader(message.SHORT_ASCII, frame, fmt.Errorf("missing ';' terminator"))
	}
	fields := strings.Split(string(frame[1:semi]), ",")
	if len(fields) != 3 {
		return nil, nil, invalidHeader(message.SHORT_ASCII, frame, fmt.Errorf("expected 3 header fields, got %d", len(fields)))
	}
	if fields[0] == "" {
		return nil, nil, invalidHeader(message.SHORT_ASCII, frame, fmt.Errorf("empty message name"))
	}
	base, isResponse, antenna := splitASCIISuffixes(fields[0], message.SHORT_ASCII)

	week, err := strconv.ParseUint(fields[1], 10, 16)
	if err != nil {
		return nil, nil, invalidHeader(message.SHORT_ASCII, frame, fmt.Errorf("week: %w", err))
	}
	ms, err := foldSeconds(fields[2])
	if err != nil {
		return nil, nil, invalidHeader(message.SHORT_ASCII, frame, fmt.Errorf("seconds: %w", err))
	}

	star := lastIndexByte(frame, '*')
	if star < 0 || star <= semi {
		return nil, nil, invalidHeader(message.SHORT_ASCII, frame, fmt.Errorf("missing '*' crc separator"))
	}
	body := frame[semi+1 : star]

	hdr := &message.Header{
		MessageName:   base,
		Format:        message.SHORT_ASCII,
		Week:          uint16(week),
		Milliseconds:  ms,
		AntennaSource: antenna,
		IsResponse:    isResponse,
	}
	return hdr, body, nil
}

func decodeAbbrevASCIIHeader(frame []byte) (*message.Header, []byte, error) {
	text := strings.TrimRight(string(frame), "\r\n")
	hdr := &message.Header{
		MessageName:     "response",
		Format:          message.ABBREV_ASCII,
		IsResponse:      true,
		IsErrorResponse: strings.HasPrefix(text, "<ERROR:"),
	}
	return hdr, []byte(text), nil
}

func decodeNMEAHeader(frame []byte) (*message.Header, []byte, error) {
	star := lastIndexByte(frame, '*')
	if star < 0 {
		return nil, nil, invalidHeader(message.NMEA, frame, fmt.Errorf("missing '*' checksum separator"))
	}
	fields := strings.Split(string(frame[1:star]), ",")
	if len(fields) == 0 || fields[0] == "" {
		return nil, nil, invalidHeader(message.NMEA, frame, fmt.Errorf("empty message name"))
	}
	hdr := &message.Header{
		MessageName: strings.ToLower(fields[0]),
		Format:      message.NMEA,
		NMEA:        true,
	}
	return hdr, frame[1:star], nil
}

func invalidHeader(format message.Format, frame []byte, err error) error {
	return message.New(message.InvalidHeader, format, frame, err)
}

func indexByteFrom(p []byte, b byte, from int) int {
	if from > len(p) {
		return -1
	}
	idx := indexByte(p[from:], b)
	if idx < 0 {
		return -1
	}
	return idx + from
}

func indexByte(p []byte, b byte) int {
	for i, c := range p {
		if c == b {
			return i
		}
	}
	return -1
}

func lastIndexByte(p []byte, b byte) int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == b {
			return i
		}
	}
	return -1
}

// splitASCIISuffixes peels the response ('R'), antenna-source ('_1'),
// and (for long ASCII only) format ('A') suffixes off a wire message
// name, returning the database-matching base name.
func splitASCIISuffixes(name string, format message.Format) (base string, isResponse bool, antenna message.AntennaSource) {
	upper := strings.ToUpper(name)
	if strings.HasSuffix(upper, "R") && len(upper) > 1 {
		isResponse = true
		upper = upper[:len(upper)-1]
	}
	if strings.HasSuffix(upper, "_1") {
		antenna = message.SECONDARY
		upper = upper[:len(upper)-2]
	}
	if format == message.ASCII && strings.HasSuffix(upper, "A") && len(upper) > 1 {
		upper = upper[:len(upper)-1]
	}
	return strings.ToLower(upper), isResponse, antenna
}

func timeStatusFromName(name string) (message.TimeStatus, bool) {
	for _, ts := range []message.TimeStatus{
		message.TimeUnknown, message.TimeApproximate, message.TimeCoarseAdjusting,
		message.TimeCoarse, message.TimeCoarseSteering, message.TimeFreewheeling,
		message.TimeFineAdjusting, message.TimeFine, message.TimeFineBackupSteering,
		message.TimeFineSteering, message.TimeSatTime,
	} {
		if ts.String() == strings.ToUpper(name) {
			return ts, true
		}
	}
	return 0, false
}

// foldSeconds parses an ASCII "int.frac" seconds-of-week value and folds
// it into an integer millisecond count.
func foldSeconds(s string) (uint32, error) {
	parts := strings.SplitN(s, ".", 2)
	intPart, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, err
	}
	ms := intPart * 1000
	if len(parts) == 2 && parts[1] != "" {
		frac := parts[1]
		if len(frac) > 3 {
			frac = frac[:3]
		}
		for len(frac) < 3 {
			frac += "0"
		}
		fracMs, err := strconv.ParseUint(frac, 10, 32)
		if err != nil {
			return 0, err
		}
		ms += fracMs
	}
	return uint32(ms), nil
}

// portFromLabel maps a textual ASCII port label (e.g. "COM1") to the
// canonical Port enumeration, using the same allowlist the classifier
// recognizes in unknown-byte runs.
func portFromLabel(label string) message.Port {
	for i, v := range classifier.ValidPortLabels {
		if v == strings.ToUpper(label) {
			return message.Port(i + 1)
		}
	}
	return 0
}
