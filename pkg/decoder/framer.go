package decoder

import (
	"bytes"

	"github.com/novatel/novadec/pkg/crc"
	"github.com/novatel/novadec/pkg/message"
)

// frameState is the framer's resynchronization state. States are driven
// by peeking at buffered bytes rather than a literal per-byte callback.
type frameState int

const (
	stWaitSync frameState = iota
	stWaitBinSync2
	stWaitBinSync3
	stWaitBinHdr
	stWaitShortBinHdr
	stWaitBinBodyCrc
	stWaitShortBinBodyCrc
	stWaitASCIIBody
	stWaitShortASCIIBody
	stWaitAbbASCIIBody
	stWaitNMEABody
)

const (
	binHeaderLen      = 28
	shortBinHeaderLen = 12
)

// step attempts one unit of forward progress against currently buffered
// bytes. It returns (result, true) when it has something to deliver, or
// (Result{}, false) when it needs more bytes than are currently buffered
// (the caller should pull more from the source and call step again).
func (d *Decoder) step() (Result, bool) {
	for {
		switch d.state {
		case stWaitSync:
			if d.buf.Length() == 0 {
				return Result{}, false
			}
			b, _ := d.buf.ByteAt(0)
			switch b {
			case 0xAA:
				d.crcState.Reset()
				d.crcState.Feed(b)
				d.cursor = 1
				d.state = stWaitBinSync2
			case '#':
				d.cursor = 1
				d.format = message.ASCII
				d.state = stWaitASCIIBody
			case '%':
				d.cursor = 1
				d.format = message.SHORT_ASCII
				d.state = stWaitShortASCIIBody
			case '$':
				d.cursor = 1
				d.format = message.NMEA
				d.state = stWaitNMEABody
			case '<':
				d.cursor = 1
				d.format = message.ABBREV_ASCII
				d.state = stWaitAbbASCIIBody
			default:
				d.unknown = append(d.unknown, b)
				d.buf.Discard(1)
				if len(d.unknown) >= readChunkSize {
					return Result{Kind: UnknownBytes, UnknownData: d.takeUnknown(), UnknownFormat: message.UNKNOWN}, true
				}
				continue
			}
			if len(d.unknown) > 0 {
				return Result{Kind: UnknownBytes, UnknownData: d.takeUnknown(), UnknownFormat: message.UNKNOWN}, true
			}
			continue

		case stWaitBinSync2:
			if d.buf.Length() < 2 {
				return Result{}, false
			}
			b, _ := d.buf.ByteAt(1)
			if b == 0x44 {
				d.crcState.Feed(b)
				d.cursor = 2
				d.state = stWaitBinSync3
				continue
			}
			d.rejectCandidate()
			continue

		case stWaitBinSync3:
			if d.buf.Length() < 3 {
				return Result{}, false
			}
			b, _ := d.buf.ByteAt(2)
			d.crcState.Feed(b)
			switch b {
			case 0x12:
				d.cursor = 3
				d.hdrLen = binHeaderLen
				d.format = message.BINARY
				d.state = stWaitBinHdr
			case 0x13:
				d.cursor = 3
				d.hdrLen = shortBinHeaderLen
				d.format = message.SHORT_BINARY
				d.state = stWaitShortBinHdr
			default:
				d.rejectCandidate()
			}
			continue

		case stWaitBinHdr, stWaitShortBinHdr:
			if d.buf.Length() < d.hdrLen {
				return Result{}, false
			}
			hdr := d.peek(d.hdrLen)
			for d.cursor < d.hdrLen {
				d.crcState.Feed(hdr[d.cursor])
				d.cursor++
			}
			if d.state == stWaitBinHdr {
				d.bodyLen = int(le16(hdr[8:10]))
				d.totalLen = binHeaderLen + d.bodyLen + 4
				d.state = stWaitBinBodyCrc
			} else {
				d.bodyLen = int(hdr[3])
				d.totalLen = shortBinHeaderLen + d.bodyLen + 4
				d.state = stWaitShortBinBodyCrc
			}
			continue

		case stWaitBinBodyCrc, stWaitShortBinBodyCrc:
			if d.buf.Length() < d.totalLen {
				return Result{}, false
			}
			frame := d.peek(d.totalLen)
			for d.cursor < d.totalLen {
				d.crcState.Feed(frame[d.cursor])
				d.cursor++
			}
			if d.cfg.SkipIntegrity || d.crcState.Sum() == 0 {
				d.buf.Discard(d.totalLen)
				format := d.format
				d.resetCandidate()
				return d.emitFrame(format, frame), true
			}
			d.rejectCandidate()
			continue

		case stWaitASCIIBody:
			return d.consumeLineTerminated(longASCIICap, crc.ValidASCII, nil)

		case stWaitShortASCIIBody:
			return d.consumeLineTerminated(longASCIICap, crc.ValidASCII, nil)

		case stWaitAbbASCIIBody:
			return d.consumeLineTerminated(shortFrameCap, nil, isAbbrevASCII)

		case stWaitNMEABody:
			return d.consumeLineTerminated(shortFrameCap, crc.ValidNMEA, nil)
		}
	}
}

// consumeLineTerminated implements the shared shape of the ASCII, short
// ASCII, abbreviated-ASCII, and NMEA body states: consume until '\n' or a
// hard cap, then validate with either a CRC/checksum check or a
// structural predicate.
func (d *Decoder) consumeLineTerminated(cap int, validate func([]byte) bool, accept func([]byte) bool) (Result, bool) {
	avail := d.buf.Length()
	if avail > cap {
		avail = cap
	}
	window := d.peek(avail)
	nl := bytes.IndexByte(window, '\n')
	if nl < 0 {
		if d.buf.Length() >= cap {
			// hard cap reached with no terminator: reject and resync.
			d.rejectCandidate()
			return d.step()
		}
		return Result{}, false
	}
	frameLen := nl + 1
	frame := window[:frameLen]

	ok := true
	if validate != nil {
		ok = d.cfg.SkipIntegrity || validate(frame)
	}
	if ok && accept != nil {
		ok = accept(frame)
	}
	if !ok {
		d.rejectCandidate()
		return d.step()
	}

	d.buf.Discard(frameLen)
	format := d.format
	d.resetCandidate()
	return d.emitFrame(format, frame), true
}

func isAbbrevASCII(frame []byte) bool {
	return bytes.HasPrefix(frame, []byte("<OK")) || bytes.HasPrefix(frame, []byte("<ERROR:"))
}

func le16(p []byte) uint16 { return uint16(p[0]) | uint16(p[1])<<8 }
