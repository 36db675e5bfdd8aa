// Package decoder implements the resynchronizing framer (C4), the
// per-format header decoder (C5), and the schema-driven body decoder
// (C6) described by the message-definition database (package schema).
package decoder

import (
	"github.com/novatel/novadec/internal/metrics"
	"github.com/novatel/novadec/internal/telemetry"
	"github.com/novatel/novadec/pkg/crc"
	"github.com/novatel/novadec/pkg/message"
	"github.com/novatel/novadec/pkg/ringbuffer"
	"github.com/novatel/novadec/pkg/schema"
)

// readChunkSize is both the chunk size the framer pulls from its
// ByteSource and the unknown-byte flush threshold (§4.4).
const readChunkSize = 10240

const (
	longASCIICap = 64000
	shortFrameCap = 127
)

// Config carries the options that are not part of the wire format
// itself but change how this decoder instance behaves.
type Config struct {
	// SkipIntegrity bypasses CRC/checksum comparison while still
	// consuming the trailer bytes. Only meant for tooling that must
	// accept intentionally corrupted inputs.
	SkipIntegrity bool

	// EnableUnknown controls whether unrecognized message ids (headers
	// that parse but have no schema entry) are surfaced to the caller at
	// all. When false, they are dropped uniformly rather than reaching
	// the classifier or the caller.
	EnableUnknown bool

	// TimeIssueFix names the IONUTC/QZSSIONUTC time-bound statistics
	// accommodation for a receiver firmware defect. Off by default. No
	// decode path reads it: setting it changes no decoder behavior.
	TimeIssueFix bool

	// RingBufferCapacity is the initial capacity of the internal
	// circular buffer. Zero selects a sensible default.
	RingBufferCapacity int

	Logger *telemetry.Logger

	// Metrics is optional; when nil, decode/error/unknown-byte counters
	// are simply not recorded.
	Metrics *metrics.Metrics
}

// ResultKind discriminates what a call to Next produced.
type ResultKind int

const (
	// NeedMoreData is returned when a non-blocking source had nothing
	// available; the caller should retry later without the decoder
	// having mutated any state.
	NeedMoreData ResultKind = iota
	FrameDecoded
	UnknownBytes
	EndOfStream

	// MessageDropped is returned when a frame parsed cleanly, matched no
	// schema entry, and Config.EnableUnknown is false: the ring buffer
	// and framer state were both consumed, a message genuinely existed
	// and was discarded, and the caller should not mistake this for
	// NeedMoreData's "nothing happened, retry" contract.
	MessageDropped
)

// Result is one delivery from Next: either a decoded message, a run of
// unknown bytes, end of stream, or a request to retry later.
type Result struct {
	Kind ResultKind

	Header     *message.Header
	Body       message.Message
	FlatBinary []byte
	JSON       []byte
	RawFrame   []byte

	// UnknownData is populated when Kind == UnknownBytes.
	UnknownData []byte
	// UnknownFormat tags the frame shape that failed, when known,
	// purely for attribution; UNKNOWN when the bytes never matched any
	// sync at all.
	UnknownFormat message.Format

	Err error
}

// Decoder is a single-threaded, resumable decoding pipeline: frame
// extraction, header decoding, and body decoding over one input stream.
// It owns its ring buffer, framer state, and statistics; a Decoder is
// not safe for concurrent use, but independent Decoder instances over
// independent streams never interact.
type Decoder struct {
	cfg Config
	db  *schema.Database
	log *telemetry.Logger

	buf *ringbuffer.Buffer

	state    frameState
	cursor   int
	crcState crc.State
	bodyLen  int
	totalLen int
	hdrLen   int
	format   message.Format

	unknown []byte

	Stats message.Stats
}

// New constructs a Decoder against the given message-definition
// database, which is shared read-only and must outlive the Decoder.
func New(db *schema.Database, cfg Config) *Decoder {
	capacity := cfg.RingBufferCapacity
	if capacity == 0 {
		capacity = readChunkSize
	}
	log := cfg.Logger
	if log == nil {
		log = telemetry.Discard()
	}
	return &Decoder{
		cfg: cfg,
		db:  db,
		log: log,
		buf: ringbuffer.New(capacity),
	}
}

// Reset clears framer state, the ring buffer, the unknown-byte
// accumulator, and statistics, as if the Decoder were newly constructed.
func (d *Decoder) Reset() {
	d.buf.Clear()
	d.state = stWaitSync
	d.cursor = 0
	d.crcState.Reset()
	d.bodyLen, d.totalLen, d.hdrLen = 0, 0, 0
	d.format = message.UNKNOWN
	d.unknown = nil
	d.Stats.Reset()
}

// Next pulls bytes from source as needed and returns the next frame,
// unknown-byte run, end-of-stream marker, or a NeedMoreData result for a
// non-blocking source that is momentarily empty.
func (d *Decoder) Next(source ByteSource) (Result, error) {
	if source == nil {
		return Result{}, message.New(message.NullInput, message.UNKNOWN, nil, nil)
	}
	if source.IsCallbackMode() {
		// Bytes for a callback-mode source arrive out-of-band through
		// Feed, not ReadInto; only drain what the ring buffer already
		// holds rather than pulling.
		if res, ok := d.step(); ok {
			return res, nil
		}
		return Result{Kind: NeedMoreData}, nil
	}
	for {
		if res, ok := d.step(); ok {
			return res, nil
		}

		chunk := make([]byte, readChunkSize)
		n, eof, err := source.ReadInto(chunk)
		if err != nil {
			return Result{}, err
		}
		if n > 0 {
			d.buf.Append(chunk[:n])
			continue
		}
		if eof {
			if d.state != stWaitSync && d.buf.Length() > 0 {
				// An open candidate can no longer complete: reject its
				// first byte and rescan the rest for a later frame.
				d.rejectCandidate()
				continue
			}
			return d.finalizeEOF(), nil
		}
		return Result{Kind: NeedMoreData}, nil
	}
}

// Feed appends data pushed by a callback-mode producer directly into
// the ring buffer and returns whatever result that makes available.
// It is the write side of a ByteSource whose IsCallbackMode is true:
// the producer calls Feed as bytes arrive instead of Next pulling them
// through ReadInto.
func (d *Decoder) Feed(data []byte) (Result, error) {
	d.buf.Append(data)
	if res, ok := d.step(); ok {
		return res, nil
	}
	return Result{Kind: NeedMoreData}, nil
}

// finalizeEOF flushes whatever remains (any bytes still in the ring plus
// pending unknown bytes) as a final unknown-bytes record, or reports
// plain end of stream if nothing remains. Next calls it only once no
// frame candidate is open.
func (d *Decoder) finalizeEOF() Result {
	for d.buf.Length() > 0 {
		b, _ := d.buf.ByteAt(0)
		d.unknown = append(d.unknown, b)
		d.buf.Discard(1)
	}
	d.state = stWaitSync
	d.cursor = 0
	if len(d.unknown) > 0 {
		data := d.unknown
		d.unknown = nil
		d.cfg.Metrics.ObserveUnknown("eof", len(data))
		return Result{Kind: UnknownBytes, UnknownData: data, UnknownFormat: d.format}
	}
	return Result{Kind: EndOfStream}
}

func (d *Decoder) peek(n int) []byte {
	out := make([]byte, n)
	d.buf.CopyTo(out, n)
	return out
}

func (d *Decoder) rejectCandidate() {
	if d.buf.Length() > 0 {
		b, _ := d.buf.ByteAt(0)
		d.unknown = append(d.unknown, b)
		d.buf.Discard(1)
	}
	d.resetCandidate()
}

func (d *Decoder) resetCandidate() {
	d.state = stWaitSync
	d.cursor = 0
	d.crcState.Reset()
	d.bodyLen, d.totalLen, d.hdrLen = 0, 0, 0
	d.format = message.UNKNOWN
}

// takeUnknown detaches and returns the accumulated unknown-byte run.
func (d *Decoder) takeUnknown() []byte {
	data := d.unknown
	d.unknown = nil
	d.cfg.Metrics.ObserveUnknown("sync", len(data))
	return data
}
