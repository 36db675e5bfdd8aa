package decoder

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/novatel/novadec/pkg/message"
	"github.com/novatel/novadec/pkg/schema"
)

// emitFrame bridges a framer-accepted raw frame to header decoding, the
// schema lookup, and body decoding, applying the EnableUnknown policy to
// messages that parse a header but have no schema entry.
func (d *Decoder) emitFrame(format message.Format, frame []byte) Result {
	raw := append([]byte(nil), frame...)

	hdr, body, err := decodeHeader(format, raw)
	if err != nil {
		d.log.Tracef(2, "header decode failed: %v", err)
		d.cfg.Metrics.ObserveError(message.InvalidHeader.String())
		return Result{Kind: UnknownBytes, UnknownData: raw, UnknownFormat: format, Err: err}
	}

	// ABBREV_ASCII and NMEA are external-protocol pass-through shapes,
	// never entries in the receiver's own message-definition database.
	if format == message.ABBREV_ASCII || format == message.NMEA {
		msg := genericMessage(format, body)
		d.Stats.Observe(hdr)
		d.cfg.Metrics.ObserveDecoded(format.String())
		js, _ := json.Marshal(genericJSON(msg))
		return Result{Kind: FrameDecoded, Header: hdr, Body: msg, JSON: js, RawFrame: raw}
	}

	def, known := d.lookupDefinition(hdr, format)
	if !known {
		if !d.cfg.EnableUnknown {
			return Result{Kind: MessageDropped}
		}
		err := message.New(message.UnknownMessage, format, raw, nil)
		d.cfg.Metrics.ObserveError(message.UnknownMessage.String())
		return Result{Kind: UnknownBytes, UnknownData: raw, UnknownFormat: format, Err: err}
	}

	msg, err := decodeBody(format, def, body)
	if err != nil {
		d.log.Tracef(2, "body decode failed for %s: %v", def.Name, err)
		d.cfg.Metrics.ObserveError(message.UnexpectedEndOfMessage.String())
		return Result{Kind: UnknownBytes, UnknownData: raw, UnknownFormat: format, Err: err}
	}

	if hdr.MessageID == 0 {
		hdr.MessageID = def.ID
	}
	if hdr.MessageName == "" {
		hdr.MessageName = def.Name
	}
	hdr.MessageDefinitionCRC = firstNonZero(hdr.MessageDefinitionCRC, def.CRC)

	flat, err := flattenBinary(def.Fields, msg)
	if err != nil {
		d.log.Tracef(2, "flatten failed for %s: %v", def.Name, err)
		return Result{Kind: UnknownBytes, UnknownData: raw, UnknownFormat: format, Err: err}
	}
	js, err := projectJSON(d.db, def.Fields, msg)
	if err != nil {
		d.log.Tracef(2, "json projection failed for %s: %v", def.Name, err)
		return Result{Kind: UnknownBytes, UnknownData: raw, UnknownFormat: format, Err: err}
	}

	d.Stats.Observe(hdr)
	d.cfg.Metrics.ObserveDecoded(format.String())

	return Result{
		Kind:       FrameDecoded,
		Header:     hdr,
		Body:       msg,
		FlatBinary: flat,
		JSON:       js,
		RawFrame:   raw,
	}
}

// lookupDefinition resolves a decoded header to its schema entry: binary
// formats carry a numeric id, text formats carry a name.
func (d *Decoder) lookupDefinition(hdr *message.Header, format message.Format) (*schema.MessageDef, bool) {
	if d.db == nil {
		return nil, false
	}
	if isBinaryFormat(format) {
		return d.db.DefinitionByID(hdr.MessageID)
	}
	return d.db.DefinitionByName(hdr.MessageName)
}

func firstNonZero(v, fallback uint32) uint32 {
	if v != 0 {
		return v
	}
	return fallback
}

// genericMessage wraps a pass-through body as a Message: a single "text"
// field for abbreviated-ASCII responses, or one field per comma token
// (including the sentence name) for NMEA.
func genericMessage(format message.Format, body []byte) message.Message {
	if format == message.ABBREV_ASCII {
		return message.Message{{Name: "text", Scalar: string(body)}}
	}
	tokens := strings.Split(string(body), ",")
	msg := make(message.Message, 0, len(tokens))
	for i, tok := range tokens {
		msg = append(msg, message.Field{Name: "field" + strconv.Itoa(i), Scalar: tok})
	}
	return msg
}

func genericJSON(msg message.Message) map[string]any {
	out := make(map[string]any, len(msg))
	for _, f := range msg {
		out[f.Name] = f.Scalar
	}
	return out
}
