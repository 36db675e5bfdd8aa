// Package classifier inspects runs of bytes the framer rejected as
// unrecognizable, tallying console artifacts (port prompts, "<OK",
// CR/LF) the way the original decoder's UnknownDataHandler does, without
// ever attempting to re-decode them as a message.
package classifier

import "bytes"

// ValidPortLabels is the fixed allowlist of receiver port labels the
// original NovAtel decoder recognizes inside "[NAME]" bracketed runs.
// Restored from original_source's UnknownDataHandler, which the
// distilled spec only describes as "a fixed allowlist".
var ValidPortLabels = []string{
	"COM1", "COM2", "COM3",
	"USB1", "USB2", "USB3",
	"AUX",
	"ICOM1", "ICOM2", "ICOM3",
	"NCOM1", "NCOM2", "NCOM3",
	"WCOM1",
}

func isValidPortLabel(label string) bool {
	for _, v := range ValidPortLabels {
		if v == label {
			return true
		}
	}
	return false
}

// Stats tallies the classifier's fixed alphabet of observations across
// every unknown-byte run handed to it.
type Stats struct {
	UnknownASCIIBytes  uint64
	UnknownBinaryBytes uint64
	LineFeeds          uint64
	CarriageReturns    uint64
	OKPrompts          uint64
	ComPorts           uint64
	InvalidComPorts    uint64
	ValidComPortBytes  uint64
}

// Classifier accumulates Stats across a run and holds back a short
// trailing fragment that might be the prefix of a bracketed port label
// or "<OK" split across two unknown-byte deliveries.
type Classifier struct {
	stats   Stats
	pending []byte
}

// New returns a Classifier with zeroed statistics.
func New() *Classifier { return &Classifier{} }

// Stats returns the statistics accumulated so far.
func (c *Classifier) Stats() Stats { return c.stats }

// Reset clears statistics and any held-back trailing fragment.
func (c *Classifier) Reset() {
	c.stats = Stats{}
	c.pending = nil
}

// minHoldback is long enough to hold the longest recognized token
// ("[ICOM1]" or "[NCOM1]", 7 bytes) minus one, so a token split across
// two deliveries is still recognized once the rest arrives.
const minHoldback = 6

// Observe classifies one run of unknown bytes. eof indicates the stream
// has ended and any held-back fragment must be classified now rather
// than waiting for more bytes.
func (c *Classifier) Observe(run []byte, eof bool) {
	buf := append(c.pending, run...)
	c.pending = nil

	end := len(buf)
	if !eof && end > minHoldback {
		end -= minHoldback
	}
	c.classify(buf[:end])
	if end < len(buf) {
		c.pending = append(c.pending, buf[end:]...)
	}
}

func (c *Classifier) classify(buf []byte) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		switch {
		case b == '\n':
			c.stats.LineFeeds++
		case b == '\r':
			c.stats.CarriageReturns++
		case b >= 0x20 && b < 0x7F:
			c.stats.UnknownASCIIBytes++
		default:
			c.stats.UnknownBinaryBytes++
		}

		if b == '<' && i+3 <= len(buf) && string(buf[i:i+3]) == "<OK" {
			c.stats.OKPrompts++
		}

		if b == '[' {
			if close := bytes.IndexByte(buf[i:], ']'); close > 0 {
				label := string(buf[i+1 : i+close])
				if isValidPortLabel(label) {
					c.stats.ComPorts++
					c.stats.ValidComPortBytes += uint64(close + 1)
				} else {
					c.stats.InvalidComPorts++
				}
			}
		}
	}
}
