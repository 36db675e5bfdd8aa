package message

// Stats accumulates per-Decoder-instance counters across a run, restoring
// the original decoder's DecoderStatistics beyond the bare unknown-byte
// counts the distilled spec calls out.
type Stats struct {
	BinaryMessages      uint64
	ShortBinaryMessages uint64
	ASCIIMessages       uint64
	ShortASCIIMessages  uint64
	AbbrevASCIIMessages uint64
	NMEAMessages        uint64
	UnknownMessages     uint64

	// FirstWeek/FirstMilliseconds and LastWeek/LastMilliseconds bound the
	// time range of decoded messages. Messages with Week == 0 are
	// excluded, matching the header invariant that week-0 timestamps
	// carry no calendar meaning.
	HaveTimeBounds   bool
	FirstWeek        uint16
	FirstMillisecond uint32
	LastWeek         uint16
	LastMillisecond  uint32
}

// Observe folds one successfully decoded header into the running stats.
func (s *Stats) Observe(h *Header) {
	switch h.Format {
	case BINARY:
		s.BinaryMessages++
	case SHORT_BINARY:
		s.ShortBinaryMessages++
	case ASCII:
		s.ASCIIMessages++
	case SHORT_ASCII:
		s.ShortASCIIMessages++
	case ABBREV_ASCII:
		s.AbbrevASCIIMessages++
	case NMEA:
		s.NMEAMessages++
	}

	if h.Week == 0 {
		return
	}
	if !s.HaveTimeBounds {
		s.HaveTimeBounds = true
		s.FirstWeek, s.FirstMillisecond = h.Week, h.Milliseconds
		s.LastWeek, s.LastMillisecond = h.Week, h.Milliseconds
		return
	}
	if before(h.Week, h.Milliseconds, s.FirstWeek, s.FirstMillisecond) {
		s.FirstWeek, s.FirstMillisecond = h.Week, h.Milliseconds
	}
	if before(s.LastWeek, s.LastMillisecond, h.Week, h.Milliseconds) {
		s.LastWeek, s.LastMillisecond = h.Week, h.Milliseconds
	}
}

func before(w1 uint16, ms1 uint32, w2 uint16, ms2 uint32) bool {
	if w1 != w2 {
		return w1 < w2
	}
	return ms1 < ms2
}

// Reset clears all counters and time bounds.
func (s *Stats) Reset() { *s = Stats{} }
