// Package filter decides whether a decoded message header should reach
// a consumer, restoring the include-list/decimation/time-window
// predicate the original NovAtel decoder exposed through its Filter
// class (novatel_filter_include_message_id, _include_message_name,
// _set_include_lower_time, _set_include_decimation, and their paired
// invert_* toggles). It lives outside pkg/decoder because a Filter has
// no opinion on framing or body decoding; it only ever sees headers.
package filter

import "github.com/novatel/novadec/pkg/message"

type idFormatKey struct {
	id     uint16
	format message.Format
	source message.AntennaSource
}

type nameFormatKey struct {
	name   string
	format message.Format
	source message.AntennaSource
}

// Filter holds an accumulating set of include predicates plus five
// independent invert toggles, mirroring the original's separate
// InvertMessageIdFilter/InvertMessageNameFilter/InvertTimeFilter/
// InvertDecimationFilter/InvertTimeStatusFilter switches: each list can
// be flipped from a whitelist to a blacklist on its own.
type Filter struct {
	ids   map[idFormatKey]struct{}
	names map[nameFormatKey]struct{}
	times []TimeStatus

	includeNMEA bool

	invertID     bool
	invertName   bool
	invertTime   bool
	invertDecim  bool
	invertStatus bool

	haveLower  bool
	lowerWeek  uint16
	lowerSec   float64
	haveUpper  bool
	upperWeek  uint16
	upperSec   float64

	statuses map[message.TimeStatus]struct{}

	decimationPeriod float64 // seconds; 0 disables decimation
	lastKept         map[string]float64
}

// TimeStatus is kept only for symmetry with the other include-lists;
// the original API took bare TIME_STATUS values with no pairing type.
type TimeStatus = message.TimeStatus

// New returns a Filter with no restrictions configured: DoFiltering
// accepts everything until an Include* call narrows it.
func New() *Filter {
	return &Filter{
		ids:      make(map[idFormatKey]struct{}),
		names:    make(map[nameFormatKey]struct{}),
		statuses: make(map[message.TimeStatus]struct{}),
		lastKept: make(map[string]float64),
	}
}

// ClearFilters drops every configured predicate and invert toggle,
// returning the Filter to its New() state.
func (f *Filter) ClearFilters() {
	*f = *New()
}

// IncludeMessageID adds (id, format, source) to the id whitelist.
func (f *Filter) IncludeMessageID(id uint16, format message.Format, source message.AntennaSource) {
	f.ids[idFormatKey{id, format, source}] = struct{}{}
}

// InvertMessageIDFilter flips the id list from whitelist to blacklist.
func (f *Filter) InvertMessageIDFilter(invert bool) { f.invertID = invert }

// IncludeMessageName adds (name, format, source) to the name whitelist.
// name is matched case-insensitively against Header.MessageName.
func (f *Filter) IncludeMessageName(name string, format message.Format, source message.AntennaSource) {
	f.names[nameFormatKey{lower(name), format, source}] = struct{}{}
}

// InvertMessageNameFilter flips the name list from whitelist to blacklist.
func (f *Filter) InvertMessageNameFilter(invert bool) { f.invertName = invert }

// IncludeNMEAMessages toggles whether NMEA-format headers pass
// regardless of the name/id whitelists, matching the original's
// pass-through carve-out for '$'-sentence messages.
func (f *Filter) IncludeNMEAMessages(include bool) { f.includeNMEA = include }

// IncludeTimeStatus adds status to the time-status whitelist.
func (f *Filter) IncludeTimeStatus(status message.TimeStatus) {
	f.statuses[status] = struct{}{}
}

// InvertTimeStatusFilter flips the time-status list from whitelist to blacklist.
func (f *Filter) InvertTimeStatusFilter(invert bool) { f.invertStatus = invert }

// SetIncludeLowerTimeBound sets the inclusive lower bound of the
// GPS-week/seconds-of-week acceptance window.
func (f *Filter) SetIncludeLowerTimeBound(week uint16, seconds float64) {
	f.haveLower, f.lowerWeek, f.lowerSec = true, week, seconds
}

// SetIncludeUpperTimeBound sets the inclusive upper bound of the
// GPS-week/seconds-of-week acceptance window.
func (f *Filter) SetIncludeUpperTimeBound(week uint16, seconds float64) {
	f.haveUpper, f.upperWeek, f.upperSec = true, week, seconds
}

// InvertTimeFilter flips the time window from inclusive to exclusive:
// messages inside [lower, upper] are rejected instead of kept.
func (f *Filter) InvertTimeFilter(invert bool) { f.invertTime = invert }

// SetIncludeDecimation keeps at most one message per periodSec seconds
// per message name, dropping the rest. Zero disables decimation.
func (f *Filter) SetIncludeDecimation(periodSec float64) { f.decimationPeriod = periodSec }

// InvertDecimationFilter flips decimation to keep only the samples that
// would otherwise have been dropped.
func (f *Filter) InvertDecimationFilter(invert bool) { f.invertDecim = invert }

// DoFiltering reports whether hdr should be handed to the consumer. It
// combines, in order, the NMEA carve-out, the id whitelist, the name
// whitelist, the time-status whitelist, the time window, and
// decimation; any configured list that hdr fails rejects the message.
func (f *Filter) DoFiltering(hdr *message.Header) bool {
	if hdr == nil {
		return false
	}
	if hdr.NMEA {
		return f.includeNMEA
	}
	if !f.passID(hdr) {
		return false
	}
	if !f.passName(hdr) {
		return false
	}
	if !f.passStatus(hdr) {
		return false
	}
	if !f.passTime(hdr) {
		return false
	}
	return f.passDecimation(hdr)
}

func (f *Filter) passID(hdr *message.Header) bool {
	if len(f.ids) == 0 {
		return true
	}
	_, matched := f.ids[idFormatKey{hdr.MessageID, hdr.Format, hdr.AntennaSource}]
	if f.invertID {
		return !matched
	}
	return matched
}

func (f *Filter) passName(hdr *message.Header) bool {
	if len(f.names) == 0 {
		return true
	}
	_, matched := f.names[nameFormatKey{lower(hdr.MessageName), hdr.Format, hdr.AntennaSource}]
	if f.invertName {
		return !matched
	}
	return matched
}

func (f *Filter) passStatus(hdr *message.Header) bool {
	if len(f.statuses) == 0 {
		return true
	}
	_, matched := f.statuses[hdr.TimeStatus]
	if f.invertStatus {
		return !matched
	}
	return matched
}

func (f *Filter) passTime(hdr *message.Header) bool {
	if !f.haveLower && !f.haveUpper {
		return true
	}
	sec := float64(hdr.Milliseconds) / 1000.0
	week := hdr.Week
	inWindow := true
	if f.haveLower && before(week, sec, f.lowerWeek, f.lowerSec) {
		inWindow = false
	}
	if f.haveUpper && before(f.upperWeek, f.upperSec, week, sec) {
		inWindow = false
	}
	if f.invertTime {
		return !inWindow
	}
	return inWindow
}

func (f *Filter) passDecimation(hdr *message.Header) bool {
	if f.decimationPeriod <= 0 {
		return true
	}
	now := float64(hdr.Week)*604800.0 + float64(hdr.Milliseconds)/1000.0
	last, seen := f.lastKept[hdr.MessageName]
	keep := !seen || now-last >= f.decimationPeriod
	if keep {
		f.lastKept[hdr.MessageName] = now
	}
	if f.invertDecim {
		return !keep
	}
	return keep
}

func before(w1 uint16, s1 float64, w2 uint16, s2 float64) bool {
	if w1 != w2 {
		return w1 < w2
	}
	return s1 < s2
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
