// Package message holds the format-agnostic data model produced by
// header and body decoding: the canonical Header, the typed
// Message field tree, decode statistics, and the error
// taxonomy shared by the decoder and encoder.
package message

// Format identifies which header/body layout a frame carries.
type Format int

const (
	UNKNOWN Format = iota
	BINARY
	SHORT_BINARY
	ASCII
	SHORT_ASCII
	ABBREV_ASCII
	NMEA
	// RINEX and NMEA2000 are recognized by the original NovAtel decoder's
	// MessageFormatEnum but are out of scope for this module; the values
	// are reserved so Format.String() never panics on them.
	RINEX
	NMEA2000
)

func (f Format) String() string {
	switch f {
	case BINARY:
		return "BINARY"
	case SHORT_BINARY:
		return "SHORT_BINARY"
	case ASCII:
		return "ASCII"
	case SHORT_ASCII:
		return "SHORT_ASCII"
	case ABBREV_ASCII:
		return "ABBREV_ASCII"
	case NMEA:
		return "NMEA"
	case RINEX:
		return "RINEX"
	case NMEA2000:
		return "NMEA2000"
	default:
		return "UNKNOWN"
	}
}

// AntennaSource distinguishes a primary receiver antenna from a secondary one.
type AntennaSource int

const (
	PRIMARY AntennaSource = iota
	SECONDARY
)

func (a AntennaSource) String() string {
	if a == SECONDARY {
		return "SECONDARY"
	}
	return "PRIMARY"
}

// Port is the receiver logging port a message was emitted from.
type Port uint8

// TimeStatus is the GPS reference time-status level, ordered by
// precision. Values are the exact wire constants from the original
// NovAtel decoder's MessageTimeStatusEnum, not an arbitrary 0..11
// ordinal, because the binary time_status byte must round-trip bit-exactly.
type TimeStatus uint8

const (
	TimeUnknown            TimeStatus = 20
	TimeApproximate         TimeStatus = 60
	TimeCoarseAdjusting     TimeStatus = 80
	TimeCoarse              TimeStatus = 100
	TimeCoarseSteering      TimeStatus = 120
	TimeFreewheeling        TimeStatus = 130
	TimeFineAdjusting       TimeStatus = 140
	TimeFine                TimeStatus = 160
	TimeFineBackupSteering  TimeStatus = 170
	TimeFineSteering        TimeStatus = 180
	TimeSatTime             TimeStatus = 200
)

func (s TimeStatus) String() string {
	switch s {
	case TimeUnknown:
		return "UNKNOWN"
	case TimeApproximate:
		return "APPROXIMATE"
	case TimeCoarseAdjusting:
		return "COARSEADJUSTING"
	case TimeCoarse:
		return "COARSE"
	case TimeCoarseSteering:
		return "COARSESTEERING"
	case TimeFreewheeling:
		return "FREEWHEELING"
	case TimeFineAdjusting:
		return "FINEADJUSTING"
	case TimeFine:
		return "FINE"
	case TimeFineBackupSteering:
		return "FINEBACKUPSTEERING"
	case TimeFineSteering:
		return "FINESTEERING"
	case TimeSatTime:
		return "SATTIME"
	default:
		return "UNKNOWN"
	}
}
