package message

// Header is the canonical, format-independent header produced by the
// header decoder (C5) and consumed by the body decoder/encoder.
type Header struct {
	MessageID   uint16
	MessageName string // lowercase, primary/secondary suffix stripped
	Format      Format

	TimeStatus   TimeStatus
	Week         uint16
	Milliseconds uint32 // time of week, ms; ASCII sub-second fraction folded in

	IdleTimePercent      float64
	ReceiverStatus       uint32
	MessageDefinitionCRC uint32
	ReceiverSWVersion    uint16

	Port     Port
	Sequence uint16

	AntennaSource AntennaSource

	IsResponse      bool
	ResponseID      int
	IsErrorResponse bool

	// NMEA is true for messages decoded from a '$'-delimited sentence,
	// which carries no GNSS time header of its own.
	NMEA bool
}
