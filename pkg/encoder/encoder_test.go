package encoder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novatel/novadec/pkg/encoder"
	"github.com/novatel/novadec/pkg/message"
	"github.com/novatel/novadec/pkg/schema"
)

func TestEncodeNMEARequiresNMEAHeader(t *testing.T) {
	enc := encoder.New(schema.New(nil, nil))
	_, err := enc.Encode(&message.Header{Format: message.NMEA}, message.Message{
		{Name: "field0", Scalar: "GPGGA"},
	}, message.NMEA)
	assert.Error(t, err)
}

func TestEncodeNMEAProducesChecksummedSentence(t *testing.T) {
	enc := encoder.New(schema.New(nil, nil))
	hdr := &message.Header{Format: message.NMEA, NMEA: true}
	body := message.Message{
		{Name: "field0", Scalar: "GPGGA"},
		{Name: "field1", Scalar: "123519"},
	}
	frame, err := enc.Encode(hdr, body, message.NMEA)
	require.NoError(t, err)
	assert.Equal(t, "$GPGGA,123519*77\r\n", string(frame))
}

func TestEncodeAbbrevASCIIRequiresAbbrevHeader(t *testing.T) {
	enc := encoder.New(schema.New(nil, nil))
	_, err := enc.Encode(&message.Header{Format: message.ASCII}, message.Message{
		{Name: "text", Scalar: "<OK"},
	}, message.ABBREV_ASCII)
	assert.Error(t, err)
}

func TestEncodeAbbrevASCIIRendersText(t *testing.T) {
	enc := encoder.New(schema.New(nil, nil))
	hdr := &message.Header{Format: message.ABBREV_ASCII}
	frame, err := enc.Encode(hdr, message.Message{{Name: "text", Scalar: "<OK"}}, message.ABBREV_ASCII)
	require.NoError(t, err)
	assert.Equal(t, "<OK\r\n", string(frame))
}

func TestEncodeUnsupportedFormat(t *testing.T) {
	enc := encoder.New(schema.New(nil, nil))
	_, err := enc.Encode(&message.Header{}, nil, message.UNKNOWN)
	assert.Error(t, err)
}

func TestEncodeBinaryMissingDefinitionErrors(t *testing.T) {
	enc := encoder.New(schema.New(nil, nil))
	_, err := enc.Encode(&message.Header{MessageID: 7, MessageName: "nope"}, nil, message.BINARY)
	assert.Error(t, err)
}
