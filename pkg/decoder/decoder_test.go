package decoder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novatel/novadec/adapters/callbacksource"
	"github.com/novatel/novadec/adapters/memsource"
	"github.com/novatel/novadec/pkg/decoder"
	"github.com/novatel/novadec/pkg/encoder"
	"github.com/novatel/novadec/pkg/message"
	"github.com/novatel/novadec/pkg/schema"
)

func testDatabase() *schema.Database {
	statusEnum := schema.NewEnumDict("solution_status", []schema.EnumMember{
		{Value: 0, Name: "SOL_COMPUTED"},
		{Value: 1, Name: "INSUFFICIENT_OBS"},
	})
	def := &schema.MessageDef{
		ID:   42,
		Name: "bestpos",
		CRC:  0x1234,
		Fields: []schema.FieldDescriptor{
			{Name: "status", BaseType: schema.U32, Storage: schema.ENUM, ElementSize: 4, EnumRef: &schema.EnumRef{Name: "solution_status"}},
			{Name: "lat", BaseType: schema.F64, Storage: schema.SIMPLE, ElementSize: 8},
			{Name: "lon", BaseType: schema.F64, Storage: schema.SIMPLE, ElementSize: 8},
			{Name: "num_svs", BaseType: schema.U8, Storage: schema.SIMPLE, ElementSize: 1},
		},
	}
	return schema.New([]*schema.MessageDef{def}, []*schema.EnumDict{statusEnum})
}

func testBody() message.Message {
	return message.Message{
		{Name: "status", Scalar: uint64(0)},
		{Name: "lat", Scalar: 51.0447},
		{Name: "lon", Scalar: -114.0719},
		{Name: "num_svs", Scalar: uint64(14)},
	}
}

func testHeader() *message.Header {
	return &message.Header{
		MessageID:   42,
		MessageName: "bestpos",
		Format:      message.BINARY,
		Week:        2312,
		Milliseconds: 123456,
		TimeStatus:  message.TimeFine,
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	db := testDatabase()
	enc := encoder.New(db)
	frame, err := enc.Encode(testHeader(), testBody(), message.BINARY)
	require.NoError(t, err)

	dec := decoder.New(db, decoder.Config{})
	res, err := dec.Next(memsource.New(frame))
	require.NoError(t, err)
	require.Equal(t, decoder.FrameDecoded, res.Kind)

	assert.Equal(t, uint16(42), res.Header.MessageID)
	assert.Equal(t, "bestpos", res.Header.MessageName)
	assert.Equal(t, uint16(2312), res.Header.Week)
	assert.Equal(t, uint32(123456), res.Header.Milliseconds)

	lat, ok := res.Body.ByName("lat")
	require.True(t, ok)
	assert.InDelta(t, 51.0447, lat.Scalar.(float64), 1e-9)

	res2, err := dec.Next(memsource.New(nil))
	require.NoError(t, err)
	assert.Equal(t, decoder.EndOfStream, res2.Kind)
}

func TestShortBinaryRoundTrip(t *testing.T) {
	db := testDatabase()
	enc := encoder.New(db)
	hdr := testHeader()
	hdr.Format = message.SHORT_BINARY
	frame, err := enc.Encode(hdr, testBody(), message.SHORT_BINARY)
	require.NoError(t, err)

	dec := decoder.New(db, decoder.Config{})
	res, err := dec.Next(memsource.New(frame))
	require.NoError(t, err)
	require.Equal(t, decoder.FrameDecoded, res.Kind)
	assert.Equal(t, uint16(42), res.Header.MessageID)
	numSvs, ok := res.Body.ByName("num_svs")
	require.True(t, ok)
	assert.Equal(t, uint64(14), numSvs.Scalar)
}

func TestASCIIRoundTrip(t *testing.T) {
	db := testDatabase()
	enc := encoder.New(db)
	hdr := testHeader()
	hdr.Format = message.ASCII
	frame, err := enc.Encode(hdr, testBody(), message.ASCII)
	require.NoError(t, err)
	assert.Contains(t, string(frame), "#BESTPOSA,")

	dec := decoder.New(db, decoder.Config{})
	res, err := dec.Next(memsource.New(frame))
	require.NoError(t, err)
	require.Equal(t, decoder.FrameDecoded, res.Kind)
	assert.Equal(t, "bestpos", res.Header.MessageName)

	status, ok := res.Body.ByName("status")
	require.True(t, ok)
	assert.Equal(t, uint64(0), status.Scalar)
}

func TestCRCFailureRecoversOnNextFrame(t *testing.T) {
	db := testDatabase()
	enc := encoder.New(db)
	good, err := enc.Encode(testHeader(), testBody(), message.BINARY)
	require.NoError(t, err)

	corrupt := append([]byte(nil), good...)
	corrupt[len(corrupt)-1] ^= 0xFF // corrupt the CRC trailer

	stream := append(corrupt, good...)
	dec := decoder.New(db, decoder.Config{})

	var sawUnknown, sawFrame bool
	src := memsource.New(stream)
	for i := 0; i < 10 && !sawFrame; i++ {
		res, err := dec.Next(src)
		require.NoError(t, err)
		switch res.Kind {
		case decoder.UnknownBytes:
			sawUnknown = true
		case decoder.FrameDecoded:
			sawFrame = true
			assert.Equal(t, uint16(42), res.Header.MessageID)
		case decoder.EndOfStream:
			t.Fatal("reached end of stream without decoding the trailing good frame")
		}
	}
	assert.True(t, sawUnknown, "expected the corrupted frame to surface as unknown bytes")
	assert.True(t, sawFrame, "expected the trailing good frame to still decode")
}

func responseDatabase() *schema.Database {
	def := &schema.MessageDef{
		ID:   43,
		Name: "bestposr",
		Fields: []schema.FieldDescriptor{
			{Name: "response_id", BaseType: schema.I32, Storage: schema.SIMPLE, ElementSize: 4},
		},
	}
	return schema.New([]*schema.MessageDef{def}, nil)
}

func TestBinaryResponseIDIsReadFromBody(t *testing.T) {
	db := responseDatabase()
	enc := encoder.New(db)
	hdr := &message.Header{MessageID: 43, MessageName: "bestposr", Format: message.BINARY, IsResponse: true}
	body := message.Message{{Name: "response_id", Scalar: int64(1)}}
	frame, err := enc.Encode(hdr, body, message.BINARY)
	require.NoError(t, err)

	dec := decoder.New(db, decoder.Config{})
	res, err := dec.Next(memsource.New(frame))
	require.NoError(t, err)
	require.Equal(t, decoder.FrameDecoded, res.Kind)
	assert.True(t, res.Header.IsResponse)
	assert.Equal(t, 1, res.Header.ResponseID)
	assert.False(t, res.Header.IsErrorResponse)
}

func TestBinaryResponseIDNonOKMarksError(t *testing.T) {
	db := responseDatabase()
	enc := encoder.New(db)
	hdr := &message.Header{MessageID: 43, MessageName: "bestposr", Format: message.BINARY, IsResponse: true}
	body := message.Message{{Name: "response_id", Scalar: int64(3)}}
	frame, err := enc.Encode(hdr, body, message.BINARY)
	require.NoError(t, err)

	dec := decoder.New(db, decoder.Config{})
	res, err := dec.Next(memsource.New(frame))
	require.NoError(t, err)
	require.Equal(t, decoder.FrameDecoded, res.Kind)
	assert.Equal(t, 3, res.Header.ResponseID)
	assert.True(t, res.Header.IsErrorResponse)
}

func TestFeedDrivesCallbackModeSource(t *testing.T) {
	db := testDatabase()
	enc := encoder.New(db)
	frame, err := enc.Encode(testHeader(), testBody(), message.BINARY)
	require.NoError(t, err)

	dec := decoder.New(db, decoder.Config{})

	// A callback-mode source tells Next to stop pulling; nothing is
	// buffered yet, so Next reports NeedMoreData rather than blocking.
	src := callbacksource.New()
	res, err := dec.Next(src)
	require.NoError(t, err)
	assert.Equal(t, decoder.NeedMoreData, res.Kind)

	// The producer pushes the frame directly instead of through ReadInto.
	res, err = dec.Feed(frame[:len(frame)-2])
	require.NoError(t, err)
	assert.Equal(t, decoder.NeedMoreData, res.Kind)

	res, err = dec.Feed(frame[len(frame)-2:])
	require.NoError(t, err)
	require.Equal(t, decoder.FrameDecoded, res.Kind)
	assert.Equal(t, uint16(42), res.Header.MessageID)
}

func TestNMEAPassThrough(t *testing.T) {
	db := testDatabase()
	dec := decoder.New(db, decoder.Config{})
	sentence := []byte("$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47\r\n")

	res, err := dec.Next(memsource.New(sentence))
	require.NoError(t, err)
	require.Equal(t, decoder.FrameDecoded, res.Kind)
	assert.True(t, res.Header.NMEA)
	assert.Equal(t, "gpgga", res.Header.MessageName)
}

func TestAbbrevASCIIPassThrough(t *testing.T) {
	db := testDatabase()
	dec := decoder.New(db, decoder.Config{})

	res, err := dec.Next(memsource.New([]byte("<OK\r\n")))
	require.NoError(t, err)
	require.Equal(t, decoder.FrameDecoded, res.Kind)
	assert.True(t, res.Header.IsResponse)
	assert.False(t, res.Header.IsErrorResponse)

	text, ok := res.Body.ByName("text")
	require.True(t, ok)
	assert.Equal(t, "<OK", text.Scalar)
}

func TestUnknownMessageDroppedWhenDisabled(t *testing.T) {
	db := schema.New(nil, nil)
	enc := encoder.New(testDatabase())
	frame, err := enc.Encode(testHeader(), testBody(), message.BINARY)
	require.NoError(t, err)

	dec := decoder.New(db, decoder.Config{EnableUnknown: false})
	res, err := dec.Next(memsource.New(frame))
	require.NoError(t, err)
	assert.Equal(t, decoder.MessageDropped, res.Kind)
	assert.Nil(t, res.Header)
}

func TestUnknownMessageSurfacedWhenEnabled(t *testing.T) {
	db := schema.New(nil, nil)
	enc := encoder.New(testDatabase())
	frame, err := enc.Encode(testHeader(), testBody(), message.BINARY)
	require.NoError(t, err)

	dec := decoder.New(db, decoder.Config{EnableUnknown: true})
	res, err := dec.Next(memsource.New(frame))
	require.NoError(t, err)
	require.Equal(t, decoder.UnknownBytes, res.Kind)
	assert.Error(t, res.Err)
}
