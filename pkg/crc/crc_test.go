package crc_test

import (
	"testing"

	"github.com/novatel/novadec/pkg/crc"
	"github.com/stretchr/testify/assert"
)

func TestBlockKnownVector(t *testing.T) {
	// "123456789" with the reflected polynomial, a zero seed, and no final
	// xor (so the whole-frame residue is zero).
	got := crc.Block([]byte("123456789"))
	assert.Equal(t, uint32(0x2DFD2D88), got)
}

func TestFeedMatchesBlock(t *testing.T) {
	var s crc.State
	for _, b := range []byte("123456789") {
		s.Feed(b)
	}
	assert.Equal(t, crc.Block([]byte("123456789")), s.Sum())
}

func TestValidBinaryTrailerRoundTrip(t *testing.T) {
	header := []byte{0xAA, 0x44, 0x12, 0x1C, 0x2A, 0x00}
	sum := crc.Block(header)
	trailer := []byte{byte(sum), byte(sum >> 8), byte(sum >> 16), byte(sum >> 24)}
	frame := append(append([]byte{}, header...), trailer...)
	assert.True(t, crc.ValidBinaryTrailer(frame))

	frame[0] ^= 0xFF
	assert.False(t, crc.ValidBinaryTrailer(frame))
}

func TestValidASCII(t *testing.T) {
	body := "BESTPOSA,0,0.0,FINESTEERING,0,0.0,0,0,0,0;"
	sum := crc.Block([]byte(body))
	frame := []byte("#" + body + "*" + crc.FormatASCII(sum) + "\r\n")
	assert.True(t, crc.ValidASCII(frame))

	frame[5] ^= 0x01
	assert.False(t, crc.ValidASCII(frame))
}

func TestValidNMEA(t *testing.T) {
	body := "GPALM,30,01"
	sum, _ := crc.NMEAChecksum([]byte("$" + body + "*00"))
	frame := []byte("$" + body + "*" + crc.FormatNMEA(sum) + "\r\n")
	assert.True(t, crc.ValidNMEA(frame))

	frame[2] ^= 0x01
	assert.False(t, crc.ValidNMEA(frame))
}
