package serialstream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePort struct {
	reads [][]byte
	call  int
	err   error
}

func (f *fakePort) Read(p []byte) (int, error) {
	if f.err != nil && f.call >= len(f.reads) {
		return 0, f.err
	}
	if f.call >= len(f.reads) {
		return 0, errors.New("no more fake reads queued")
	}
	n := copy(p, f.reads[f.call])
	f.call++
	return n, nil
}

func (f *fakePort) Close() error { return nil }

func TestReadIntoPassesThroughBytes(t *testing.T) {
	src := &Source{io: &fakePort{reads: [][]byte{[]byte("GPGGA")}}}
	buf := make([]byte, 16)
	n, eof, err := src.ReadInto(buf)
	assert.NoError(t, err)
	assert.False(t, eof)
	assert.Equal(t, "GPGGA", string(buf[:n]))
}

func TestReadIntoTimeoutIsNotEndOfStream(t *testing.T) {
	src := &Source{io: &fakePort{err: errors.New("i/o timeout")}}
	n, eof, err := src.ReadInto(make([]byte, 16))
	assert.NoError(t, err)
	assert.False(t, eof)
	assert.Equal(t, 0, n)
}

func TestIsCallbackModeFalse(t *testing.T) {
	assert.False(t, (&Source{io: &fakePort{}}).IsCallbackMode())
}
