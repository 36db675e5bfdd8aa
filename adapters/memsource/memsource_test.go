package memsource_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novatel/novadec/adapters/memsource"
)

func TestReadIntoServesThenReportsEOF(t *testing.T) {
	src := memsource.New([]byte("hello"))
	buf := make([]byte, 3)

	n, eof, err := src.ReadInto(buf)
	assert.NoError(t, err)
	assert.False(t, eof)
	assert.Equal(t, 3, n)
	assert.Equal(t, "hel", string(buf[:n]))

	n, eof, err = src.ReadInto(buf)
	assert.NoError(t, err)
	assert.False(t, eof)
	assert.Equal(t, 2, n)
	assert.Equal(t, "lo", string(buf[:n]))

	n, eof, err = src.ReadInto(buf)
	assert.NoError(t, err)
	assert.True(t, eof)
	assert.Equal(t, 0, n)
}

func TestEmptySourceIsImmediatelyEOF(t *testing.T) {
	src := memsource.New(nil)
	n, eof, err := src.ReadInto(make([]byte, 4))
	assert.NoError(t, err)
	assert.True(t, eof)
	assert.Equal(t, 0, n)
}

func TestIsCallbackModeFalse(t *testing.T) {
	assert.False(t, memsource.New(nil).IsCallbackMode())
}
