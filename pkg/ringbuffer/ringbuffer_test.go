package ringbuffer_test

import (
	"testing"

	"github.com/novatel/novadec/pkg/ringbuffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndLength(t *testing.T) {
	b := ringbuffer.New(4)
	n := b.Append([]byte("hello"))
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, b.Length())
	assert.GreaterOrEqual(t, b.Capacity(), 5)
}

func TestDiscardClampsToLength(t *testing.T) {
	b := ringbuffer.New(8)
	b.Append([]byte("abcdef"))
	assert.Equal(t, 6, b.Discard(100))
	assert.Equal(t, 0, b.Length())
}

func TestCopyToNonDestructive(t *testing.T) {
	b := ringbuffer.New(8)
	b.Append([]byte("abcdef"))
	dst := make([]byte, 3)
	n := b.CopyTo(dst, 3)
	assert.Equal(t, 3, n)
	assert.Equal(t, "abc", string(dst))
	assert.Equal(t, 6, b.Length(), "copy must not consume bytes")
}

func TestByteAtAndOutOfBounds(t *testing.T) {
	b := ringbuffer.New(4)
	b.Append([]byte("xy"))
	v, err := b.ByteAt(1)
	require.NoError(t, err)
	assert.Equal(t, byte('y'), v)

	_, err = b.ByteAt(2)
	assert.ErrorIs(t, err, ringbuffer.ErrOutOfBounds)
}

func TestWraparoundAfterDiscardAndAppend(t *testing.T) {
	b := ringbuffer.New(4)
	b.Append([]byte("abcd"))
	b.Discard(3)
	b.Append([]byte("xyz"))
	dst := make([]byte, 4)
	n := b.CopyTo(dst, 4)
	assert.Equal(t, 4, n)
	assert.Equal(t, "dxyz", string(dst))
}

func TestGrowthPreservesContent(t *testing.T) {
	b := ringbuffer.New(2)
	for i := 0; i < 1000; i++ {
		b.Append([]byte{byte(i)})
	}
	assert.Equal(t, 1000, b.Length())
	v, err := b.ByteAt(999)
	require.NoError(t, err)
	assert.Equal(t, byte(999&0xFF), v)
}

func TestClear(t *testing.T) {
	b := ringbuffer.New(4)
	b.Append([]byte("abcd"))
	b.Clear()
	assert.Equal(t, 0, b.Length())
	assert.Equal(t, 4, b.Capacity())
}
