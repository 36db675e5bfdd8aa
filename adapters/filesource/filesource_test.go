package filesource_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novatel/novadec/adapters/filesource"
)

func TestReadIntoServesFileThenEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.bin")
	require.NoError(t, os.WriteFile(path, []byte("novatel"), 0o644))

	src, err := filesource.Open(path)
	require.NoError(t, err)
	defer src.Close()

	buf := make([]byte, 64)
	n, eof, err := src.ReadInto(buf)
	require.NoError(t, err)
	assert.False(t, eof)
	assert.Equal(t, "novatel", string(buf[:n]))

	n, eof, err = src.ReadInto(buf)
	require.NoError(t, err)
	assert.True(t, eof)
	assert.Equal(t, 0, n)
}

func TestOpenMissingFileErrors(t *testing.T) {
	_, err := filesource.Open(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}
