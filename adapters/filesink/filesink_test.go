package filesink_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novatel/novadec/adapters/filesink"
)

func TestWriteAppendsToCreatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.asc")
	sink, err := filesink.Create(path)
	require.NoError(t, err)

	n, err := sink.Write([]byte("frame one"))
	require.NoError(t, err)
	assert.Equal(t, len("frame one"), n)

	_, err = sink.Write([]byte(" frame two"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "frame one frame two", string(got))
}

func TestCreateTruncatesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.asc")
	require.NoError(t, os.WriteFile(path, []byte("stale data"), 0o644))

	sink, err := filesink.Create(path)
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}
