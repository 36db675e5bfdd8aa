package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novatel/novadec/pkg/encoder"
	"github.com/novatel/novadec/pkg/message"
	"github.com/novatel/novadec/pkg/schema"
)

const testDatabaseJSON = `{
  "enums": [],
  "messages": [
    {
      "id": 42,
      "name": "bestpos",
      "crc": 0,
      "fields": [
        {"name": "lat", "type": "double", "baseType": "F64", "storage": "SIMPLE"},
        {"name": "lon", "type": "double", "baseType": "F64", "storage": "SIMPLE"}
      ]
    }
  ]
}`

func buildLogFile(t *testing.T) string {
	t.Helper()
	def := &schema.MessageDef{
		ID:   42,
		Name: "bestpos",
		Fields: []schema.FieldDescriptor{
			{Name: "lat", BaseType: schema.F64, Storage: schema.SIMPLE, ElementSize: 8},
			{Name: "lon", BaseType: schema.F64, Storage: schema.SIMPLE, ElementSize: 8},
		},
	}
	db := schema.New([]*schema.MessageDef{def}, nil)
	enc := encoder.New(db)
	hdr := &message.Header{MessageID: 42, MessageName: "bestpos", Format: message.BINARY, Week: 2312, Milliseconds: 1000}
	body := message.Message{{Name: "lat", Scalar: 51.0}, {Name: "lon", Scalar: -114.0}}
	frame, err := enc.Encode(hdr, body, message.BINARY)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "input.log")
	require.NoError(t, os.WriteFile(path, frame, 0o644))
	return path
}

func TestRunDecodesLogAndWritesASCII(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db.json")
	require.NoError(t, os.WriteFile(dbPath, []byte(testDatabaseJSON), 0o644))

	logPath := buildLogFile(t)

	code := run([]string{dbPath, logPath})
	assert.Equal(t, 0, code)

	out, err := os.ReadFile(logPath + ".asc")
	require.NoError(t, err)
	assert.Contains(t, string(out), "#BESTPOSA,")
}

func TestRunMissingArgsReturnsOne(t *testing.T) {
	assert.Equal(t, 1, run(nil))
	assert.Equal(t, 1, run([]string{"only-one-arg"}))
}

func TestRunMissingDatabaseFileReturnsOne(t *testing.T) {
	logPath := buildLogFile(t)
	code := run([]string{filepath.Join(t.TempDir(), "missing.json"), logPath})
	assert.Equal(t, 1, code)
}

func TestRunMissingLogFileReturnsOne(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db.json")
	require.NoError(t, os.WriteFile(dbPath, []byte(testDatabaseJSON), 0o644))

	code := run([]string{dbPath, filepath.Join(dir, "missing.log")})
	assert.Equal(t, 1, code)
}
