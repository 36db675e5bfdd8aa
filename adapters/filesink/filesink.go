// Package filesink adapts an *os.File to encoder.Sink.
package filesink

import (
	"os"

	"github.com/novatel/novadec/pkg/encoder"
)

// Sink appends encoded frames to an open file.
type Sink struct {
	f *os.File
}

// Create truncates/creates path for writing.
func Create(path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Sink{f: f}, nil
}

// Close flushes and releases the underlying file.
func (s *Sink) Close() error { return s.f.Close() }

func (s *Sink) Write(frame []byte) (int, error) { return s.f.Write(frame) }

var _ encoder.Sink = (*Sink)(nil)
