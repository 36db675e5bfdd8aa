// Package filesource adapts an *os.File to decoder.ByteSource.
package filesource

import (
	"io"
	"os"

	"github.com/novatel/novadec/pkg/decoder"
)

// Source pulls from an open file, reporting eof once io.EOF is reached.
type Source struct {
	f *os.File
}

// Open opens path for reading.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Source{f: f}, nil
}

// Close releases the underlying file.
func (s *Source) Close() error { return s.f.Close() }

func (s *Source) ReadInto(buf []byte) (n int, eof bool, err error) {
	n, err = s.f.Read(buf)
	if err == io.EOF {
		return n, true, nil
	}
	if err != nil {
		return n, false, err
	}
	return n, false, nil
}

func (s *Source) IsCallbackMode() bool { return false }

var _ decoder.ByteSource = (*Source)(nil)
