// Package memsource adapts an in-memory byte slice to decoder.ByteSource.
package memsource

import "github.com/novatel/novadec/pkg/decoder"

// Source serves bytes from a fixed in-memory buffer, reporting eof once
// exhausted. It never blocks, so it is also the reference ByteSource for
// unit tests.
type Source struct {
	data []byte
	pos  int
}

// New wraps data for sequential, non-blocking reads.
func New(data []byte) *Source {
	return &Source{data: data}
}

func (s *Source) ReadInto(buf []byte) (n int, eof bool, err error) {
	if s.pos >= len(s.data) {
		return 0, true, nil
	}
	n = copy(buf, s.data[s.pos:])
	s.pos += n
	return n, false, nil
}

func (s *Source) IsCallbackMode() bool { return false }

var _ decoder.ByteSource = (*Source)(nil)
