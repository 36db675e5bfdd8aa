// Package serialstream adapts a tarm/goserial port to decoder.ByteSource.
package serialstream

import (
	serial "github.com/tarm/goserial"

	"github.com/novatel/novadec/pkg/decoder"
)

// Source wraps an open serial port. Reads block for at most the port's
// configured timeout, after which ReadInto returns n == 0 and eof ==
// false so the decoder's Next retries rather than treating a quiet port
// as end of stream.
type Source struct {
	io serialPort
}

type serialPort interface {
	Read(p []byte) (int, error)
	Close() error
}

// Open opens name (e.g. "/dev/ttyUSB0", "COM3") at baud.
func Open(name string, baud int) (*Source, error) {
	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, err
	}
	return &Source{io: port}, nil
}

// Close releases the underlying port.
func (s *Source) Close() error { return s.io.Close() }

func (s *Source) ReadInto(buf []byte) (n int, eof bool, err error) {
	n, err = s.io.Read(buf)
	if err != nil {
		// a port read timeout is not end of stream: the caller retries.
		return 0, false, nil
	}
	return n, false, nil
}

func (s *Source) IsCallbackMode() bool { return false }

var _ decoder.ByteSource = (*Source)(nil)
