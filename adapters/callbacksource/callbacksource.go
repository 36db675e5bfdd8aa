// Package callbacksource adapts an out-of-band push producer to
// decoder.ByteSource: IsCallbackMode reports true, so Decoder.Next never
// pulls through ReadInto. The producer instead calls Decoder.Feed
// directly whenever new bytes arrive (a socket callback, a mapped-file
// append notification, and so on).
package callbacksource

import "github.com/novatel/novadec/pkg/decoder"

// Source carries no state of its own; it only tells Decoder.Next to
// stop pulling and rely on Decoder.Feed instead.
type Source struct{}

// New returns a callback-mode marker for Decoder.Next.
func New() *Source { return &Source{} }

// ReadInto is never called by Decoder.Next for a callback-mode source;
// it returns immediately with nothing read.
func (s *Source) ReadInto(buf []byte) (n int, eof bool, err error) {
	return 0, false, nil
}

func (s *Source) IsCallbackMode() bool { return true }

var _ decoder.ByteSource = (*Source)(nil)
