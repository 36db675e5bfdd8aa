package decoder

// ByteSource is the input-stream collaborator the framer pulls from when
// its ring buffer runs dry. Implementations wrap a file, an in-memory
// slice, or a non-blocking port.
type ByteSource interface {
	// ReadInto fills buf with the next available bytes. n is always the
	// number of bytes actually written into buf. eof is true once the
	// source is exhausted and will never yield more data. A non-blocking
	// source that has nothing available right now returns n == 0,
	// eof == false, err == nil, and the caller retries later.
	ReadInto(buf []byte) (n int, eof bool, err error)

	// IsCallbackMode reports whether data arrives out-of-band (pushed
	// into the decoder's ring buffer by a producer) rather than being
	// pulled by ReadInto.
	IsCallbackMode() bool
}
