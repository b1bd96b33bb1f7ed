package frame

import "errors"

var (
	// ErrEmptyInput is returned for zero-length messages.
	ErrEmptyInput = errors.New("frame: empty input")
	// ErrAllocationFailure is returned when the output cannot be sized,
	// i.e. the message does not fit the 32-bit length field.
	ErrAllocationFailure = errors.New("frame: output buffer could not be allocated")
	// ErrIntegrityCheckFailed is returned when the decrypted header magic
	// does not match: wrong key, corruption or foreign data.
	ErrIntegrityCheckFailed = errors.New("frame: integrity check failed")
	// ErrInvalidEncoding is returned for malformed hex input.
	ErrInvalidEncoding = errors.New("frame: invalid hex encoding")
)
