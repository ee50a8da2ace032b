package pbm

import (
	"errors"
	"fmt"
)

// Sizing and capability errors
var (
	// ErrEmptyInput indicates the input contains no bits to encode
	ErrEmptyInput = errors.New("pbm: input is empty")

	// ErrAspectConflict indicates an aspect ratio was combined with an explicit width or height
	ErrAspectConflict = errors.New("pbm: aspect with width or height is given")

	// ErrWidthNotByteAligned indicates a width that is not a multiple of 8
	ErrWidthNotByteAligned = errors.New("pbm: width must be multiple of 8")

	// ErrImageExceedsInput indicates width*height needs more bits than the input has
	ErrImageExceedsInput = errors.New("pbm: width * height > input size")

	// ErrWidthTooLarge indicates the derived height rounds down to zero
	ErrWidthTooLarge = errors.New("pbm: width is too large")

	// ErrHeightTooLarge indicates the derived width rounds down to zero
	ErrHeightTooLarge = errors.New("pbm: height is too large")

	// ErrOutputNotSeekable indicates streamed input combined with non-seekable output
	ErrOutputNotSeekable = errors.New("pbm: cannot determine input size and output is not seekable")

	// ErrInvalidBlockSize indicates a non-positive transfer block size
	ErrInvalidBlockSize = errors.New("pbm: block size must be positive")

	// ErrInvalidHeader indicates a header that is not a valid P4 preamble
	ErrInvalidHeader = errors.New("pbm: invalid P4 header")
)

// IOError wraps a read, write or seek failure so callers can tell device
// failures apart from sizing errors.
type IOError struct {
	Op  string // operation that failed: "read", "write", "seek"
	Err error
}

// Error returns the formatted error message
func (e *IOError) Error() string {
	return fmt.Sprintf("pbm: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *IOError) Unwrap() error {
	return e.Err
}

// IsIOError reports whether err is (or wraps) an IOError.
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}
