// Package errors defines the typed error taxonomy for the compression
// toolkit. Every failure reported by an underlying codec library is
// converted into one of these kinds at the adapter boundary, so callers can
// branch on failure class without string matching.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies the failures a compression or decompression operation can
// produce. This drives error handling, logging, and retry decisions.
type Kind int

const (
	// KindInvalidInput indicates malformed or empty input where the
	// operation disallows it.
	KindInvalidInput Kind = iota + 1

	// KindInvalidLevel indicates an out-of-range or unparseable unified
	// compression level. Levels are rejected, never silently clamped.
	KindInvalidLevel

	// KindBufferTooSmall indicates the bounded buffer-growth retry loop
	// exceeded its ceiling. This caps worst-case memory blowup from
	// hostile or corrupt input.
	KindBufferTooSmall

	// KindBackendInit indicates a codec backend failed to initialize.
	KindBackendInit

	// KindOutOfMemory indicates an allocation failure inside an adapter.
	KindOutOfMemory

	// KindCompression indicates a generic codec-reported compression
	// failure.
	KindCompression

	// KindDecompression indicates a generic codec-reported decompression
	// failure.
	KindDecompression

	// KindCorruptedData indicates structurally invalid compressed input.
	KindCorruptedData

	// KindUnexpectedEOF indicates truncated compressed input: the logical
	// stream ended before the container's own end-of-stream marker.
	KindUnexpectedEOF

	// KindStreamFinished indicates a call on a streaming session that has
	// already reached a terminal state (finished or errored).
	KindStreamFinished
)

// String returns the string representation of the error kind.
// This is useful for logging, metrics, and error reporting.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindInvalidLevel:
		return "invalid level"
	case KindBufferTooSmall:
		return "buffer too small"
	case KindBackendInit:
		return "backend init failed"
	case KindOutOfMemory:
		return "out of memory"
	case KindCompression:
		return "compression failed"
	case KindDecompression:
		return "decompression failed"
	case KindCorruptedData:
		return "corrupted data"
	case KindUnexpectedEOF:
		return "unexpected eof"
	case KindStreamFinished:
		return "stream already finished"
	default:
		return "unknown"
	}
}

// CodecError is the error type returned by every operation in the toolkit.
// It carries the failure kind, the algorithm involved, and the operation
// that failed, along with the underlying cause when one exists.
type CodecError struct {
	Kind      Kind
	Algorithm string
	Operation string
	Err       error
}

func (e *CodecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Kind, e.Algorithm, e.Operation, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Algorithm, e.Operation)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// New creates a CodecError without an underlying cause.
func New(kind Kind, algorithm, operation string) *CodecError {
	return &CodecError{Kind: kind, Algorithm: algorithm, Operation: operation}
}

// Wrap creates a CodecError around an underlying cause.
func Wrap(kind Kind, algorithm, operation string, err error) *CodecError {
	return &CodecError{Kind: kind, Algorithm: algorithm, Operation: operation, Err: err}
}

// IsKind reports whether err is (or wraps) a CodecError of the given kind.
func IsKind(err error, kind Kind) bool {
	var ce *CodecError
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}

// AsCodecError extracts a CodecError from err, or returns nil.
func AsCodecError(err error) *CodecError {
	var ce *CodecError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}
