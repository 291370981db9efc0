// Package session implements the stateful streaming machines that drive
// incremental compression and decompression through a bounded, reusable
// output buffer. A session moves Active -> Finished or Active -> Error and
// never leaves a terminal state; callers own exactly one session and must
// Close it on every exit path.
package session

import (
	"github.com/iamNilotpal/press/internal/core/domain"
	"github.com/iamNilotpal/press/internal/core/ports"
	"github.com/iamNilotpal/press/pkg/errors"
)

// state tracks the session lifecycle.
type state uint8

const (
	stateActive state = iota
	stateFinished
	stateError
)

const (
	// DefaultBufferSize is the output buffer capacity used when options
	// leave it unset.
	DefaultBufferSize = 64 * 1024

	// MinBufferSize and MaxBufferSize bound the configurable capacity.
	MinBufferSize = 4 * 1024
	MaxBufferSize = 16 * 1024 * 1024
)

// CompressSession incrementally compresses caller-supplied chunks.
// The output buffer is owned by the session and reused across calls;
// every emitted chunk is copied out, so callers never observe the buffer
// being overwritten by the next call.
type CompressSession struct {
	algo   domain.Algorithm
	stream ports.StreamCompressor
	buf    []byte
	state  state
}

// NewCompressSession creates a session over a freshly created codec
// stream context at the given native level.
func NewCompressSession(codec ports.Codec, nativeLevel, bufferSize int) (*CompressSession, error) {
	stream, err := codec.NewStreamCompressor(nativeLevel)
	if err != nil {
		return nil, err
	}

	return &CompressSession{
		algo:   codec.Algorithm(),
		stream: stream,
		buf:    make([]byte, normalizeBufferSize(bufferSize)),
	}, nil
}

// Write feeds a chunk to the codec, looping until the codec reports the
// whole chunk consumed and stops filling the output buffer. Each
// non-empty output is returned as a discrete chunk in emission order.
func (s *CompressSession) Write(chunk []byte) ([][]byte, error) {
	if s.state != stateActive {
		return nil, errors.New(errors.KindStreamFinished, s.algo.String(), "session write")
	}

	var outputs [][]byte
	rem := chunk

	for {
		consumed, produced, err := s.stream.Write(rem, s.buf)
		if err != nil {
			s.fail()
			return nil, err
		}

		rem = rem[consumed:]
		if produced > 0 {
			outputs = append(outputs, copyOut(s.buf[:produced]))
		}

		// Done once all input is in and the codec no longer fills the
		// whole buffer.
		if len(rem) == 0 && produced < len(s.buf) {
			return outputs, nil
		}
	}
}

// Finish flushes the codec trailer, returning the final output chunks.
// The session transitions to Finished and releases its codec context;
// any further Write or Finish fails fast without touching the codec.
func (s *CompressSession) Finish() ([][]byte, error) {
	if s.state != stateActive {
		return nil, errors.New(errors.KindStreamFinished, s.algo.String(), "session finish")
	}

	var outputs [][]byte
	for {
		produced, err := s.stream.Finish(s.buf)
		if err != nil {
			s.fail()
			return nil, err
		}
		if produced == 0 {
			break
		}
		outputs = append(outputs, copyOut(s.buf[:produced]))
	}

	s.state = stateFinished
	s.release()
	return outputs, nil
}

// Close releases the codec context and buffer. Idempotent and safe after
// errors; an active session transitions to Error.
func (s *CompressSession) Close() error {
	if s.state == stateActive {
		s.state = stateError
	}
	s.release()
	return nil
}

func (s *CompressSession) fail() {
	s.state = stateError
	s.release()
}

func (s *CompressSession) release() {
	if s.stream != nil {
		s.stream.Close()
		s.stream = nil
	}
	s.buf = nil
}

// DecompressSession incrementally decompresses caller-supplied chunks
// with the same lifecycle and copy-out rules as CompressSession.
type DecompressSession struct {
	algo   domain.Algorithm
	stream ports.StreamDecompressor
	buf    []byte
	state  state
}

// NewDecompressSession creates a session over a freshly created codec
// stream context.
func NewDecompressSession(codec ports.Codec, bufferSize int) (*DecompressSession, error) {
	stream, err := codec.NewStreamDecompressor()
	if err != nil {
		return nil, err
	}

	return &DecompressSession{
		algo:   codec.Algorithm(),
		stream: stream,
		buf:    make([]byte, normalizeBufferSize(bufferSize)),
	}, nil
}

// Write feeds compressed bytes to the codec and returns the decoded
// chunks available so far, in input order.
func (s *DecompressSession) Write(chunk []byte) ([][]byte, error) {
	if s.state != stateActive {
		return nil, errors.New(errors.KindStreamFinished, s.algo.String(), "session write")
	}

	var outputs [][]byte
	rem := chunk

	for {
		consumed, produced, err := s.stream.Write(rem, s.buf)
		if err != nil {
			s.fail()
			return nil, err
		}

		rem = rem[consumed:]
		if produced > 0 {
			outputs = append(outputs, copyOut(s.buf[:produced]))
		}

		if len(rem) == 0 && produced < len(s.buf) {
			return outputs, nil
		}
	}
}

// Finish verifies the stream reached its own end-of-stream marker and
// drains any remaining decoded bytes. A stream that ends before the
// marker fails with an unexpected-EOF error rather than succeeding
// silently.
func (s *DecompressSession) Finish() ([][]byte, error) {
	if s.state != stateActive {
		return nil, errors.New(errors.KindStreamFinished, s.algo.String(), "session finish")
	}

	if err := s.stream.Finish(); err != nil {
		s.fail()
		return nil, err
	}

	var outputs [][]byte
	for {
		produced, err := s.stream.Drain(s.buf)
		if err != nil {
			s.fail()
			return nil, err
		}
		if produced == 0 {
			break
		}
		outputs = append(outputs, copyOut(s.buf[:produced]))
	}

	s.state = stateFinished
	s.release()
	return outputs, nil
}

// Close releases the codec context and buffer. Idempotent and safe after
// errors; an active session transitions to Error.
func (s *DecompressSession) Close() error {
	if s.state == stateActive {
		s.state = stateError
	}
	s.release()
	return nil
}

func (s *DecompressSession) fail() {
	s.state = stateError
	s.release()
}

func (s *DecompressSession) release() {
	if s.stream != nil {
		s.stream.Close()
		s.stream = nil
	}
	s.buf = nil
}

func normalizeBufferSize(size int) int {
	if size == 0 {
		return DefaultBufferSize
	}
	if size < MinBufferSize {
		return MinBufferSize
	}
	if size > MaxBufferSize {
		return MaxBufferSize
	}
	return size
}

// copyOut snapshots a slice of the reusable buffer. Returning a view
// would be a correctness bug: the next call overwrites the buffer.
func copyOut(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
