package buffer

import (
	"errors"
	"io"
)

// ErrGrowthExceeded is returned when the growth retry ceiling is reached.
// The ceiling bounds worst-case memory blowup from hostile or corrupt
// input; adapters translate it into the buffer-too-small error kind.
var ErrGrowthExceeded = errors.New("output buffer growth ceiling exceeded")

const (
	// DefaultDecompressFloor is the minimum starting size for decompression
	// output buffers.
	DefaultDecompressFloor = 16 * 1024

	// DefaultCompressFloor is the minimum starting size for compression
	// output buffers on edge cases (tiny inputs still need trailer room).
	DefaultCompressFloor = 1024

	// DefaultGrowthFactor multiplies the input size to estimate the initial
	// decompression output size.
	DefaultGrowthFactor = 4

	// DefaultMaxGrows caps how many times a buffer may double before the
	// operation fails.
	DefaultMaxGrows = 10
)

// Growth is the sizing policy for output buffers when a codec cannot report
// the exact output size up front: start at max(Floor, input*Factor), double
// on exhaustion, and give up past MaxGrows.
type Growth struct {
	Floor    int // Minimum starting size in bytes.
	Factor   int // Multiple of the input size used for the starting size.
	MaxGrows int // Number of doublings allowed before failing.
}

// DecompressGrowth returns the recommended policy for decompression output.
func DecompressGrowth() Growth {
	return Growth{
		Floor:    DefaultDecompressFloor,
		Factor:   DefaultGrowthFactor,
		MaxGrows: DefaultMaxGrows,
	}
}

// Initial computes the starting buffer size for the given input size.
func (g Growth) Initial(inputSize int) int {
	size := inputSize * g.Factor
	if size < g.Floor {
		size = g.Floor
	}
	return size
}

// ReadAll reads r to completion into a buffer sized by the policy,
// doubling it each time it fills. It fails with ErrGrowthExceeded once the
// doubling ceiling is hit, and otherwise returns a buffer truncated to
// exactly the bytes read — callers never see trailing garbage.
func (g Growth) ReadAll(r io.Reader, inputSize int) ([]byte, error) {
	buf := make([]byte, g.Initial(inputSize))
	filled := 0
	grows := 0

	for {
		if filled == len(buf) {
			if grows >= g.MaxGrows {
				return nil, ErrGrowthExceeded
			}
			grows++

			next := make([]byte, len(buf)*2)
			copy(next, buf)
			buf = next
		}

		n, err := r.Read(buf[filled:])
		filled += n

		if err == io.EOF {
			return buf[:filled], nil
		}
		if err != nil {
			return nil, err
		}
	}
}
