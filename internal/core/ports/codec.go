// Package ports declares the contracts between the compression services and
// the per-algorithm codec adapters. Services depend only on these interfaces,
// which allows swapping codec libraries without touching core logic.
package ports

import "github.com/iamNilotpal/press/internal/core/domain"

// Codec is the five-operation contract every algorithm adapter implements:
// one-shot compress, one-shot decompress, and factories for the two
// streaming directions. Adapters share no state; a Codec is safe for
// concurrent use, but each stream returned by the factories is owned by a
// single caller.
//
// Adapters translate every failure reported by the underlying library into
// the typed taxonomy of pkg/errors before returning; no library sentinel
// (nil pointer, negative count) crosses this boundary.
type Codec interface {
	// Algorithm returns the identifier this codec serves.
	Algorithm() domain.Algorithm

	// Compress compresses data in one call at the given native level.
	// The native level must already be inside the codec's own range;
	// unified-level translation happens in the level service.
	Compress(data []byte, nativeLevel int) ([]byte, error)

	// Decompress decompresses data in one call. The returned buffer is
	// freshly allocated and exactly sized.
	Decompress(data []byte) ([]byte, error)

	// NewStreamCompressor creates an incremental compressor at the given
	// native level. The caller must Close it on every exit path.
	NewStreamCompressor(nativeLevel int) (StreamCompressor, error)

	// NewStreamDecompressor creates an incremental decompressor.
	// The caller must Close it on every exit path.
	NewStreamDecompressor() (StreamDecompressor, error)

	// Close releases any long-lived resources held by the codec itself
	// (not by individual streams).
	Close() error
}

// StreamCompressor drives incremental compression against caller-supplied
// bounded output buffers. A single Write call may consume only part of its
// input when out fills up; the caller loops until everything is consumed
// and the codec stops filling out.
type StreamCompressor interface {
	// Write feeds in to the codec and drains pending compressed bytes into
	// out. It returns how many input bytes were consumed and how many
	// output bytes were produced. consumed < len(in) means out ran out of
	// room; call again with the remainder. produced == len(out) means more
	// output may be pending.
	Write(in, out []byte) (consumed, produced int, err error)

	// Finish flushes the codec's trailer into out across repeated calls.
	// It returns 0 once everything has been flushed. Write must not be
	// called after the first Finish.
	Finish(out []byte) (produced int, err error)

	// Close releases the codec context. Idempotent.
	Close() error
}

// StreamDecompressor mirrors StreamCompressor for the decode direction.
type StreamDecompressor interface {
	// Write feeds compressed bytes in and drains decoded bytes into out.
	// Semantics match StreamCompressor.Write.
	Write(in, out []byte) (consumed, produced int, err error)

	// Finish signals end of input and verifies the underlying stream
	// reached its own end-of-stream marker. Truncated input fails with
	// UnexpectedEof; it is never a silent success. Decoded bytes still
	// pending after Finish are drained with Drain.
	Finish() error

	// Drain copies decoded bytes still buffered after Finish into out,
	// returning 0 once empty.
	Drain(out []byte) (produced int, err error)

	// Close releases the codec context. Idempotent.
	Close() error
}
