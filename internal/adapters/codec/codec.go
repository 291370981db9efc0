// Package codec wraps each supported compression library behind the fixed
// five-operation contract declared in ports. One file per algorithm;
// adapters share no state and differ only in how they talk to their
// library. All library failures are converted into the typed error
// taxonomy here — no sentinel value leaves this package.
package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/iamNilotpal/press/internal/core/domain"
	"github.com/iamNilotpal/press/internal/core/ports"
	"github.com/iamNilotpal/press/pkg/buffer"
	"github.com/iamNilotpal/press/pkg/errors"
)

// scratchSize is the starting capacity of pooled one-shot buffers.
const scratchSize = 64 * 1024

// New constructs the adapter for the given algorithm. Construction is the
// "backend initialization" step the registry caches and deduplicates; for
// zstd it builds the long-lived encoder and decoder.
func New(algo domain.Algorithm, opts *domain.Options) (ports.Codec, error) {
	switch algo {
	case domain.Zstd:
		return newZstdCodec(opts)
	case domain.Brotli:
		return newBrotliCodec(), nil
	case domain.Zlib:
		return newZlibCodec(), nil
	case domain.Bzip2:
		return newBzip2Codec(), nil
	case domain.LZ4:
		return newLZ4Codec(), nil
	case domain.XZ:
		return newXZCodec(), nil
	default:
		return nil, errors.Wrap(
			errors.KindBackendInit, algo.String(), "create codec",
			fmt.Errorf("unsupported algorithm %q", algo),
		)
	}
}

// compressThrough runs a one-shot compression through a codec writer using
// a pooled scratch buffer. The result is copied out so the scratch can be
// reused; callers never alias pooled memory.
func compressThrough(algo domain.Algorithm, pool *buffer.Pool, data []byte, sizeHint int, open func(io.Writer) (io.WriteCloser, error)) ([]byte, error) {
	scratch := pool.Get()
	defer pool.Put(scratch)

	if sizeHint > 0 {
		scratch.Grow(sizeHint)
	}

	w, err := open(scratch)
	if err != nil {
		return nil, errors.Wrap(errors.KindCompression, algo.String(), "compress", err)
	}

	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, errors.Wrap(errors.KindCompression, algo.String(), "compress", err)
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(errors.KindCompression, algo.String(), "compress", err)
	}

	out := make([]byte, scratch.Len())
	copy(out, scratch.Bytes())
	return out, nil
}

// decompressThrough runs a one-shot decompression through a codec reader,
// sizing the output with the shared growth policy.
func decompressThrough(algo domain.Algorithm, data []byte, open func(io.Reader) (io.Reader, error)) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New(errors.KindInvalidInput, algo.String(), "decompress: empty input")
	}

	r, err := open(bytes.NewReader(data))
	if err != nil {
		return nil, classifyDecodeErr(algo, "decompress", err)
	}

	out, err := buffer.DecompressGrowth().ReadAll(r, len(data))
	if err != nil {
		if err == buffer.ErrGrowthExceeded {
			return nil, errors.Wrap(errors.KindBufferTooSmall, algo.String(), "decompress", err)
		}
		return nil, classifyDecodeErr(algo, "decompress", err)
	}

	return out, nil
}

func classifyDecodeErr(algo domain.Algorithm, op string, err error) error {
	kind := errors.KindCorruptedData
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		kind = errors.KindUnexpectedEOF
	}
	return errors.Wrap(kind, algo.String(), op, err)
}
