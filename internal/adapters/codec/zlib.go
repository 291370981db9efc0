package codec

import (
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/iamNilotpal/press/internal/core/domain"
	"github.com/iamNilotpal/press/internal/core/ports"
	"github.com/iamNilotpal/press/pkg/buffer"
)

// zlibCodec implements the codec contract on klauspost's zlib (native
// levels 1-9). The format carries no content size, so one-shot
// decompression sizes its output through the shared growth policy.
type zlibCodec struct {
	pool *buffer.Pool
}

func newZlibCodec() *zlibCodec {
	return &zlibCodec{pool: buffer.NewPool(scratchSize)}
}

func (c *zlibCodec) Algorithm() domain.Algorithm { return domain.Zlib }

func (c *zlibCodec) Compress(data []byte, nativeLevel int) ([]byte, error) {
	return compressThrough(domain.Zlib, c.pool, data, len(data)/2, func(w io.Writer) (io.WriteCloser, error) {
		return zlib.NewWriterLevel(w, nativeLevel)
	})
}

func (c *zlibCodec) Decompress(data []byte) ([]byte, error) {
	return decompressThrough(domain.Zlib, data, func(r io.Reader) (io.Reader, error) {
		return zlib.NewReader(r)
	})
}

func (c *zlibCodec) NewStreamCompressor(nativeLevel int) (ports.StreamCompressor, error) {
	return newWriterCompressor(domain.Zlib, func(w io.Writer) (io.WriteCloser, error) {
		return zlib.NewWriterLevel(w, nativeLevel)
	})
}

func (c *zlibCodec) NewStreamDecompressor() (ports.StreamDecompressor, error) {
	return newPipeDecompressor(domain.Zlib, func(r io.Reader) (io.Reader, error) {
		return zlib.NewReader(r)
	}), nil
}

func (c *zlibCodec) Close() error { return nil }
