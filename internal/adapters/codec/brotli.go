package codec

import (
	"io"

	"github.com/andybalholm/brotli"

	"github.com/iamNilotpal/press/internal/core/domain"
	"github.com/iamNilotpal/press/internal/core/ports"
	"github.com/iamNilotpal/press/pkg/buffer"
)

// brotliCodec implements the codec contract on andybalholm's pure-Go
// brotli port (native quality 0-11).
type brotliCodec struct {
	pool *buffer.Pool
}

func newBrotliCodec() *brotliCodec {
	return &brotliCodec{pool: buffer.NewPool(scratchSize)}
}

func (c *brotliCodec) Algorithm() domain.Algorithm { return domain.Brotli }

func (c *brotliCodec) Compress(data []byte, nativeLevel int) ([]byte, error) {
	return compressThrough(domain.Brotli, c.pool, data, len(data)/2, func(w io.Writer) (io.WriteCloser, error) {
		return brotli.NewWriterLevel(w, nativeLevel), nil
	})
}

func (c *brotliCodec) Decompress(data []byte) ([]byte, error) {
	return decompressThrough(domain.Brotli, data, func(r io.Reader) (io.Reader, error) {
		return brotli.NewReader(r), nil
	})
}

func (c *brotliCodec) NewStreamCompressor(nativeLevel int) (ports.StreamCompressor, error) {
	return newWriterCompressor(domain.Brotli, func(w io.Writer) (io.WriteCloser, error) {
		return brotli.NewWriterLevel(w, nativeLevel), nil
	})
}

func (c *brotliCodec) NewStreamDecompressor() (ports.StreamDecompressor, error) {
	return newPipeDecompressor(domain.Brotli, func(r io.Reader) (io.Reader, error) {
		return brotli.NewReader(r), nil
	}), nil
}

func (c *brotliCodec) Close() error { return nil }
