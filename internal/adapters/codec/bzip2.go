package codec

import (
	"io"

	"github.com/dsnet/compress/bzip2"

	"github.com/iamNilotpal/press/internal/core/domain"
	"github.com/iamNilotpal/press/internal/core/ports"
	"github.com/iamNilotpal/press/pkg/buffer"
)

// bzip2Codec implements the codec contract on dsnet's bzip2 (native
// levels 1-9; the standard library reader has no matching writer).
type bzip2Codec struct {
	pool *buffer.Pool
}

func newBzip2Codec() *bzip2Codec {
	return &bzip2Codec{pool: buffer.NewPool(scratchSize)}
}

func (c *bzip2Codec) Algorithm() domain.Algorithm { return domain.Bzip2 }

// bzip2Bound is the additive worst case for bzip2 output; the format has
// no bound function, so the scratch buffer is sized with input + 1% + 600.
func bzip2Bound(n int) int {
	return n + n/100 + 600
}

func (c *bzip2Codec) Compress(data []byte, nativeLevel int) ([]byte, error) {
	return compressThrough(domain.Bzip2, c.pool, data, bzip2Bound(len(data)), func(w io.Writer) (io.WriteCloser, error) {
		return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: nativeLevel})
	})
}

func (c *bzip2Codec) Decompress(data []byte) ([]byte, error) {
	return decompressThrough(domain.Bzip2, data, func(r io.Reader) (io.Reader, error) {
		return bzip2.NewReader(r, nil)
	})
}

func (c *bzip2Codec) NewStreamCompressor(nativeLevel int) (ports.StreamCompressor, error) {
	return newWriterCompressor(domain.Bzip2, func(w io.Writer) (io.WriteCloser, error) {
		return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: nativeLevel})
	})
}

func (c *bzip2Codec) NewStreamDecompressor() (ports.StreamDecompressor, error) {
	return newPipeDecompressor(domain.Bzip2, func(r io.Reader) (io.Reader, error) {
		return bzip2.NewReader(r, nil)
	}), nil
}

func (c *bzip2Codec) Close() error { return nil }
