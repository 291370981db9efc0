package codec

import (
	"io"

	"github.com/ulikunitz/xz"

	"github.com/iamNilotpal/press/internal/core/domain"
	"github.com/iamNilotpal/press/internal/core/ports"
	"github.com/iamNilotpal/press/pkg/buffer"
)

// xzCodec implements the codec contract on ulikunitz's xz (native presets
// 0-9). The library exposes no preset knob, so the native level selects
// the dictionary capacity of the corresponding standard xz preset.
type xzCodec struct {
	pool *buffer.Pool
}

func newXZCodec() *xzCodec {
	return &xzCodec{pool: buffer.NewPool(scratchSize)}
}

// xzDictCaps are the dictionary sizes of xz presets 0-9.
var xzDictCaps = []int{
	256 << 10, // 0: 256KiB
	1 << 20,   // 1
	2 << 20,   // 2
	4 << 20,   // 3
	4 << 20,   // 4
	8 << 20,   // 5
	8 << 20,   // 6
	16 << 20,  // 7
	32 << 20,  // 8
	64 << 20,  // 9
}

func xzWriterConfig(nativeLevel int) xz.WriterConfig {
	if nativeLevel < 0 {
		nativeLevel = 0
	}
	if nativeLevel >= len(xzDictCaps) {
		nativeLevel = len(xzDictCaps) - 1
	}
	return xz.WriterConfig{DictCap: xzDictCaps[nativeLevel]}
}

func (c *xzCodec) Algorithm() domain.Algorithm { return domain.XZ }

func (c *xzCodec) Compress(data []byte, nativeLevel int) ([]byte, error) {
	cfg := xzWriterConfig(nativeLevel)
	return compressThrough(domain.XZ, c.pool, data, len(data)/2, func(w io.Writer) (io.WriteCloser, error) {
		return cfg.NewWriter(w)
	})
}

func (c *xzCodec) Decompress(data []byte) ([]byte, error) {
	return decompressThrough(domain.XZ, data, func(r io.Reader) (io.Reader, error) {
		return xz.NewReader(r)
	})
}

func (c *xzCodec) NewStreamCompressor(nativeLevel int) (ports.StreamCompressor, error) {
	cfg := xzWriterConfig(nativeLevel)
	return newWriterCompressor(domain.XZ, func(w io.Writer) (io.WriteCloser, error) {
		return cfg.NewWriter(w)
	})
}

func (c *xzCodec) NewStreamDecompressor() (ports.StreamDecompressor, error) {
	return newPipeDecompressor(domain.XZ, func(r io.Reader) (io.Reader, error) {
		return xz.NewReader(r)
	}), nil
}

func (c *xzCodec) Close() error { return nil }
