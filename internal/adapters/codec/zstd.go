package codec

import (
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/multierr"

	"github.com/iamNilotpal/press/internal/core/domain"
	"github.com/iamNilotpal/press/internal/core/ports"
	"github.com/iamNilotpal/press/pkg/errors"
)

// zstdCodec implements the codec contract on klauspost's zstd. A single
// thread-safe decoder serves every one-shot decompression; encoders are
// built lazily per speed class, since the library quantizes native zstd
// levels (1-22) onto four encoder levels. Streams get their own encoder or
// decoder context so no two logical streams share state.
type zstdCodec struct {
	encConcurrency int
	decConcurrency int

	decoder *zstd.Decoder

	mu       sync.Mutex
	encoders map[zstd.EncoderLevel]*zstd.Encoder
}

func newZstdCodec(opts *domain.Options) (*zstdCodec, error) {
	encConc, decConc := 1, 1
	if opts != nil {
		if opts.EncoderConcurrency > 0 {
			encConc = opts.EncoderConcurrency
		}
		if opts.DecoderConcurrency > 0 {
			decConc = opts.DecoderConcurrency
		}
	}

	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(decConc))
	if err != nil {
		return nil, errors.Wrap(errors.KindBackendInit, domain.Zstd.String(), "create decoder", err)
	}

	return &zstdCodec{
		decoder:        decoder,
		encConcurrency: encConc,
		decConcurrency: decConc,
		encoders:       make(map[zstd.EncoderLevel]*zstd.Encoder),
	}, nil
}

func (c *zstdCodec) Algorithm() domain.Algorithm { return domain.Zstd }

// encoderFor returns the shared encoder for the speed class covering the
// native level, creating it on first use.
func (c *zstdCodec) encoderFor(nativeLevel int) (*zstd.Encoder, error) {
	class := zstd.EncoderLevelFromZstd(nativeLevel)

	c.mu.Lock()
	defer c.mu.Unlock()

	if enc, ok := c.encoders[class]; ok {
		return enc, nil
	}

	// WithZeroFrames makes EncodeAll emit a valid empty frame for empty
	// input instead of zero bytes; empty payloads must round-trip.
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderLevel(class),
		zstd.WithEncoderConcurrency(c.encConcurrency),
		zstd.WithZeroFrames(true),
	)
	if err != nil {
		return nil, errors.Wrap(errors.KindBackendInit, domain.Zstd.String(), "create encoder", err)
	}

	c.encoders[class] = enc
	return enc, nil
}

func (c *zstdCodec) Compress(data []byte, nativeLevel int) ([]byte, error) {
	enc, err := c.encoderFor(nativeLevel)
	if err != nil {
		return nil, err
	}
	return enc.EncodeAll(data, nil), nil
}

// Decompress uses DecodeAll, which reads the frame-header content size
// when present and sizes the output directly from it.
func (c *zstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New(errors.KindInvalidInput, domain.Zstd.String(), "decompress: empty input")
	}

	out, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, classifyDecodeErr(domain.Zstd, "decompress", err)
	}
	return out, nil
}

func (c *zstdCodec) NewStreamCompressor(nativeLevel int) (ports.StreamCompressor, error) {
	return newWriterCompressor(domain.Zstd, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(
			w,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(nativeLevel)),
			zstd.WithEncoderConcurrency(1),
			zstd.WithZeroFrames(true),
		)
	})
}

func (c *zstdCodec) NewStreamDecompressor() (ports.StreamDecompressor, error) {
	return newPipeDecompressor(domain.Zstd, func(r io.Reader) (io.Reader, error) {
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return &zstdStreamReader{dec: dec}, nil
	}), nil
}

// Close releases the shared decoder and every cached encoder. The codec
// must not be used afterwards.
func (c *zstdCodec) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs error
	for class, enc := range c.encoders {
		errs = multierr.Append(errs, enc.Close())
		delete(c.encoders, class)
	}

	c.decoder.Close()
	if errs != nil {
		return errors.Wrap(errors.KindCompression, domain.Zstd.String(), "close encoder", errs)
	}
	return nil
}

// zstdStreamReader gives the stream decoder an io.Closer so the pipe
// driver can release its goroutines after the stream ends.
type zstdStreamReader struct {
	dec *zstd.Decoder
}

func (r *zstdStreamReader) Read(p []byte) (int, error) { return r.dec.Read(p) }

func (r *zstdStreamReader) Close() error {
	r.dec.Close()
	return nil
}
