// Package press provides a unified compression and decompression surface
// over multiple algorithms (zstd, brotli, zlib, bz2, lz4, xz) with one
// shared mental model: a 1-10 compression level, one-shot calls for whole
// buffers, and streaming sessions for incremental work. Each Compressor is
// bound to one algorithm; codec backends are initialized lazily on first
// use and cached for the Compressor's lifetime.
package press

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/iamNilotpal/press/internal/core/domain"
	"github.com/iamNilotpal/press/internal/core/services/level"
	"github.com/iamNilotpal/press/internal/core/services/registry"
	"github.com/iamNilotpal/press/internal/core/services/session"
	"github.com/iamNilotpal/press/pkg/errors"
	"github.com/iamNilotpal/press/pkg/system"
)

// Algorithm identifies a supported compression algorithm.
type Algorithm = domain.Algorithm

// Supported algorithms.
const (
	Zstd   = domain.Zstd
	Brotli = domain.Brotli
	Zlib   = domain.Zlib
	Bzip2  = domain.Bzip2
	LZ4    = domain.LZ4
	XZ     = domain.XZ
)

// Named levels on the unified 1-10 scale.
const (
	LevelFast     = level.Min
	LevelBalanced = level.Default
	LevelBest     = level.Max
)

// Options configures a Compressor. See the field documentation on
// domain.Options; zero values resolve to defaults during validation.
type Options = domain.Options

// CompressSession incrementally compresses chunks; see NewCompressSession.
type CompressSession = session.CompressSession

// DecompressSession incrementally decompresses chunks; see
// NewDecompressSession.
type DecompressSession = session.DecompressSession

// DefaultOptions returns options with recommended defaults: zstd at the
// balanced level.
func DefaultOptions() *Options {
	return &Options{
		Algorithm:          domain.Zstd,
		Level:              level.Default,
		SessionBufferSize:  session.DefaultBufferSize,
		EncoderConcurrency: 1,
		DecoderConcurrency: 1,
	}
}

// Compressor is the caller-facing object bound to one algorithm and one
// configured level. It is safe for concurrent use; each streaming session
// it creates is owned by a single caller.
type Compressor struct {
	algo     domain.Algorithm
	level    int
	bufSize  int
	registry *registry.Registry
}

// New creates a Compressor. opts may be nil for defaults; an optional
// logger receives backend lifecycle events.
func New(opts *Options, log *zap.SugaredLogger) (*Compressor, error) {
	if opts == nil {
		opts = DefaultOptions()
	} else {
		opts = prepareDefaults(opts)
	}

	if err := Validate(opts); err != nil {
		return nil, err
	}

	return &Compressor{
		algo:     opts.Algorithm,
		level:    opts.Level,
		bufSize:  opts.SessionBufferSize,
		registry: registry.New(opts, log),
	}, nil
}

// Algorithm returns the algorithm this Compressor is bound to.
func (c *Compressor) Algorithm() Algorithm { return c.algo }

// Level returns the configured unified level.
func (c *Compressor) Level() int { return c.level }

// Compress compresses data in one call at the configured level.
func (c *Compressor) Compress(ctx context.Context, data []byte) ([]byte, error) {
	return c.CompressLevel(ctx, data, c.level)
}

// CompressLevel compresses data at an explicit unified level, overriding
// the configured one for this call only.
func (c *Compressor) CompressLevel(ctx context.Context, data []byte, unified int) ([]byte, error) {
	native, err := level.Native(unified, c.algo)
	if err != nil {
		return nil, err
	}

	codec, err := c.registry.Get(ctx, c.algo)
	if err != nil {
		return nil, err
	}

	return codec.Compress(data, native)
}

// CompressString compresses the UTF-8 bytes of s at the configured level.
func (c *Compressor) CompressString(ctx context.Context, s string) ([]byte, error) {
	return c.Compress(ctx, []byte(s))
}

// Decompress decompresses data in one call. The result is always a fresh
// buffer sized exactly to the decoded length.
func (c *Compressor) Decompress(ctx context.Context, data []byte) ([]byte, error) {
	codec, err := c.registry.Get(ctx, c.algo)
	if err != nil {
		return nil, err
	}
	return codec.Decompress(data)
}

// DecompressToString decompresses data and interprets the result as
// UTF-8, failing with an invalid-input error when it is not valid text.
func (c *Compressor) DecompressToString(ctx context.Context, data []byte) (string, error) {
	out, err := c.Decompress(ctx, data)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(out) {
		return "", errors.Wrap(
			errors.KindInvalidInput, c.algo.String(), "decompress to string",
			fmt.Errorf("output is not valid utf-8"),
		)
	}
	return string(out), nil
}

// NewCompressSession creates a streaming compression session at the
// configured level. The caller must Close it on every exit path.
func (c *Compressor) NewCompressSession(ctx context.Context) (*CompressSession, error) {
	native, err := level.Native(c.level, c.algo)
	if err != nil {
		return nil, err
	}

	codec, err := c.registry.Get(ctx, c.algo)
	if err != nil {
		return nil, err
	}

	return session.NewCompressSession(codec, native, c.bufSize)
}

// NewDecompressSession creates a streaming decompression session.
// The caller must Close it on every exit path.
func (c *Compressor) NewDecompressSession(ctx context.Context) (*DecompressSession, error) {
	codec, err := c.registry.Get(ctx, c.algo)
	if err != nil {
		return nil, err
	}

	return session.NewDecompressSession(codec, c.bufSize)
}

// WithAlgorithm returns a Compressor bound to a different algorithm that
// shares this one's codec cache and configuration. Closing either instance
// closes the shared cache.
func (c *Compressor) WithAlgorithm(algo Algorithm) (*Compressor, error) {
	if !algo.IsValid() {
		return nil, errors.NewValidationError(
			"algorithm", algo,
			fmt.Errorf("unsupported algorithm %q", algo),
		)
	}

	out := *c
	out.algo = algo
	return &out, nil
}

// Preload initializes the codec backend ahead of first use, eliminating
// first-call latency.
func (c *Compressor) Preload(ctx context.Context) error {
	return c.registry.Preload(ctx, c.algo)
}

// IsReady reports whether the codec backend is initialized, without
// triggering initialization.
func (c *Compressor) IsReady() bool {
	return c.registry.IsReady(c.algo)
}

// Close releases every cached codec backend. The context bounds how long
// teardown may run; resources are still released when it expires.
func (c *Compressor) Close(ctx context.Context) error {
	return system.RunWithContext(ctx, func(context.Context) error {
		return c.registry.Close()
	})
}

// ParseLevel resolves a textual level: a named preset ("fast",
// "balanced", "best") or a decimal integer in [1, 10].
func ParseLevel(s string) (int, error) {
	return level.Parse(s)
}

func prepareDefaults(opts *Options) *Options {
	out := *opts

	if out.Algorithm == "" {
		out.Algorithm = domain.Zstd
	}
	if out.Level == 0 {
		out.Level = level.Default
	}
	if out.SessionBufferSize == 0 {
		out.SessionBufferSize = session.DefaultBufferSize
	}
	if out.EncoderConcurrency == 0 {
		out.EncoderConcurrency = 1
	}
	if out.DecoderConcurrency == 0 {
		out.DecoderConcurrency = 1
	}

	return &out
}

// Validate checks option values without applying defaults. Level errors
// carry the invalid-level kind so callers can distinguish them from
// structural option mistakes.
func Validate(opts *Options) error {
	if !opts.Algorithm.IsValid() {
		return errors.NewValidationError(
			"algorithm", opts.Algorithm,
			fmt.Errorf("unsupported algorithm %q", opts.Algorithm),
		)
	}

	if opts.Level != 0 {
		if _, err := level.Normalize(opts.Level); err != nil {
			return err
		}
	}

	if opts.SessionBufferSize != 0 &&
		(opts.SessionBufferSize < session.MinBufferSize || opts.SessionBufferSize > session.MaxBufferSize) {
		return errors.NewValidationError(
			"sessionBufferSize", opts.SessionBufferSize,
			fmt.Errorf("session buffer size must be between %d and %d bytes", session.MinBufferSize, session.MaxBufferSize),
		)
	}

	if opts.EncoderConcurrency < 0 || opts.DecoderConcurrency < 0 {
		return errors.NewValidationError(
			"concurrency", opts.EncoderConcurrency,
			fmt.Errorf("concurrency must not be negative"),
		)
	}

	return nil
}
