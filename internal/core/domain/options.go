package domain

// Options configures a Compressor instance. Use DefaultOptions from the
// facade for recommended values; zero fields fall back to defaults during
// validation.
type Options struct {
	// Algorithm selects which codec backs the instance.
	// Must be one of the supported Algorithm constants.
	Algorithm Algorithm

	// Level is the unified compression level on the 1-10 scale shared by
	// every algorithm. It is translated to each codec's native range at the
	// adapter boundary. 0 means "unset" and resolves to the balanced
	// default (5). Out-of-range values are rejected, never clamped.
	//
	// Default: 5
	Level int

	// SessionBufferSize is the capacity of the reusable output buffer owned
	// by each streaming session. Larger buffers mean fewer codec calls per
	// chunk at the cost of memory held for the session's lifetime.
	// Must be between 4KB and 16MB.
	//
	// Default: 64KB
	SessionBufferSize int

	// EncoderConcurrency specifies the number of concurrent goroutines the
	// zstd encoder may use. Higher values may improve throughput on large
	// inputs but increase memory usage. 0 uses a single goroutine; other
	// algorithms ignore this setting.
	//
	// Default: 1
	EncoderConcurrency int

	// DecoderConcurrency mirrors EncoderConcurrency for the zstd decoder.
	//
	// Default: 1
	DecoderConcurrency int
}
