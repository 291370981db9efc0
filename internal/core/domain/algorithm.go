// Package domain defines the core types and configurations for the
// compression toolkit.
package domain

// Algorithm identifies a supported compression algorithm.
type Algorithm string

const (
	// Zstd uses the Zstandard algorithm (balanced speed/ratio).
	Zstd Algorithm = "zstd"

	// Brotli uses Google's Brotli algorithm (strong ratios on text).
	Brotli Algorithm = "brotli"

	// Zlib uses the DEFLATE-based zlib format (widest compatibility).
	Zlib Algorithm = "zlib"

	// Bzip2 uses the bzip2 block-sorting algorithm.
	Bzip2 Algorithm = "bz2"

	// LZ4 uses the LZ4 block algorithm with this module's own framing
	// (fastest, moderate ratio).
	LZ4 Algorithm = "lz4"

	// XZ uses the LZMA2-based xz container (best ratios, slowest).
	XZ Algorithm = "xz"
)

// Algorithms lists every supported algorithm in a stable order.
func Algorithms() []Algorithm {
	return []Algorithm{Zstd, Brotli, Zlib, Bzip2, LZ4, XZ}
}

// IsValid reports whether the algorithm is one of the supported set.
func (a Algorithm) IsValid() bool {
	switch a {
	case Zstd, Brotli, Zlib, Bzip2, LZ4, XZ:
		return true
	default:
		return false
	}
}

// String returns the string representation of the algorithm.
func (a Algorithm) String() string {
	return string(a)
}

// ParseAlgorithm parses a string into an Algorithm.
// Returns false if the string names no supported algorithm.
func ParseAlgorithm(s string) (Algorithm, bool) {
	a := Algorithm(s)
	return a, a.IsValid()
}
