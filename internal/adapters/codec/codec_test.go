package codec_test

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/press/internal/adapters/codec"
	"github.com/iamNilotpal/press/internal/core/domain"
	"github.com/iamNilotpal/press/internal/core/ports"
	"github.com/iamNilotpal/press/internal/core/services/level"
	"github.com/iamNilotpal/press/pkg/errors"
)

func newCodec(t *testing.T, algo domain.Algorithm) ports.Codec {
	t.Helper()

	c, err := codec.New(algo, &domain.Options{Algorithm: algo, EncoderConcurrency: 1, DecoderConcurrency: 1})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func nativeLevel(t *testing.T, algo domain.Algorithm, unified int) int {
	t.Helper()

	n, err := level.Native(unified, algo)
	require.NoError(t, err)
	return n
}

// Inputs chosen to hit the interesting shapes: empty, tiny,
// highly repetitive, incompressible, and larger than one scratch buffer.
func payloads() map[string][]byte {
	rng := rand.New(rand.NewSource(42))

	random := make([]byte, 32*1024)
	rng.Read(random)

	large := make([]byte, 256*1024)
	for i := range large {
		large[i] = byte(i % 251)
	}

	return map[string][]byte{
		"empty":      {},
		"single":     {0x42},
		"text":       []byte("Hello, World! Hello, World! Hello, World!"),
		"repetitive": []byte(strings.Repeat("abcdefgh", 8*1024)),
		"random":     random,
		"large":      large,
	}
}

func TestRoundTrip(t *testing.T) {
	for _, algo := range domain.Algorithms() {
		t.Run(algo.String(), func(t *testing.T) {
			c := newCodec(t, algo)

			for _, unified := range []int{level.Min, level.Default, level.Max} {
				native := nativeLevel(t, algo, unified)

				for name, payload := range payloads() {
					compressed, err := c.Compress(payload, native)
					require.NoError(t, err, "%s level %d payload %s", algo, native, name)

					if len(payload) == 0 {
						got, err := c.Decompress(compressed)
						require.NoError(t, err)
						assert.Empty(t, got)
						continue
					}

					got, err := c.Decompress(compressed)
					require.NoError(t, err, "%s level %d payload %s", algo, native, name)
					assert.True(t, bytes.Equal(payload, got), "%s level %d payload %s", algo, native, name)
				}
			}
		})
	}
}

func TestEmptyInputEmitsFrame(t *testing.T) {
	// Empty payloads still need container framing on the wire; a codec
	// that emits zero bytes for them cannot round-trip, because empty
	// compressed input is rejected as invalid.
	for _, algo := range domain.Algorithms() {
		t.Run(algo.String(), func(t *testing.T) {
			c := newCodec(t, algo)

			compressed, err := c.Compress(nil, nativeLevel(t, algo, level.Default))
			require.NoError(t, err)
			require.NotEmpty(t, compressed)

			got, err := c.Decompress(compressed)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestRepetitiveInputShrinks(t *testing.T) {
	payload := []byte(strings.Repeat("the quick brown fox ", 4096))

	for _, algo := range domain.Algorithms() {
		t.Run(algo.String(), func(t *testing.T) {
			c := newCodec(t, algo)

			compressed, err := c.Compress(payload, nativeLevel(t, algo, level.Default))
			require.NoError(t, err)
			assert.Less(t, len(compressed), len(payload))
		})
	}
}

func TestDecompressEmptyInput(t *testing.T) {
	for _, algo := range domain.Algorithms() {
		t.Run(algo.String(), func(t *testing.T) {
			c := newCodec(t, algo)

			_, err := c.Decompress(nil)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
		})
	}
}

func TestDecompressGarbage(t *testing.T) {
	garbage := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01, 0x02, 0x03, 0x99, 0x88}

	for _, algo := range domain.Algorithms() {
		t.Run(algo.String(), func(t *testing.T) {
			c := newCodec(t, algo)

			_, err := c.Decompress(garbage)
			require.Error(t, err)
			assert.True(t,
				errors.IsKind(err, errors.KindCorruptedData) || errors.IsKind(err, errors.KindUnexpectedEOF),
				"unexpected error: %v", err,
			)
		})
	}
}

func TestDecompressTruncated(t *testing.T) {
	payload := []byte(strings.Repeat("truncation test data ", 2048))

	for _, algo := range domain.Algorithms() {
		t.Run(algo.String(), func(t *testing.T) {
			c := newCodec(t, algo)

			compressed, err := c.Compress(payload, nativeLevel(t, algo, level.Default))
			require.NoError(t, err)
			require.Greater(t, len(compressed), 8)

			_, err = c.Decompress(compressed[:len(compressed)/2])
			require.Error(t, err)
			assert.True(t,
				errors.IsKind(err, errors.KindCorruptedData) || errors.IsKind(err, errors.KindUnexpectedEOF),
				"unexpected error: %v", err,
			)
		})
	}
}

func TestCompressedOutputIsIndependent(t *testing.T) {
	c := newCodec(t, domain.Zlib)

	first, err := c.Compress([]byte(strings.Repeat("aaaa", 512)), 6)
	require.NoError(t, err)
	snapshot := append([]byte(nil), first...)

	// A second call reuses the pooled scratch; the first result must not
	// change underneath the caller.
	_, err = c.Compress([]byte(strings.Repeat("zzzz", 512)), 6)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(snapshot, first))
}

func TestUnsupportedAlgorithm(t *testing.T) {
	_, err := codec.New(domain.Algorithm("snappy"), &domain.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindBackendInit))
}
