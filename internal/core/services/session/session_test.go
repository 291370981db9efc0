package session_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/press/internal/adapters/codec"
	"github.com/iamNilotpal/press/internal/core/domain"
	"github.com/iamNilotpal/press/internal/core/ports"
	"github.com/iamNilotpal/press/internal/core/services/level"
	"github.com/iamNilotpal/press/internal/core/services/session"
	"github.com/iamNilotpal/press/pkg/errors"
)

func newCodec(t *testing.T, algo domain.Algorithm) ports.Codec {
	t.Helper()

	c, err := codec.New(algo, &domain.Options{Algorithm: algo, EncoderConcurrency: 1, DecoderConcurrency: 1})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func balancedNative(t *testing.T, algo domain.Algorithm) int {
	t.Helper()

	n, err := level.Native(level.Default, algo)
	require.NoError(t, err)
	return n
}

func collect(chunks [][]byte, into *bytes.Buffer) {
	for _, c := range chunks {
		into.Write(c)
	}
}

// Compresses payload through a session in chunks of chunkSize, then
// decompresses the result through a second session the same way.
func roundTrip(t *testing.T, algo domain.Algorithm, payload []byte, chunkSize, bufferSize int) []byte {
	t.Helper()

	c := newCodec(t, algo)

	cs, err := session.NewCompressSession(c, balancedNative(t, algo), bufferSize)
	require.NoError(t, err)
	defer cs.Close()

	var compressed bytes.Buffer
	for off := 0; off < len(payload); off += chunkSize {
		end := off + chunkSize
		if end > len(payload) {
			end = len(payload)
		}
		chunks, err := cs.Write(payload[off:end])
		require.NoError(t, err)
		collect(chunks, &compressed)
	}
	chunks, err := cs.Finish()
	require.NoError(t, err)
	collect(chunks, &compressed)

	ds, err := session.NewDecompressSession(c, bufferSize)
	require.NoError(t, err)
	defer ds.Close()

	var plain bytes.Buffer
	data := compressed.Bytes()
	for off := 0; off < len(data); off += chunkSize {
		end := off + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunks, err := ds.Write(data[off:end])
		require.NoError(t, err)
		collect(chunks, &plain)
	}
	chunks, err = ds.Finish()
	require.NoError(t, err)
	collect(chunks, &plain)

	return plain.Bytes()
}

func TestStreamingRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("incremental compression input line\n", 16*1024))

	for _, algo := range domain.Algorithms() {
		t.Run(algo.String(), func(t *testing.T) {
			got := roundTrip(t, algo, payload, 8*1024, session.DefaultBufferSize)
			assert.True(t, bytes.Equal(payload, got))
		})
	}
}

func TestStreamingSmallBufferBackpressure(t *testing.T) {
	// An output buffer far smaller than the payload forces every session
	// call to loop and drain repeatedly.
	payload := []byte(strings.Repeat("backpressure ", 64*1024))

	for _, algo := range domain.Algorithms() {
		t.Run(algo.String(), func(t *testing.T) {
			got := roundTrip(t, algo, payload, 3000, session.MinBufferSize)
			assert.True(t, bytes.Equal(payload, got))
		})
	}
}

func TestStreamingMatchesOneShot(t *testing.T) {
	payload := []byte(strings.Repeat("equivalence check ", 4096))

	for _, algo := range domain.Algorithms() {
		t.Run(algo.String(), func(t *testing.T) {
			c := newCodec(t, algo)

			cs, err := session.NewCompressSession(c, balancedNative(t, algo), 0)
			require.NoError(t, err)
			defer cs.Close()

			var streamed bytes.Buffer
			chunks, err := cs.Write(payload)
			require.NoError(t, err)
			collect(chunks, &streamed)
			chunks, err = cs.Finish()
			require.NoError(t, err)
			collect(chunks, &streamed)

			// The two paths may frame differently, but the one-shot
			// decompressor path must not be required: the streamed bytes
			// decode through a fresh session back to the payload.
			ds, err := session.NewDecompressSession(c, 0)
			require.NoError(t, err)
			defer ds.Close()

			var plain bytes.Buffer
			chunks, err = ds.Write(streamed.Bytes())
			require.NoError(t, err)
			collect(chunks, &plain)
			chunks, err = ds.Finish()
			require.NoError(t, err)
			collect(chunks, &plain)

			assert.True(t, bytes.Equal(payload, plain.Bytes()))
		})
	}
}

func TestEmptyStream(t *testing.T) {
	for _, algo := range domain.Algorithms() {
		t.Run(algo.String(), func(t *testing.T) {
			got := roundTrip(t, algo, nil, 1024, 0)
			assert.Empty(t, got)
		})
	}
}

func TestFinishedSessionRejectsWrites(t *testing.T) {
	c := newCodec(t, domain.Zstd)

	cs, err := session.NewCompressSession(c, balancedNative(t, domain.Zstd), 0)
	require.NoError(t, err)
	defer cs.Close()

	_, err = cs.Write([]byte("data"))
	require.NoError(t, err)
	_, err = cs.Finish()
	require.NoError(t, err)

	_, err = cs.Write([]byte("more"))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindStreamFinished))

	_, err = cs.Finish()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindStreamFinished))
}

func TestTruncatedStreamFailsAtFinish(t *testing.T) {
	payload := []byte(strings.Repeat("must not be silently truncated ", 4096))

	for _, algo := range domain.Algorithms() {
		t.Run(algo.String(), func(t *testing.T) {
			c := newCodec(t, algo)

			cs, err := session.NewCompressSession(c, balancedNative(t, algo), 0)
			require.NoError(t, err)
			defer cs.Close()

			var compressed bytes.Buffer
			chunks, err := cs.Write(payload)
			require.NoError(t, err)
			collect(chunks, &compressed)
			chunks, err = cs.Finish()
			require.NoError(t, err)
			collect(chunks, &compressed)

			ds, err := session.NewDecompressSession(c, 0)
			require.NoError(t, err)
			defer ds.Close()

			truncated := compressed.Bytes()[:compressed.Len()/2]
			_, werr := ds.Write(truncated)
			if werr == nil {
				_, werr = ds.Finish()
			}
			require.Error(t, werr)
			assert.True(t,
				errors.IsKind(werr, errors.KindUnexpectedEOF) || errors.IsKind(werr, errors.KindCorruptedData),
				"unexpected error: %v", werr,
			)
		})
	}
}

func TestEmptyDecompressStreamFailsAtFinish(t *testing.T) {
	for _, algo := range domain.Algorithms() {
		t.Run(algo.String(), func(t *testing.T) {
			c := newCodec(t, algo)

			ds, err := session.NewDecompressSession(c, 0)
			require.NoError(t, err)
			defer ds.Close()

			// No input at all is not a valid stream.
			_, err = ds.Finish()
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindUnexpectedEOF))
		})
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	c := newCodec(t, domain.Zlib)

	cs, err := session.NewCompressSession(c, 6, 0)
	require.NoError(t, err)
	require.NoError(t, cs.Close())
	require.NoError(t, cs.Close())

	_, err = cs.Write([]byte("after close"))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindStreamFinished))

	ds, err := session.NewDecompressSession(c, 0)
	require.NoError(t, err)
	require.NoError(t, ds.Close())
	require.NoError(t, ds.Close())

	_, err = ds.Finish()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindStreamFinished))
}

func TestOutputChunksAreStable(t *testing.T) {
	c := newCodec(t, domain.Zstd)

	cs, err := session.NewCompressSession(c, balancedNative(t, domain.Zstd), session.MinBufferSize)
	require.NoError(t, err)
	defer cs.Close()

	payload := []byte(strings.Repeat("chunk stability ", 32*1024))

	first, err := cs.Write(payload)
	require.NoError(t, err)

	snapshots := make([][]byte, len(first))
	for i, chunk := range first {
		snapshots[i] = append([]byte(nil), chunk...)
	}

	// Later calls reuse the session buffer; earlier chunks must be
	// unaffected.
	_, err = cs.Finish()
	require.NoError(t, err)

	for i := range first {
		assert.True(t, bytes.Equal(snapshots[i], first[i]), "chunk %d changed", i)
	}
}
