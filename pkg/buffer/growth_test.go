package buffer_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/press/pkg/buffer"
)

func TestInitial(t *testing.T) {
	g := buffer.DecompressGrowth()

	t.Run("respects the floor for tiny inputs", func(t *testing.T) {
		assert.Equal(t, buffer.DefaultDecompressFloor, g.Initial(0))
		assert.Equal(t, buffer.DefaultDecompressFloor, g.Initial(100))
	})

	t.Run("scales with the input size", func(t *testing.T) {
		assert.Equal(t, 1024*1024*buffer.DefaultGrowthFactor, g.Initial(1024*1024))
	})
}

func TestReadAll(t *testing.T) {
	t.Run("returns exactly the bytes read", func(t *testing.T) {
		payload := strings.Repeat("data", 10000)

		out, err := buffer.DecompressGrowth().ReadAll(strings.NewReader(payload), 128)
		require.NoError(t, err)
		assert.Equal(t, payload, string(out))
	})

	t.Run("empty reader yields an empty buffer", func(t *testing.T) {
		out, err := buffer.DecompressGrowth().ReadAll(bytes.NewReader(nil), 0)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("doubles until the payload fits", func(t *testing.T) {
		g := buffer.Growth{Floor: 8, Factor: 1, MaxGrows: 10}
		payload := strings.Repeat("x", 1000)

		out, err := g.ReadAll(strings.NewReader(payload), 1)
		require.NoError(t, err)
		assert.Len(t, out, 1000)
	})

	t.Run("fails once the ceiling is hit", func(t *testing.T) {
		g := buffer.Growth{Floor: 8, Factor: 1, MaxGrows: 2}

		_, err := g.ReadAll(strings.NewReader(strings.Repeat("x", 1000)), 1)
		assert.ErrorIs(t, err, buffer.ErrGrowthExceeded)
	})

	t.Run("propagates reader errors", func(t *testing.T) {
		_, err := buffer.DecompressGrowth().ReadAll(iotest{}, 16)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, buffer.ErrGrowthExceeded)
	})
}

type iotest struct{}

func (iotest) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestPoolReusesBuffers(t *testing.T) {
	p := buffer.NewPool(64)

	buf := p.Get()
	buf.WriteString("scratch")
	p.Put(buf)

	next := p.Get()
	assert.Zero(t, next.Len(), "pooled buffers must come back clean")
}
