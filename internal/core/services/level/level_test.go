package level_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/press/internal/core/domain"
	"github.com/iamNilotpal/press/internal/core/services/level"
	"github.com/iamNilotpal/press/pkg/errors"
)

func TestNormalize(t *testing.T) {
	t.Run("accepts the full unified range", func(t *testing.T) {
		for v := level.Min; v <= level.Max; v++ {
			got, err := level.Normalize(v)
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
	})

	t.Run("rejects out of range values", func(t *testing.T) {
		for _, v := range []int{0, -1, -10, 11, 100} {
			_, err := level.Normalize(v)
			require.Error(t, err, "level %d", v)
			assert.True(t, errors.IsKind(err, errors.KindInvalidLevel))
		}
	})
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "fast", want: level.Min},
		{input: "balanced", want: level.Default},
		{input: "best", want: level.Max},
		{input: "", want: level.Default},
		{input: "1", want: 1},
		{input: "7", want: 7},
		{input: "10", want: 10},
		{input: "0", wantErr: true},
		{input: "11", wantErr: true},
		{input: "-3", wantErr: true},
		{input: "fastest", wantErr: true},
		{input: "3.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := level.Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsKind(err, errors.KindInvalidLevel))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNative(t *testing.T) {
	t.Run("endpoints hit the native extremes", func(t *testing.T) {
		for _, algo := range domain.Algorithms() {
			r, ok := level.NativeRange(algo)
			require.True(t, ok)

			lo, err := level.Native(level.Min, algo)
			require.NoError(t, err)
			assert.Equal(t, r.Min, lo, "%s at level %d", algo, level.Min)

			hi, err := level.Native(level.Max, algo)
			require.NoError(t, err)
			assert.Equal(t, r.Max, hi, "%s at level %d", algo, level.Max)
		}
	})

	t.Run("balanced midpoints", func(t *testing.T) {
		want := map[domain.Algorithm]int{
			domain.Zstd:   10,
			domain.Brotli: 5,
			domain.Zlib:   5,
			domain.Bzip2:  5,
			domain.LZ4:    6,
			domain.XZ:     4,
		}
		for algo, expected := range want {
			got, err := level.Native(level.Default, algo)
			require.NoError(t, err)
			assert.Equal(t, expected, got, "%s at the balanced level", algo)
		}
	})

	t.Run("mapping is non-decreasing", func(t *testing.T) {
		for _, algo := range domain.Algorithms() {
			prev, err := level.Native(level.Min, algo)
			require.NoError(t, err)
			for u := level.Min + 1; u <= level.Max; u++ {
				got, err := level.Native(u, algo)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, got, prev, "%s at level %d", algo, u)
				prev = got
			}
		}
	})

	t.Run("rejects invalid levels before mapping", func(t *testing.T) {
		_, err := level.Native(11, domain.Zstd)
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindInvalidLevel))
	})

	t.Run("rejects unknown algorithms", func(t *testing.T) {
		_, err := level.Native(level.Default, domain.Algorithm("snappy"))
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
	})
}
