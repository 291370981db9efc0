package errors_test

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/press/pkg/errors"
)

func TestCodecError(t *testing.T) {
	t.Run("carries kind, algorithm and operation", func(t *testing.T) {
		err := errors.New(errors.KindCorruptedData, "zstd", "decompress")
		assert.Equal(t, "[corrupted data] zstd: decompress", err.Error())
	})

	t.Run("wraps and unwraps the cause", func(t *testing.T) {
		err := errors.Wrap(errors.KindUnexpectedEOF, "lz4", "stream finish", io.ErrUnexpectedEOF)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Contains(t, err.Error(), "unexpected eof")
	})

	t.Run("IsKind sees through wrapping", func(t *testing.T) {
		inner := errors.New(errors.KindInvalidLevel, "", "normalize level")
		outer := fmt.Errorf("loading config: %w", inner)

		assert.True(t, errors.IsKind(outer, errors.KindInvalidLevel))
		assert.False(t, errors.IsKind(outer, errors.KindCorruptedData))
		assert.False(t, errors.IsKind(stderrors.New("plain"), errors.KindInvalidLevel))
	})

	t.Run("AsCodecError extracts the typed error", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", errors.New(errors.KindBackendInit, "xz", "create codec"))

		ce := errors.AsCodecError(err)
		require.NotNil(t, ce)
		assert.Equal(t, errors.KindBackendInit, ce.Kind)
		assert.Equal(t, "xz", ce.Algorithm)

		assert.Nil(t, errors.AsCodecError(stderrors.New("plain")))
	})
}

func TestValidationError(t *testing.T) {
	err := errors.NewValidationError("level", 42, fmt.Errorf("level must be between 1 and 10"))

	assert.True(t, errors.IsValidationError(err))
	assert.False(t, errors.IsValidationError(stderrors.New("plain")))

	ve := errors.AsValidationError(fmt.Errorf("create compressor: %w", err))
	require.NotNil(t, ve)
	assert.Equal(t, "level", ve.Field)
	assert.Equal(t, 42, ve.Value)
}
