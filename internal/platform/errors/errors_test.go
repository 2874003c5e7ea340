package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeTileOccupied, "tile 12 is occupied")

	assert.True(t, stderrors.Is(err, New(CodeTileOccupied, "other message")))
	assert.False(t, stderrors.Is(err, New(CodeWindMismatch, "tile 12 is occupied")))
}

func TestCodeOf(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Equal(t, Code(""), CodeOf(nil))
	})

	t.Run("wrapped domain error", func(t *testing.T) {
		err := fmt.Errorf("play card: %w", New(CodePatternInvalid, "not connected"))
		assert.Equal(t, CodePatternInvalid, CodeOf(err))
	})

	t.Run("foreign error", func(t *testing.T) {
		assert.Equal(t, CodeUnknown, CodeOf(stderrors.New("boom")))
	})
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := stderrors.New("no alive players")
	err := Wrap(CodeEngineInvariantViolation, "advance turn", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsFatal(err))
	assert.False(t, IsFatal(New(CodePhaseViolation, "card already played")))
}

func TestWithMetadata(t *testing.T) {
	err := WithMetadata(CodeTileOutOfGrid, "no tile", map[string]string{"x": "40"})
	assert.Equal(t, "40", err.Metadata["x"])
	assert.Equal(t, "no tile", err.Error())
}

func TestGRPCCode(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeInvalidCardIndex, codes.InvalidArgument},
		{CodeTileOutOfGrid, codes.InvalidArgument},
		{CodeWindMismatch, codes.FailedPrecondition},
		{CodePatternInvalid, codes.FailedPrecondition},
		{CodeGameNotFound, codes.NotFound},
		{CodeEngineInvariantViolation, codes.Internal},
		{CodeUnknown, codes.Unknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.GRPCCode())
		})
	}
}
