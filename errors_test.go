package drips

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Is(t *testing.T) {
	t.Run("matches sentinels by code", func(t *testing.T) {
		err := errArgumentRange("value out of range", "amount", "-1")

		assert.ErrorIs(t, err, ErrArgumentRange)
		assert.NotErrorIs(t, err, ErrConfigRange)
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", errArgumentMissing("userId"))
		assert.ErrorIs(t, err, ErrArgumentMissing)
	})
}

func TestError_Message(t *testing.T) {
	t.Run("includes the offending argument", func(t *testing.T) {
		err := errArgumentRange("userId must not be negative", "receivers[3].userId", "-7")

		assert.Contains(t, err.Error(), "receivers[3].userId")
		assert.Contains(t, err.Error(), "-7")
	})

	t.Run("includes the wrapped cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := errContract("cycleSecs", cause)

		assert.Contains(t, err.Error(), "cycleSecs")
		assert.Contains(t, err.Error(), "connection refused")
		assert.ErrorIs(t, err, cause)
	})
}

func TestError_Fields(t *testing.T) {
	var dripsErr *Error
	err := errArgumentMissing("signer")

	require.True(t, errors.As(err, &dripsErr))
	assert.Equal(t, ErrCodeArgumentMissing, dripsErr.Code)
	assert.Equal(t, "signer", dripsErr.Argument)
}
