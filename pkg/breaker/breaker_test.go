package breaker

import (
	"errors"
	"testing"

	cb "github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutePassesResultThrough(t *testing.T) {
	b := New("test")

	got, err := b.Execute(func() (any, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, "closed", b.State())
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	b := New("test")
	boom := errors.New("upstream down")

	for i := 0; i < 3; i++ {
		_, err := b.Execute(func() (any, error) { return nil, boom })
		require.ErrorIs(t, err, boom)
	}
	assert.Equal(t, "open", b.State())

	// An open breaker rejects without invoking fn.
	called := false
	_, err := b.Execute(func() (any, error) {
		called = true
		return nil, nil
	})
	require.ErrorIs(t, err, cb.ErrOpenState)
	assert.False(t, called)
}
