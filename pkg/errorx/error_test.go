package errorx

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(NotFound, "Not found quest %s", "q1")
	require.Equal(t, "Not found quest q1", err.Error())
	require.Equal(t, NotFound, err.Code)
}

func TestIs(t *testing.T) {
	err := New(AlreadyExists, "Already participating in this quest")
	require.True(t, Is(err, AlreadyExists))
	require.False(t, Is(err, NotFound))

	wrapped := fmt.Errorf("join: %w", err)
	require.True(t, Is(wrapped, AlreadyExists))

	require.False(t, Is(fmt.Errorf("plain"), AlreadyExists))
	require.False(t, Is(nil, AlreadyExists))
}
