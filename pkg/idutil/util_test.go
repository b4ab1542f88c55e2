package idutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerator(t *testing.T) {
	g, err := NewGenerator(1)
	require.NoError(t, err)

	a := g.Generate()
	b := g.Generate()
	require.NotEqual(t, a, b)
	require.Equal(t, int64(1), a.Node())
	require.WithinDuration(t, time.Now(), TimeOf(a), time.Second)
}

func TestGenerator_InvalidNode(t *testing.T) {
	_, err := NewGenerator(-1)
	require.Error(t, err)
}
