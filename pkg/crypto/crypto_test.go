package crypto

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandIntn(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := RandIntn(5)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 5)
	}
}

func TestShuffle(t *testing.T) {
	s := []int{1, 2, 3, 4, 5, 6, 7, 8}
	Shuffle(s)

	sorted := append([]int{}, s...)
	sort.Ints(sorted)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, sorted)

	// Every element must be able to reach the first position.
	seen := map[int]bool{}
	for i := 0; i < 500 && len(seen) < 3; i++ {
		s := []int{1, 2, 3}
		Shuffle(s)
		seen[s[0]] = true
	}
	require.Len(t, seen, 3)

	Shuffle([]int{})
	Shuffle([]int{1})
}
