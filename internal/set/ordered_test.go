package set

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrdered_InsertionOrder(t *testing.T) {
	var s Ordered[int]

	require.True(t, s.Insert(3))
	require.True(t, s.Insert(1))
	require.True(t, s.Insert(2))
	require.False(t, s.Insert(1))

	require.Equal(t, []int{3, 1, 2}, slices.Collect(s.Values()))
	require.Equal(t, 3, s.Len())
}

func TestOrdered_RemoveWhileIterating(t *testing.T) {
	var s Ordered[int]
	for idx := range 100 {
		s.Insert(idx)
	}

	var seen []int
	for value := range s.Values() {
		seen = append(seen, value)

		// removing the next value must skip it
		s.Remove(value + 1)
	}

	require.Len(t, seen, 50)
	require.Equal(t, 50, s.Len())

	// compaction happened lazily and kept the order
	s.Compact()
	require.Equal(t, seen, slices.Collect(s.Values()))

	require.True(t, s.Insert(1))
	require.Equal(t, 1, slices.Collect(s.Values())[50])
}

func TestOrdered_Clear(t *testing.T) {
	var s Ordered[string]
	s.Insert("a")
	s.Insert("b")
	s.Remove("a")

	s.Clear()
	require.Equal(t, 0, s.Len())
	require.False(t, s.Has("b"))

	s.Insert("b")
	require.Equal(t, []string{"b"}, s.AppendTo(nil))
}
