package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type item struct {
	Value int
	Tags  map[string]bool
}

func TestPool_ReuseResetsState(t *testing.T) {
	p := New(
		func() *item { return &item{Tags: map[string]bool{}} },
		func(it *item) {
			it.Value = 0
			clear(it.Tags)
		},
	)

	first := p.Request()
	first.Value = 12
	first.Tags["x"] = true

	p.Release(first)
	require.Equal(t, 1, p.Free())

	second := p.Request()
	require.Same(t, first, second)
	require.Zero(t, second.Value)
	require.Empty(t, second.Tags)

	require.Equal(t, 1, p.Allocated())
}

func TestPool_GrowsWithPeakUsage(t *testing.T) {
	p := New(func() *item { return &item{} }, nil)

	var items []*item
	for range 10 {
		items = append(items, p.Request())
	}

	for _, it := range items {
		p.Release(it)
	}

	require.Equal(t, 10, p.Free())
	require.Equal(t, 10, p.Allocated())

	p.Prewarm(16)
	require.Equal(t, 16, p.Free())
	require.Equal(t, 16, p.Allocated())
}

func TestArena_StaleHandle(t *testing.T) {
	var a Arena[string]

	idx, gen := a.Insert("a")
	value, ok := a.Get(idx, gen)
	require.True(t, ok)
	require.Equal(t, "a", value)

	require.True(t, a.Remove(idx, gen))
	require.False(t, a.Remove(idx, gen))

	_, ok = a.Get(idx, gen)
	require.False(t, ok)

	// slot is reused with a new generation
	idx2, gen2 := a.Insert("b")
	require.Equal(t, idx, idx2)
	require.NotEqual(t, gen, gen2)

	_, ok = a.Get(idx, gen)
	require.False(t, ok)

	value, ok = a.Get(idx2, gen2)
	require.True(t, ok)
	require.Equal(t, "b", value)
	require.Equal(t, 1, a.Len())
}

func TestArena_ZeroHandleNeverResolves(t *testing.T) {
	var a Arena[int]
	a.Insert(7)

	_, ok := a.Get(0, 0)
	require.False(t, ok)
}
