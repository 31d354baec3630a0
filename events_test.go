package recs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvents(t *testing.T) {
	var events Events

	var received []any
	unsubscribe := events.On("hit", func(data any) {
		received = append(received, data)
	})

	events.Emit("hit", 1)
	events.Emit("miss", 2)
	events.Emit("hit", 3)

	require.Empty(t, received)
	require.Equal(t, 3, events.Pending())

	events.Tick()
	require.Equal(t, []any{1, 3}, received)
	require.Equal(t, 0, events.Pending())

	unsubscribe()
	unsubscribe()

	events.Emit("hit", 4)
	events.Tick()
	require.Equal(t, []any{1, 3}, received)
}

func TestEventsEmittedWhileTicking(t *testing.T) {
	var events Events

	var received []any
	events.On("ping", func(data any) {
		received = append(received, data)

		if n := data.(int); n < 3 {
			events.Emit("ping", n+1)
		}
	})

	events.Emit("ping", 1)

	events.Tick()
	require.Equal(t, []any{1}, received)

	events.Tick()
	require.Equal(t, []any{1, 2}, received)

	events.Tick()
	events.Tick()
	require.Equal(t, []any{1, 2, 3}, received)
}

func TestEventsUnsubscribeDuringTick(t *testing.T) {
	var events Events

	var calls int
	var unsubscribeSecond func()

	events.On("topic", func(any) {
		calls += 1
		unsubscribeSecond()
	})

	unsubscribeSecond = events.On("topic", func(any) {
		calls += 1
	})

	events.Emit("topic", nil)
	events.Tick()

	require.Equal(t, 1, calls)
}

func TestEntityAndSpaceEventsTickOnUpdate(t *testing.T) {
	w, space := newRunningWorld(t)

	entity := spawn(t, space)

	var log []string

	entity.Events().On("damage", func(data any) {
		log = append(log, "entity")
	})

	space.Events().On("spawn", func(data any) {
		log = append(log, "space")
	})

	entity.Events().Emit("damage", 10)
	space.Events().Emit("spawn", entity.ID())
	require.Empty(t, log)

	require.NoError(t, w.Update(1))
	require.Equal(t, []string{"entity", "space"}, log)

	// destroyed entities drop their handlers and queued events
	entity.Events().Emit("damage", 10)
	require.NoError(t, entity.Destroy())
	require.NoError(t, w.Update(1))

	require.Equal(t, []string{"entity", "space"}, log)
}
