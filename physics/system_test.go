package physics

import (
	"testing"

	recs "github.com/isaac-mason/rapida-sub001"
	"github.com/jakecoffman/cp/v2"
	"github.com/stretchr/testify/require"
)

func countBodies(space *cp.Space) int {
	var count int
	space.EachBody(func(*cp.Body) { count += 1 })
	return count
}

func TestBodiesFollowSimulation(t *testing.T) {
	w := recs.NewWorld()

	system := NewSystem(cp.Vector{Y: -10})
	_, err := w.AddSystem(system)
	require.NoError(t, err)

	require.NoError(t, w.Init())

	initialBodies := countBodies(system.Space())

	space, err := w.CreateSpace()
	require.NoError(t, err)

	entity, err := space.CreateEntity()
	require.NoError(t, err)

	transform, err := recs.AddComponent[Transform](entity)
	require.NoError(t, err)
	transform.Position = cp.Vector{Y: 10}

	body, err := recs.AddComponent[Body](entity, Dynamic)
	require.NoError(t, err)
	body.Mass = 2

	circle, err := recs.AddComponent[Circle](entity)
	require.NoError(t, err)
	circle.Radius = 0.5

	require.False(t, body.Created())

	require.NoError(t, w.Update(0.1))
	require.True(t, body.Created())
	require.Equal(t, initialBodies+1, countBodies(system.Space()))

	// positions are integrated before velocities, so the body only gains speed
	require.Less(t, body.CurrentVelocity().Y, 0.0)

	require.NoError(t, w.Update(0.1))
	require.Less(t, transform.Position.Y, 10.0)

	require.NoError(t, entity.Destroy())
	require.Equal(t, initialBodies, countBodies(system.Space()))

	require.NoError(t, w.Update(0.1))
}

func TestKinematicBodyFollowsTransform(t *testing.T) {
	w := recs.NewWorld()

	system := NewSystem(cp.Vector{Y: -10})
	_, err := w.AddSystem(system)
	require.NoError(t, err)
	require.NoError(t, w.Init())

	space, err := w.CreateSpace()
	require.NoError(t, err)

	entity, err := space.CreateEntity()
	require.NoError(t, err)

	transform, err := recs.AddComponent[Transform](entity)
	require.NoError(t, err)

	body, err := recs.AddComponent[Body](entity, Kinematic)
	require.NoError(t, err)

	require.NoError(t, w.Update(0.1))

	transform.Position = cp.Vector{X: 3}
	require.NoError(t, w.Update(0.1))

	// kinematic bodies ignore gravity
	require.Equal(t, cp.Vector{X: 3}, transform.Position)
	require.Equal(t, cp.Vector{X: 3}, body.body.Position())
}

func TestBodyWithoutTransformIsRemoved(t *testing.T) {
	w := recs.NewWorld()

	system := NewSystem(cp.Vector{})
	_, err := w.AddSystem(system)
	require.NoError(t, err)
	require.NoError(t, w.Init())

	initialBodies := countBodies(system.Space())

	space, err := w.CreateSpace()
	require.NoError(t, err)

	entity, err := space.CreateEntity()
	require.NoError(t, err)

	_, err = recs.AddComponent[Transform](entity)
	require.NoError(t, err)

	body, err := recs.AddComponent[Body](entity)
	require.NoError(t, err)

	require.NoError(t, w.Update(0.1))
	require.True(t, body.Created())

	require.NoError(t, recs.RemoveComponentOf[Transform](entity))
	require.NoError(t, w.Update(0.1))

	require.False(t, body.Created())
	require.Equal(t, initialBodies, countBodies(system.Space()))

	_, err = recs.AddComponent[Body](entity, "dynamic")
	require.ErrorIs(t, err, recs.ErrComponentAlreadyPresent)
}

func TestSystemAddedAfterBodies(t *testing.T) {
	w := recs.NewWorld()
	require.NoError(t, w.Init())

	space, err := w.CreateSpace()
	require.NoError(t, err)

	entity, err := space.CreateEntity()
	require.NoError(t, err)

	_, err = recs.AddComponent[Transform](entity)
	require.NoError(t, err)

	body, err := recs.AddComponent[Body](entity)
	require.NoError(t, err)

	require.NoError(t, w.Update(0.1))

	// the entity is part of the initial scan, it never shows up as added
	system := NewSystem(cp.Vector{Y: -10})
	_, err = w.AddSystem(system)
	require.NoError(t, err)

	require.NoError(t, w.Update(0.1))
	require.True(t, body.Created())

	require.NoError(t, w.Update(0.1))
}

// bodyRemover strips the Body of every entity before physics runs.
type bodyRemover struct {
	recs.System
	destroy bool
}

func (s *bodyRemover) OnUpdate(delta, time float64, results recs.Results) {
	for entity := range results["bodies"].All().Values() {
		if s.destroy {
			_ = entity.Destroy()
		} else {
			_ = recs.RemoveComponentOf[Body](entity)
		}
	}
}

func TestBodiesRemovedEarlierInUpdate(t *testing.T) {
	for _, destroy := range []bool{false, true} {
		w := recs.NewWorld()

		remover := &bodyRemover{destroy: destroy}
		remover.Queries = map[string]recs.QueryDescription{
			"bodies": {All: []*recs.ComponentType{bodyType, transformType}},
		}

		_, err := w.AddSystem(remover)
		require.NoError(t, err)

		system := NewSystem(cp.Vector{Y: -10})
		_, err = w.AddSystem(system)
		require.NoError(t, err)

		require.NoError(t, w.Init())

		initialBodies := countBodies(system.Space())

		space, err := w.CreateSpace()
		require.NoError(t, err)

		entity, err := space.CreateEntity()
		require.NoError(t, err)

		_, err = recs.AddComponent[Transform](entity)
		require.NoError(t, err)

		_, err = recs.AddComponent[Body](entity)
		require.NoError(t, err)

		require.NotPanics(t, func() {
			require.NoError(t, w.Update(0.1))
			require.NoError(t, w.Update(0.1))
		})

		require.Equal(t, initialBodies, countBodies(system.Space()))
	}
}
