package main

import (
	"testing"

	recs "github.com/isaac-mason/rapida-sub001"
	"github.com/isaac-mason/rapida-sub001/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSimulationKeepsPopulation(t *testing.T) {
	cfg := config.Defaults()
	cfg.Sim.EntitiesPerWorld = 50
	cfg.Sim.Lifetime = 0.2

	w, err := buildWorld(zap.NewNop(), cfg, 0)
	require.NoError(t, err)

	delta := cfg.Sim.TickRate.Seconds()

	// spawned during the first update, visible in queries after the second
	require.NoError(t, w.Update(delta))
	require.NoError(t, w.Update(delta))
	require.Equal(t, 50, w.Stats().Entities)

	// long enough for every entity of the first generation to expire
	for range 60 {
		require.NoError(t, w.Update(delta))
	}

	require.LessOrEqual(t, w.Stats().Entities, 50)

	for system := range w.Systems() {
		if s, ok := system.(*spawner); ok {
			require.Greater(t, s.spawned, 50)
			require.Greater(t, s.expired, 0)
		}
	}

	space, ok := w.Space("arena")
	require.True(t, ok)

	for entity := range space.Entities() {
		lifetime, err := recs.GetComponent[Lifetime](entity)
		require.NoError(t, err)
		require.LessOrEqual(t, lifetime.Remaining, 0.2*1.5)
	}

	require.NoError(t, w.Destroy())
}

func TestSampleConfig(t *testing.T) {
	cfg, err := config.Load("sim.toml")
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Sim.Worlds)
	require.Equal(t, 1000, cfg.World.Pools.Components["github.com/isaac-mason/rapida-sub001/physics.Body"])
}
