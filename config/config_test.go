package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseToml(t *testing.T) {
	cfg, err := Parse(".toml", []byte(`
[world.pools]
entities = 128

[world.pools.components]
"example.Position" = 64

[world.logging]
level = "debug"

[sim]
worlds = 2
tick_rate = "10ms"
`))

	require.NoError(t, err)
	require.Equal(t, 128, cfg.World.Pools.Entities)
	require.Equal(t, 64, cfg.World.Pools.Components["example.Position"])
	require.Equal(t, "debug", cfg.World.Logging.Level)
	require.Equal(t, 2, cfg.Sim.Worlds)
	require.Equal(t, 10*time.Millisecond, cfg.Sim.TickRate)

	// untouched values keep their defaults
	require.Equal(t, "console", cfg.World.Logging.Format)
	require.Equal(t, 600, cfg.Sim.Ticks)
}

func TestParseYaml(t *testing.T) {
	cfg, err := Parse("yml", []byte(`
world:
  pools:
    entities: 32
  logging:
    format: json
sim:
  entities_per_world: 10
  profile: cpu
`))

	require.NoError(t, err)
	require.Equal(t, 32, cfg.World.Pools.Entities)
	require.Equal(t, "json", cfg.World.Logging.Format)
	require.Equal(t, 10, cfg.Sim.EntitiesPerWorld)
	require.Equal(t, "cpu", cfg.Sim.Profile)
}

func TestParseRejectsInvalid(t *testing.T) {
	t.Run("unknown format", func(t *testing.T) {
		_, err := Parse(".json", []byte(`{}`))
		require.Error(t, err)
	})

	t.Run("unknown yaml field", func(t *testing.T) {
		_, err := Parse(".yaml", []byte("world:\n  nope: 1\n"))
		require.Error(t, err)
	})

	t.Run("negative pool size", func(t *testing.T) {
		_, err := Parse(".toml", []byte("[world.pools]\nentities = -1\n"))
		require.Error(t, err)
	})

	t.Run("bad profile", func(t *testing.T) {
		_, err := Parse(".yaml", []byte("sim:\n  profile: block\n"))
		require.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recs.toml")
	require.NoError(t, os.WriteFile(path, []byte("[sim]\nticks = 5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Sim.Ticks)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "nonsense", Format: "json"})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger, err = NewLogger(DefaultWorld().Logging)
	require.NoError(t, err)
	require.NotNil(t, logger)
}
