package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	World World `toml:"world" yaml:"world"`
	Sim   Sim   `toml:"sim" yaml:"sim"`
}

type World struct {
	Pools   PoolsConfig   `toml:"pools" yaml:"pools"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

type PoolsConfig struct {
	// Entities is the number of entities allocated up front.
	Entities int `toml:"entities" yaml:"entities"`

	// Components maps a component type name to the number of instances
	// allocated up front once the type is first used.
	Components map[string]int `toml:"components" yaml:"components"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

// Sim configures the headless host loop in cmd/recs-sim.
type Sim struct {
	Worlds           int           `toml:"worlds" yaml:"worlds"`
	Ticks            int           `toml:"ticks" yaml:"ticks"`
	TickRate         time.Duration `toml:"tick_rate" yaml:"tick_rate"`
	EntitiesPerWorld int           `toml:"entities_per_world" yaml:"entities_per_world"`
	Lifetime         float64       `toml:"lifetime" yaml:"lifetime"`
	Profile          string        `toml:"profile" yaml:"profile"` // "", "cpu" or "mem"
}

// Load reads a config file. The format is chosen by the file extension:
// .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := Parse(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes data on top of the defaults. ext selects the format.
func Parse(ext string, data []byte) (*Config, error) {
	cfg := Defaults()

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}

	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)

		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.World.Pools.Entities < 0 {
		return fmt.Errorf("world.pools.entities must not be negative: %d", c.World.Pools.Entities)
	}

	for name, count := range c.World.Pools.Components {
		if count < 0 {
			return fmt.Errorf("world.pools.components[%s] must not be negative: %d", name, count)
		}
	}

	switch c.Sim.Profile {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("sim.profile must be one of cpu, mem or empty: %q", c.Sim.Profile)
	}

	if c.Sim.Worlds < 1 {
		return fmt.Errorf("sim.worlds must be at least 1: %d", c.Sim.Worlds)
	}

	return nil
}

func Defaults() *Config {
	return &Config{
		World: DefaultWorld(),
		Sim: Sim{
			Worlds:           4,
			Ticks:            600,
			TickRate:         time.Second / 60,
			EntitiesPerWorld: 1000,
			Lifetime:         2.5,
		},
	}
}

func DefaultWorld() World {
	return World{
		Pools: PoolsConfig{
			Entities: 0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
