package main

import (
	"math/rand/v2"

	recs "github.com/isaac-mason/rapida-sub001"
	"github.com/isaac-mason/rapida-sub001/config"
	"github.com/isaac-mason/rapida-sub001/physics"
	"github.com/jakecoffman/cp/v2"
	"go.uber.org/zap"
)

// Lifetime counts down and marks the entity for removal once it reaches zero.
type Lifetime struct {
	recs.Component[Lifetime]
	Remaining float64
}

func (l *Lifetime) Construct(args ...any) error {
	if err := recs.ExpectArgs(args, 1); err != nil {
		return err
	}

	remaining, err := recs.Arg[float64](args, 0)
	if err != nil {
		return err
	}

	l.Remaining = remaining
	return nil
}

func (l *Lifetime) OnUpdate(delta, time float64) {
	l.Remaining -= delta
}

var (
	lifetimeType  = recs.ComponentTypeOf[Lifetime]()
	transformType = recs.ComponentTypeOf[physics.Transform]()
	bodyType      = recs.ComponentTypeOf[physics.Body]()
)

const expiredTopic = "expired"

func newSystems(space *recs.Space, cfg config.Sim, seed int64) []recs.AnySystem {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x5eed))

	return []recs.AnySystem{
		newSpawner(space, cfg, rng),
		physics.NewSystem(cp.Vector{Y: -9.81}),
		newExpiry(space),
	}
}

// spawner keeps the population of the space at its target size.
type spawner struct {
	recs.System

	space    *recs.Space
	target   int
	lifetime float64
	rng      *rand.Rand

	spawned int
	expired int
}

func newSpawner(space *recs.Space, cfg config.Sim, rng *rand.Rand) *spawner {
	s := &spawner{
		space:    space,
		target:   cfg.EntitiesPerWorld,
		lifetime: cfg.Lifetime,
		rng:      rng,
	}

	s.Queries = map[string]recs.QueryDescription{
		"alive": {All: []*recs.ComponentType{lifetimeType}},
	}

	return s
}

func (s *spawner) OnInit() {
	s.space.Events().On(expiredTopic, func(any) {
		s.expired += 1
	})
}

func (s *spawner) OnUpdate(delta, time float64, results recs.Results) {
	// spawns and removals of the previous update are visible by now
	missing := s.target - results["alive"].All().Len()

	for range missing {
		if err := s.spawn(); err != nil {
			zap.L().Warn("Failed to spawn entity", zap.Error(err))
			return
		}
	}
}

func (s *spawner) OnDestroy() {
	zap.L().Debug("Spawner stopped",
		zap.Int("spawned", s.spawned),
		zap.Int("expired", s.expired),
	)
}

func (s *spawner) spawn() error {
	entity, err := s.space.CreateEntity()
	if err != nil {
		return err
	}

	transform, err := recs.AddComponent[physics.Transform](entity)
	if err != nil {
		return err
	}

	transform.Position = cp.Vector{X: s.rng.Float64() * 100, Y: s.rng.Float64() * 100}

	body, err := recs.AddComponent[physics.Body](entity, physics.Dynamic)
	if err != nil {
		return err
	}

	body.Mass = 1 + s.rng.Float64()
	body.Velocity = cp.Vector{X: s.rng.NormFloat64() * 5, Y: s.rng.Float64() * 10}

	circle, err := recs.AddComponent[physics.Circle](entity)
	if err != nil {
		return err
	}

	circle.Radius = 0.5

	// spread the expiry over time
	lifetime := s.lifetime * (0.5 + s.rng.Float64())
	if _, err := recs.AddComponent[Lifetime](entity, lifetime); err != nil {
		return err
	}

	s.spawned += 1

	return nil
}

// expiry destroys entities whose lifetime ran out.
type expiry struct {
	recs.System
	space *recs.Space
}

func newExpiry(space *recs.Space) *expiry {
	s := &expiry{space: space}
	s.Queries = map[string]recs.QueryDescription{
		"mortal": {All: []*recs.ComponentType{lifetimeType, transformType, bodyType}},
	}

	return s
}

func (s *expiry) OnUpdate(delta, time float64, results recs.Results) {
	for entity := range results["mortal"].All().Values() {
		lifetime, err := recs.GetComponent[Lifetime](entity)
		if err != nil {
			continue
		}

		if lifetime.Remaining > 0 {
			continue
		}

		id := entity.ID()
		if err := entity.Destroy(); err != nil {
			zap.L().Warn("Failed to destroy entity", zap.Stringer("entity", id), zap.Error(err))
			continue
		}

		s.space.Events().Emit(expiredTopic, id)
	}
}
