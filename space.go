package recs

import (
	"iter"

	"github.com/google/uuid"
	"github.com/isaac-mason/rapida-sub001/internal/set"
)

// Space groups entities within a World. Destroying a space destroys all of
// its entities.
type Space struct {
	id          string
	initialised bool
	destroyed   bool

	entities set.Ordered[*Entity]
	events   Events
	world    *World
}

type SpaceOption func(*Space)

// WithSpaceId uses the given id instead of a random uuid.
func WithSpaceId(id string) SpaceOption {
	return func(s *Space) {
		s.id = id
	}
}

func newSpace(world *World, opts ...SpaceOption) *Space {
	space := &Space{
		id:    uuid.NewString(),
		world: world,
	}

	for _, opt := range opts {
		opt(space)
	}

	return space
}

func (s *Space) ID() string {
	return s.id
}

func (s *Space) World() *World {
	return s.world
}

func (s *Space) Initialised() bool {
	return s.initialised
}

// Events returns the queued event channel of this space.
func (s *Space) Events() *Events {
	return &s.events
}

// CreateEntity creates a new entity in this space. If the world is already
// initialised, the entity is initialised immediately.
func (s *Space) CreateEntity() (*Entity, error) {
	if s.destroyed {
		return nil, ErrSpaceDestroyed
	}

	return s.world.entityManager.createEntity(s), nil
}

// Entities iterates the entities of the space in creation order.
func (s *Space) Entities() iter.Seq[*Entity] {
	return s.entities.Values()
}

func (s *Space) EntityCount() int {
	return s.entities.Len()
}

// Destroy destroys all entities of the space and removes it from its world.
func (s *Space) Destroy() error {
	return s.world.RemoveSpace(s)
}
