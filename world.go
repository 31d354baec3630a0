package recs

import (
	"errors"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"github.com/isaac-mason/rapida-sub001/config"
	"github.com/isaac-mason/rapida-sub001/internal/set"
	"go.uber.org/zap"
)

// World holds spaces with their entities, and systems. Each World owns exactly one
// entity manager, query manager and system manager.
//
// A World is not safe for concurrent use. It expects a single host loop calling
// Update once per frame.
type World struct {
	id  string
	log *zap.Logger
	cfg config.World

	spaces     map[string]*Space
	spaceOrder set.Ordered[*Space]

	entityManager *entityManager
	queryManager  *queryManager
	systemManager *systemManager

	time        float64
	initialised bool
	destroyed   bool
	updating    bool
}

type WorldOption func(*World)

// WithLogger sets the logger of the world. The default logger discards everything.
func WithLogger(log *zap.Logger) WorldOption {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

// WithConfig configures pool sizes of the world.
func WithConfig(cfg config.World) WorldOption {
	return func(w *World) {
		w.cfg = cfg
	}
}

// WithWorldId uses the given id instead of a random uuid.
func WithWorldId(id string) WorldOption {
	return func(w *World) {
		w.id = id
	}
}

// NewWorld creates a new empty world.
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		id:     uuid.NewString(),
		log:    zap.NewNop(),
		cfg:    config.DefaultWorld(),
		spaces: map[string]*Space{},
	}

	for _, opt := range opts {
		opt(w)
	}

	w.log = w.log.Named("recs").With(zap.String("world", w.id))

	w.entityManager = newEntityManager(w, w.log, w.cfg.Pools.Entities, w.cfg.Pools.Components)
	w.queryManager = newQueryManager(w, w.log)
	w.systemManager = newSystemManager(w, w.log)

	return w
}

func (w *World) ID() string {
	return w.id
}

// Time returns the accumulated time of all updates.
func (w *World) Time() float64 {
	return w.time
}

func (w *World) Initialised() bool {
	return w.initialised
}

// CreateSpace creates a new space. If the world is already initialised,
// the space is initialised immediately.
func (w *World) CreateSpace(opts ...SpaceOption) (*Space, error) {
	if w.destroyed {
		return nil, ErrWorldDestroyed
	}

	space := newSpace(w, opts...)

	if _, exists := w.spaces[space.id]; exists {
		return nil, fmt.Errorf("create space %q: %w", space.id, ErrSpaceExists)
	}

	w.spaces[space.id] = space
	w.spaceOrder.Insert(space)

	if w.initialised {
		w.entityManager.initialiseSpace(space)
	}

	w.log.Debug("Space created", zap.String("space", space.id))

	return space, nil
}

// Space returns the space with the given id.
func (w *World) Space(id string) (*Space, bool) {
	space, ok := w.spaces[id]
	return space, ok
}

// Spaces iterates all spaces in creation order.
func (w *World) Spaces() iter.Seq[*Space] {
	return w.spaceOrder.Values()
}

// RemoveSpace destroys all entities of the space and removes the space.
func (w *World) RemoveSpace(space *Space) error {
	if space.world != w {
		return ErrForeignSpace
	}

	if space.destroyed {
		return ErrSpaceDestroyed
	}

	var errs []error
	for entity := range space.entities.Values() {
		if err := w.entityManager.removeEntity(entity); err != nil {
			errs = append(errs, err)
		}
	}

	space.events.Reset()
	space.destroyed = true

	delete(w.spaces, space.id)
	w.spaceOrder.Remove(space)

	w.log.Debug("Space removed", zap.String("space", space.id))

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("remove space %q: %w", space.id, err)
	}

	return nil
}

// Entity resolves an entity id. Ids of destroyed entities do not resolve,
// even if the pooled entity has been reused since.
func (w *World) Entity(id EntityId) (*Entity, bool) {
	return w.entityManager.lookupEntity(id)
}

// AddSystem adds a system and creates or reuses the queries it declares.
// If the world is already initialised, the system is initialised immediately.
func (w *World) AddSystem(system AnySystem) (AnySystem, error) {
	if w.destroyed {
		return nil, ErrWorldDestroyed
	}

	if err := w.systemManager.addSystem(system); err != nil {
		return nil, err
	}

	return system, nil
}

// RemoveSystem removes a system and every query only this system used.
func (w *World) RemoveSystem(system AnySystem) error {
	return w.systemManager.removeSystem(system)
}

// Systems iterates all systems in the order they were added.
func (w *World) Systems() iter.Seq[AnySystem] {
	return w.systemManager.systems.Values()
}

// Init initialises all systems, spaces and entities added so far. Everything added
// afterward is initialised immediately.
func (w *World) Init() error {
	if w.destroyed {
		return ErrWorldDestroyed
	}

	if w.initialised {
		return nil
	}

	w.initialised = true

	for system := range w.systemManager.systems.Values() {
		w.systemManager.initialiseSystem(system)
	}

	for space := range w.spaceOrder.Values() {
		w.entityManager.initialiseSpace(space)
	}

	w.log.Debug("World initialised",
		zap.Int("spaces", w.spaceOrder.Len()),
		zap.Int("systems", w.systemManager.systems.Len()),
	)

	return nil
}

// Update advances the world by delta seconds:
// component update hooks run, event channels are ticked, queries are brought up to
// date, destroyed entities and components are recycled and finally systems run.
//
// Changes made during an update become visible in queries at the next update.
func (w *World) Update(delta float64) error {
	switch {
	case w.destroyed:
		return ErrWorldDestroyed
	case !w.initialised:
		return ErrWorldNotInitialised
	case w.updating:
		return ErrReentrantUpdate
	}

	w.updating = true
	defer func() { w.updating = false }()

	w.time += delta

	w.entityManager.updateComponents(delta, w.time)

	w.entityManager.updateEntities()
	for space := range w.spaceOrder.Values() {
		space.events.Tick()
	}

	w.queryManager.update()

	w.entityManager.recycle()

	w.systemManager.update(delta, w.time)

	return nil
}

// Destroy removes all systems and spaces. A destroyed world can not be used anymore.
func (w *World) Destroy() error {
	if w.destroyed {
		return ErrWorldDestroyed
	}

	errs := []error{w.systemManager.destroy()}

	for space := range w.spaceOrder.Values() {
		errs = append(errs, w.RemoveSpace(space))
	}

	w.queryManager.update()
	w.entityManager.recycle()
	w.queryManager.reset()

	w.destroyed = true
	w.initialised = false

	w.log.Debug("World destroyed")

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("destroy world: %w", err)
	}

	return nil
}

// Query returns a query that is kept up to date until it is removed with
// RemoveQuery. Queries are shared with systems using an identical description.
func (w *World) Query(description QueryDescription) (*Query, error) {
	if w.destroyed {
		return nil, ErrWorldDestroyed
	}

	query, err := w.queryManager.getQuery(description)
	if err != nil {
		return nil, err
	}

	query.standalone = true

	return query, nil
}

// HasQuery reports whether a query for the description is currently maintained.
func (w *World) HasQuery(description QueryDescription) bool {
	return w.queryManager.hasQuery(description)
}

// RemoveQuery releases a query obtained from Query. The query stays alive
// as long as systems still use it.
func (w *World) RemoveQuery(query *Query) {
	query.standalone = false

	if !w.systemManager.isQueryUsed(query) {
		w.queryManager.removeQuery(query)
	}
}

type QueryOnceOptions struct {
	// UseExisting returns the entities of an already maintained query instead of
	// scanning all entities, if one exists.
	UseExisting bool
}

// QueryOnce returns the entities currently matching the description without
// keeping a query around.
func (w *World) QueryOnce(description QueryDescription, opts QueryOnceOptions) (*EntitySet, error) {
	if w.destroyed {
		return nil, ErrWorldDestroyed
	}

	if opts.UseExisting && w.queryManager.hasQuery(description) {
		query, err := w.queryManager.getQuery(description)
		if err != nil {
			return nil, err
		}

		result := &EntitySet{}
		for entity := range query.all.Values() {
			result.insert(entity)
		}

		return result, nil
	}

	return w.queryManager.scan(description)
}

// aliveEntities iterates all initialised and alive entities of all spaces.
func (w *World) aliveEntities() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for space := range w.spaceOrder.Values() {
			for entity := range space.entities.Values() {
				if !entity.alive || !entity.initialised {
					continue
				}

				if !yield(entity) {
					return
				}
			}
		}
	}
}

// Stats is a snapshot of the bookkeeping of a world.
type Stats struct {
	Spaces   int
	Entities int
	Systems  int
	Queries  int

	// pooled instances waiting for reuse
	FreeEntities   int
	FreeComponents int

	// instances the pools ever created
	AllocatedEntities   int
	AllocatedComponents int

	Time float64
}

func (w *World) Stats() Stats {
	stats := Stats{
		Spaces:            w.spaceOrder.Len(),
		Entities:          w.entityManager.entities.Len(),
		Systems:           w.systemManager.systems.Len(),
		Queries:           w.queryManager.queries.Len(),
		FreeEntities:      w.entityManager.entityPool.Free(),
		AllocatedEntities: w.entityManager.entityPool.Allocated(),
		Time:              w.time,
	}

	for _, componentPool := range w.entityManager.componentPools {
		stats.FreeComponents += componentPool.Free()
		stats.AllocatedComponents += componentPool.Allocated()
	}

	return stats
}
