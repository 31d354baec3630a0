package recs

import (
	"errors"
	"fmt"
	"slices"

	"github.com/isaac-mason/rapida-sub001/internal/pool"
	"github.com/isaac-mason/rapida-sub001/internal/set"
	"go.uber.org/zap"
)

// entityManager creates, initialises and destroys entities and components,
// and returns them to their pools once the query manager has seen their removal.
type entityManager struct {
	world *World
	log   *zap.Logger

	entityPool     *pool.Pool[*Entity]
	componentPools map[*ComponentType]*pool.Pool[AnyComponent]

	// prewarm sizes of component pools by type name
	componentPrewarm map[string]int

	entityHandles    pool.Arena[*Entity]
	componentHandles pool.Arena[AnyComponent]

	// alive entities, their event channels are ticked on update
	entities set.Ordered[*Entity]

	// components with an update hook
	componentsToUpdate set.Ordered[AnyComponent]

	entitiesToRecycle   []*Entity
	componentsToRecycle []AnyComponent
}

func newEntityManager(world *World, log *zap.Logger, entityPrewarm int, componentPrewarm map[string]int) *entityManager {
	m := &entityManager{
		world:            world,
		log:              log,
		entityPool:       pool.New(newEntity, (*Entity).reset),
		componentPools:   map[*ComponentType]*pool.Pool[AnyComponent]{},
		componentPrewarm: componentPrewarm,
	}

	m.entityPool.Prewarm(entityPrewarm)

	return m
}

func (m *entityManager) createEntity(space *Space) *Entity {
	entity := m.entityPool.Request()

	index, generation := m.entityHandles.Insert(entity)
	entity.id = NewEntityId(index, generation)
	entity.alive = true
	entity.space = space
	entity.manager = m

	space.entities.Insert(entity)
	m.entities.Insert(entity)

	if space.initialised {
		m.initialiseEntity(entity)
	}

	return entity
}

func (m *entityManager) lookupEntity(id EntityId) (*Entity, bool) {
	return m.entityHandles.Get(id.Index(), id.Generation())
}

func (m *entityManager) addComponentToEntity(entity *Entity, componentType *ComponentType, args ...any) (AnyComponent, error) {
	if componentType == nil {
		return nil, fmt.Errorf("add component to %s: %w", entity, ErrUnknownComponentType)
	}

	if !entity.alive {
		return nil, fmt.Errorf("add %s to %s: %w", componentType, entity, ErrEntityDestroyed)
	}

	if entity.Has(componentType) {
		return nil, fmt.Errorf("add %s to %s: %w", componentType, entity, ErrComponentAlreadyPresent)
	}

	component := m.componentPool(componentType).Request()

	index, generation := m.componentHandles.Insert(component)

	state := component.state()
	state.id = newComponentId(index, generation)
	state.entity = entity

	if err := construct(component, args); err != nil {
		m.componentHandles.Remove(index, generation)
		m.componentPool(componentType).Release(component)
		return nil, fmt.Errorf("add %s to %s: %w", componentType, entity, err)
	}

	entity.attach(component)

	if entity.initialised {
		m.initialiseComponent(entity, component)
	}

	return component, nil
}

func construct(component AnyComponent, args []any) error {
	if constructor, ok := component.(Constructor); ok {
		return constructor.Construct(args...)
	}

	if len(args) > 0 {
		return fmt.Errorf("%w: %s accepts no arguments, got %d", ErrConstructArity, component.ComponentType(), len(args))
	}

	return nil
}

func (m *entityManager) componentPool(componentType *ComponentType) *pool.Pool[AnyComponent] {
	componentPool, ok := m.componentPools[componentType]
	if !ok {
		componentPool = pool.New(componentType.New, componentType.Reset)
		componentPool.Prewarm(m.componentPrewarm[componentType.Name])

		m.componentPools[componentType] = componentPool

		m.log.Debug("Component pool created",
			zap.Stringer("type", componentType),
			zap.Int("prewarm", componentPool.Free()),
		)
	}

	return componentPool
}

func (m *entityManager) removeComponentFromEntity(entity *Entity, component AnyComponent, notifyQueryManager bool) error {
	componentType := component.ComponentType()

	if current, ok := entity.components[componentType]; !ok || current != component {
		return fmt.Errorf("remove %s from %s: %w", componentType, entity, ErrComponentNotPresent)
	}

	m.componentsToUpdate.Remove(component)

	if entity.initialised {
		if destroyer, ok := component.(ComponentDestroyer); ok {
			destroyer.OnDestroy()
		}

		if notifyQueryManager {
			m.world.queryManager.onEntityComponentRemoved(entity, component)
		}
	}

	entity.detach(component)

	// no dangling access from closures still holding the component
	state := component.state()
	m.componentHandles.Remove(state.id.Index(), state.id.Generation())
	state.entity = nil

	m.componentsToRecycle = append(m.componentsToRecycle, component)

	return nil
}

func (m *entityManager) removeEntity(entity *Entity) error {
	if !entity.alive {
		return fmt.Errorf("remove %s: %w", entity, ErrEntityDestroyed)
	}

	// destroy hooks must not reach this entity again
	entity.alive = false

	if entity.space != nil {
		entity.space.entities.Remove(entity)
	}

	m.entities.Remove(entity)

	if entity.initialised {
		m.world.queryManager.onEntityRemoved(entity)
	}

	var errs []error

	// the entity removed event already covers the queries
	for _, component := range slices.Clone(entity.ordered) {
		// a destroy hook of a sibling may have removed it already
		if entity.components[component.ComponentType()] != component {
			continue
		}

		if err := m.removeComponentFromEntity(entity, component, false); err != nil {
			errs = append(errs, err)
		}
	}

	entity.space = nil

	m.entityHandles.Remove(entity.id.Index(), entity.id.Generation())
	m.entitiesToRecycle = append(m.entitiesToRecycle, entity)

	return errors.Join(errs...)
}

func (m *entityManager) initialiseSpace(space *Space) {
	space.initialised = true

	for entity := range space.entities.Values() {
		m.initialiseEntity(entity)
	}
}

func (m *entityManager) initialiseEntity(entity *Entity) {
	if entity.initialised {
		return
	}

	entity.initialised = true

	m.world.queryManager.onEntityAdded(entity)

	for _, component := range entity.ordered {
		m.initialiseComponent(entity, component)
	}
}

func (m *entityManager) initialiseComponent(entity *Entity, component AnyComponent) {
	if initializer, ok := component.(ComponentInitializer); ok {
		initializer.OnInit()
	}

	if _, ok := component.(ComponentUpdater); ok {
		m.componentsToUpdate.Insert(component)
	}

	m.world.queryManager.onEntityComponentAdded(entity, component)
}

// recycle returns destroyed entities and components to their pools. It must
// only run after the query manager processed the removals.
func (m *entityManager) recycle() {
	for _, component := range m.componentsToRecycle {
		m.componentPool(component.ComponentType()).Release(component)
	}

	clear(m.componentsToRecycle)
	m.componentsToRecycle = m.componentsToRecycle[:0]

	for _, entity := range m.entitiesToRecycle {
		m.entityPool.Release(entity)
	}

	clear(m.entitiesToRecycle)
	m.entitiesToRecycle = m.entitiesToRecycle[:0]
}

func (m *entityManager) updateComponents(delta, time float64) {
	for component := range m.componentsToUpdate.Values() {
		component.(ComponentUpdater).OnUpdate(delta, time)
	}
}

func (m *entityManager) updateEntities() {
	for entity := range m.entities.Values() {
		entity.events.Tick()
	}
}
