package recs

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
)

// EntityId encodes a 32-bit slot index in the lower bits and a 32-bit
// generation in the upper bits. The generation changes whenever a pooled
// entity is handed out again, so stale ids stop resolving.
type EntityId uint64

const NoEntityId = EntityId(0)

func NewEntityId(index uint32, generation uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(index))
}

func (id EntityId) Index() uint32      { return uint32(id) }
func (id EntityId) Generation() uint32 { return uint32(id >> 32) }

func (id EntityId) String() string {
	return strconv.FormatUint(uint64(id.Index()), 10) + "v" + strconv.FormatUint(uint64(id.Generation()), 10)
}

// Entity is a container of components within a Space. Entities are pooled,
// do not keep a reference after the entity was destroyed, keep its EntityId
// and resolve it with World.Entity instead.
type Entity struct {
	id          EntityId
	alive       bool
	initialised bool

	// components by type, plus insertion order for iteration
	components map[*ComponentType]AnyComponent
	ordered    []AnyComponent

	space   *Space
	manager *entityManager
	events  Events
}

func newEntity() *Entity {
	return &Entity{
		components: map[*ComponentType]AnyComponent{},
	}
}

func (e *Entity) ID() EntityId {
	return e.id
}

func (e *Entity) String() string {
	return "Entity(" + e.id.String() + ")"
}

func (e *Entity) Alive() bool {
	return e.alive
}

func (e *Entity) Initialised() bool {
	return e.initialised
}

// Space returns the space owning this entity.
func (e *Entity) Space() (*Space, error) {
	if e.space == nil {
		return nil, ErrEntityDetached
	}

	return e.space, nil
}

// Events returns the queued event channel of this entity.
func (e *Entity) Events() *Events {
	return &e.events
}

// Add adds a new component of the given type. The args are passed to the
// components Construct method.
func (e *Entity) Add(componentType *ComponentType, args ...any) (AnyComponent, error) {
	if e.manager == nil {
		return nil, ErrEntityDestroyed
	}

	return e.manager.addComponentToEntity(e, componentType, args...)
}

// Remove removes the component of the given type.
func (e *Entity) Remove(componentType *ComponentType) error {
	component, ok := e.components[componentType]
	if !ok {
		return fmt.Errorf("remove %s from %s: %w", componentType, e, ErrComponentNotPresent)
	}

	return e.RemoveComponent(component)
}

// RemoveComponent removes a specific component instance.
func (e *Entity) RemoveComponent(component AnyComponent) error {
	if e.manager == nil {
		return ErrEntityDestroyed
	}

	return e.manager.removeComponentFromEntity(e, component, true)
}

// Get returns the component of the given type or fails with ErrComponentNotPresent.
func (e *Entity) Get(componentType *ComponentType) (AnyComponent, error) {
	component, ok := e.components[componentType]
	if !ok {
		return nil, fmt.Errorf("get %s from %s: %w", componentType, e, ErrComponentNotPresent)
	}

	return component, nil
}

// Find returns the component of the given type, if present.
func (e *Entity) Find(componentType *ComponentType) (AnyComponent, bool) {
	component, ok := e.components[componentType]
	return component, ok
}

// FindByName returns the component whose type has the given name.
func (e *Entity) FindByName(name string) (AnyComponent, bool) {
	for _, component := range e.ordered {
		if component.ComponentType().Name == name {
			return component, true
		}
	}

	return nil, false
}

func (e *Entity) Has(componentType *ComponentType) bool {
	_, ok := e.components[componentType]
	return ok
}

func (e *Entity) HasByName(name string) bool {
	_, ok := e.FindByName(name)
	return ok
}

// Components iterates the components of the entity in the order they were added.
func (e *Entity) Components() iter.Seq[AnyComponent] {
	return slices.Values(slices.Clone(e.ordered))
}

func (e *Entity) ComponentCount() int {
	return len(e.ordered)
}

// Destroy removes the entity from its space and destroys all of its components.
func (e *Entity) Destroy() error {
	if e.manager == nil || !e.alive {
		return ErrEntityDestroyed
	}

	return e.manager.removeEntity(e)
}

func (e *Entity) attach(component AnyComponent) {
	e.components[component.ComponentType()] = component
	e.ordered = append(e.ordered, component)
}

func (e *Entity) detach(component AnyComponent) {
	delete(e.components, component.ComponentType())

	if idx := slices.Index(e.ordered, component); idx >= 0 {
		e.ordered = slices.Delete(e.ordered, idx, idx+1)
	}
}

// reset prepares the entity for reuse from the pool.
func (e *Entity) reset() {
	e.id = NoEntityId
	e.alive = false
	e.initialised = false
	e.space = nil
	e.manager = nil

	clear(e.components)
	clear(e.ordered)
	e.ordered = e.ordered[:0]

	e.events.Reset()
}

// AddComponent adds a new component of type C to the entity.
func AddComponent[C any, PC interface {
	*C
	AnyComponent
}](entity *Entity, args ...any) (*C, error) {
	component, err := entity.Add(ComponentTypeOf[C, PC](), args...)
	if err != nil {
		return nil, err
	}

	return component.(PC), nil
}

// GetComponent returns the component of type C or fails with ErrComponentNotPresent.
func GetComponent[C any, PC interface {
	*C
	AnyComponent
}](entity *Entity) (*C, error) {
	component, err := entity.Get(ComponentTypeOf[C, PC]())
	if err != nil {
		return nil, err
	}

	return component.(PC), nil
}

// FindComponent returns the component of type C, if present.
func FindComponent[C any, PC interface {
	*C
	AnyComponent
}](entity *Entity) (*C, bool) {
	component, ok := entity.Find(ComponentTypeOf[C, PC]())
	if !ok {
		return nil, false
	}

	return component.(PC), true
}

func HasComponent[C any, PC interface {
	*C
	AnyComponent
}](entity *Entity) bool {
	return entity.Has(ComponentTypeOf[C, PC]())
}

// RemoveComponentOf removes the component of type C.
func RemoveComponentOf[C any, PC interface {
	*C
	AnyComponent
}](entity *Entity) error {
	return entity.Remove(ComponentTypeOf[C, PC]())
}
