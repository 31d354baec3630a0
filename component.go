package recs

import (
	"fmt"
	"strconv"
)

// ComponentId is a generation checked handle to a component. It changes
// every time a pooled component instance is handed out again.
type ComponentId uint64

func newComponentId(index, generation uint32) ComponentId {
	return ComponentId(uint64(generation)<<32 | uint64(index))
}

func (id ComponentId) Index() uint32      { return uint32(id) }
func (id ComponentId) Generation() uint32 { return uint32(id >> 32) }

func (id ComponentId) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// AnyComponent is implemented by pointers to types embedding Component.
type AnyComponent interface {
	ComponentType() *ComponentType
	ID() ComponentId
	Entity() (*Entity, error)

	state() *componentState
}

// Component must be embedded into every component type:
//
//	type Position struct {
//		recs.Component[Position]
//		X, Y float64
//	}
//
// Component instances are pooled. A component must not be retained after it
// was removed from its entity, the instance will be handed out again.
type Component[C any] struct {
	componentState
}

type componentState struct {
	id     ComponentId
	entity *Entity
}

func (c *Component[C]) ComponentType() *ComponentType {
	return componentTypeFor[C]()
}

func (c *Component[C]) ID() ComponentId {
	return c.id
}

// Entity returns the entity the component is attached to.
func (c *Component[C]) Entity() (*Entity, error) {
	if c.entity == nil {
		return nil, ErrComponentDetached
	}

	return c.entity, nil
}

func (c *Component[C]) state() *componentState {
	return &c.componentState
}

// Constructor is implemented by components that accept construction
// arguments. Construct runs on every add, as pooled instances are reused
// instead of freshly allocated. It must reject arguments it cannot handle,
// ExpectArgs helps with that.
type Constructor interface {
	Construct(args ...any) error
}

// ComponentInitializer is implemented by components with an init hook. The
// hook runs once the entity is initialised.
type ComponentInitializer interface {
	OnInit()
}

// ComponentUpdater is implemented by components updated every tick.
type ComponentUpdater interface {
	OnUpdate(delta, time float64)
}

// ComponentDestroyer is implemented by components with a destroy hook. The
// hook runs while the component is still attached.
type ComponentDestroyer interface {
	OnDestroy()
}

// ExpectArgs checks the number of construction arguments.
func ExpectArgs(args []any, count int) error {
	if len(args) != count {
		return fmt.Errorf("%w: expected %d arguments, got %d", ErrConstructArity, count, len(args))
	}

	return nil
}

// Arg returns args[idx] as T.
func Arg[T any](args []any, idx int) (T, error) {
	var zero T

	if idx >= len(args) {
		return zero, fmt.Errorf("%w: missing argument %d", ErrConstructArity, idx)
	}

	value, ok := args[idx].(T)
	if !ok {
		return zero, fmt.Errorf("%w: argument %d is %T, expected %T", ErrConstructArity, idx, args[idx], zero)
	}

	return value, nil
}
