package recs

import (
	"fmt"
	"maps"
	"reflect"
	"strconv"
	"sync/atomic"

	"go.uber.org/zap"
)

type ComponentTypeId uint32

// ComponentType identifies a kind of component. There is exactly one
// ComponentType per Go type, created on first use by ComponentTypeOf.
//
// Name is the fully qualified name of the Go type and is used for query keys,
// so keys are deterministic across runs regardless of registration order.
type ComponentType struct {
	Id   ComponentTypeId
	Name string
	Type reflect.Type

	// New allocates a fresh, zero valued instance.
	New func() AnyComponent

	// Reset zeroes an instance so it can be handed out again.
	Reset func(AnyComponent)
}

func (c *ComponentType) String() string {
	return c.Name
}

type componentRegistry struct {
	byType map[reflect.Type]*ComponentType
	byName map[string]*ComponentType
}

// worlds may run on different goroutines, so the registry is copy on write
var componentTypes atomic.Pointer[componentRegistry]

// loadComponentTypes returns the current registry. It is created on first
// access, as package level variables may register types before init runs.
func loadComponentTypes() *componentRegistry {
	if registry := componentTypes.Load(); registry != nil {
		return registry
	}

	componentTypes.CompareAndSwap(nil, &componentRegistry{
		byType: map[reflect.Type]*ComponentType{},
		byName: map[string]*ComponentType{},
	})

	return componentTypes.Load()
}

// ComponentTypeOf returns the ComponentType of C, registering it if necessary.
func ComponentTypeOf[C any, PC interface {
	*C
	AnyComponent
}]() *ComponentType {
	ty := componentTypeFor[C]()

	// a component must embed Component of itself, not of some other type
	if embedded := PC(new(C)).ComponentType(); embedded != ty {
		panic(fmt.Sprintf("component %s embeds recs.Component[%s]", ty, embedded))
	}

	return ty
}

// ComponentTypeByName looks up a registered component type by its name.
func ComponentTypeByName(name string) (*ComponentType, error) {
	ty, ok := loadComponentTypes().byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponentType, name)
	}

	return ty, nil
}

func componentTypeFor[C any]() *ComponentType {
	reflectType := reflect.TypeFor[C]()

	if cached, ok := loadComponentTypes().byType[reflectType]; ok {
		return cached
	}

	for {
		previous := loadComponentTypes()
		if cached, ok := previous.byType[reflectType]; ok {
			return cached
		}

		newType := makeComponentType[C](ComponentTypeId(len(previous.byType) + 1))

		// types local to a function share their name with other local types
		// of the same package, keep names unique by suffixing the id
		if _, taken := previous.byName[newType.Name]; taken {
			newType.Name += "#" + strconv.Itoa(int(newType.Id))
		}

		next := &componentRegistry{
			byType: maps.Clone(previous.byType),
			byName: maps.Clone(previous.byName),
		}

		next.byType[reflectType] = newType
		next.byName[newType.Name] = newType

		if componentTypes.CompareAndSwap(previous, next) {
			zap.L().Debug("New component type registered",
				zap.String("name", newType.Name),
				zap.Uint32("id", uint32(newType.Id)),
			)

			return newType
		}
	}
}

func makeComponentType[C any](id ComponentTypeId) *ComponentType {
	reflectType := reflect.TypeFor[C]()

	if _, ok := any(new(C)).(AnyComponent); !ok {
		panic(fmt.Sprintf("type %s does not embed recs.Component", reflectType))
	}

	name := reflectType.Name()
	if pkg := reflectType.PkgPath(); pkg != "" {
		name = pkg + "." + name
	}

	return &ComponentType{
		Id:   id,
		Name: name,
		Type: reflectType,

		New: func() AnyComponent {
			return any(new(C)).(AnyComponent)
		},

		Reset: func(component AnyComponent) {
			var zero C
			*any(component).(*C) = zero
		},
	}
}
