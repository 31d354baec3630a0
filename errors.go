package recs

import "errors"

var (
	// ErrComponentAlreadyPresent is returned when adding a second component of the same type to an entity.
	ErrComponentAlreadyPresent = errors.New("recs: entity already has a component of this type")
	// ErrComponentNotPresent is returned when getting or removing a component the entity does not have.
	ErrComponentNotPresent = errors.New("recs: entity does not have this component")
	// ErrComponentDetached indicates access to the entity of a component that is not attached.
	ErrComponentDetached = errors.New("recs: component is not attached to an entity")
	// ErrConstructArity indicates construction arguments that do not match what the component accepts.
	ErrConstructArity = errors.New("recs: construction arguments do not match the component")
	// ErrUnknownComponentType is returned for lookups of a component type name that was never registered.
	ErrUnknownComponentType = errors.New("recs: unknown component type")
	// ErrEntityDestroyed indicates an operation on an entity that has already been destroyed.
	ErrEntityDestroyed = errors.New("recs: entity has been destroyed")
	// ErrEntityDetached indicates access to the space of an entity that is not attached to one.
	ErrEntityDetached = errors.New("recs: entity is not attached to a space")
	// ErrSpaceDestroyed indicates an operation on a space that has already been destroyed.
	ErrSpaceDestroyed = errors.New("recs: space has been destroyed")
	// ErrSpaceExists is returned when creating a space with an id that is already taken.
	ErrSpaceExists = errors.New("recs: space with this id already exists")
	// ErrForeignSpace indicates a space that belongs to a different world.
	ErrForeignSpace = errors.New("recs: space belongs to a different world")
	// ErrSystemNotAdded indicates access to results of a system that is not part of a world.
	ErrSystemNotAdded = errors.New("recs: system has not been added to a world")
	// ErrSystemAlreadyAdded is returned when adding a system that is already part of a world.
	ErrSystemAlreadyAdded = errors.New("recs: system has already been added to a world")
	// ErrUnknownQuery indicates a lookup of a query name the system does not declare.
	ErrUnknownQuery = errors.New("recs: system does not declare a query with this name")
	// ErrEmptyQuery is returned for a query description without any condition.
	ErrEmptyQuery = errors.New("recs: query description has no conditions")
	// ErrInvalidQuery is returned for a query description containing a nil component type.
	ErrInvalidQuery = errors.New("recs: query description contains a nil component type")
	// ErrWorldNotInitialised indicates an update of a world before Init was called.
	ErrWorldNotInitialised = errors.New("recs: world has not been initialised")
	// ErrWorldDestroyed indicates an operation on a destroyed world.
	ErrWorldDestroyed = errors.New("recs: world has been destroyed")
	// ErrReentrantUpdate indicates a call to World.Update from within an update hook.
	ErrReentrantUpdate = errors.New("recs: world update is already running")
)
