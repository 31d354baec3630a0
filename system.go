package recs

import "fmt"

type SystemId uint64

// Results maps the query names a system declares to their live queries.
type Results map[string]*Query

// AnySystem is implemented by pointers to types embedding System.
type AnySystem interface {
	system() *System
}

// System must be embedded into every system type. Queries declares the
// queries the system wants to have maintained, keyed by name:
//
//	type Movement struct {
//		recs.System
//	}
//
//	func NewMovement() *Movement {
//		s := &Movement{}
//		s.Queries = map[string]recs.QueryDescription{
//			"moving": {All: []*recs.ComponentType{positionType, velocityType}},
//		}
//		return s
//	}
//
// Hooks are optional, see SystemInitializer, SystemUpdater and SystemDestroyer.
type System struct {
	Queries map[string]QueryDescription

	id          SystemId
	disabled    bool
	initialised bool

	world   *World
	owner   AnySystem
	results Results
}

// SystemInitializer is implemented by systems with an init hook.
type SystemInitializer interface {
	OnInit()
}

// SystemUpdater is implemented by systems that run every update.
type SystemUpdater interface {
	OnUpdate(delta, time float64, results Results)
}

// SystemDestroyer is implemented by systems with a destroy hook.
type SystemDestroyer interface {
	OnDestroy()
}

func (s *System) system() *System {
	return s
}

func (s *System) ID() SystemId {
	return s.id
}

func (s *System) Enabled() bool {
	return !s.disabled
}

// Enable resumes calling the update hook.
func (s *System) Enable() {
	s.disabled = false
}

// Disable stops calling the update hook until Enable is called.
func (s *System) Disable() {
	s.disabled = true
}

// World returns the world the system was added to.
func (s *System) World() (*World, error) {
	if s.world == nil {
		return nil, ErrSystemNotAdded
	}

	return s.world, nil
}

// Results returns the queries of the system.
func (s *System) Results() (Results, error) {
	if s.world == nil {
		return nil, ErrSystemNotAdded
	}

	return s.results, nil
}

// Query returns the query declared under the given name.
func (s *System) Query(name string) (*Query, error) {
	if s.world == nil {
		return nil, ErrSystemNotAdded
	}

	query, ok := s.results[name]
	if !ok {
		return nil, fmt.Errorf("query %q: %w", name, ErrUnknownQuery)
	}

	return query, nil
}

// Destroy removes the system from its world.
func (s *System) Destroy() error {
	if s.world == nil {
		return ErrSystemNotAdded
	}

	return s.world.RemoveSystem(s.owner)
}
