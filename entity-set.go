package recs

import (
	"iter"

	"github.com/isaac-mason/rapida-sub001/internal/set"
)

// EntitySet is a read only, insertion ordered set of entities as returned by
// queries.
type EntitySet struct {
	_ noCopy

	entities set.Ordered[*Entity]
}

func (s *EntitySet) Has(entity *Entity) bool {
	return s.entities.Has(entity)
}

func (s *EntitySet) Len() int {
	return s.entities.Len()
}

// Values iterates the entities in the order they entered the set.
func (s *EntitySet) Values() iter.Seq[*Entity] {
	return s.entities.Values()
}

// Slice returns a copy of the entities in order.
func (s *EntitySet) Slice() []*Entity {
	return s.entities.AppendTo(make([]*Entity, 0, s.entities.Len()))
}

// First returns the oldest entity in the set.
func (s *EntitySet) First() (*Entity, bool) {
	for entity := range s.entities.Values() {
		return entity, true
	}

	return nil, false
}

func (s *EntitySet) insert(entity *Entity) bool {
	return s.entities.Insert(entity)
}

func (s *EntitySet) remove(entity *Entity) bool {
	return s.entities.Remove(entity)
}

func (s *EntitySet) clear() {
	s.entities.Clear()
}
