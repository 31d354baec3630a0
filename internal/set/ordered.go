package set

import (
	"iter"
)

// Ordered is a set that remembers insertion order. Iteration order is
// deterministic, which matters for systems and update hooks.
//
// Removal leaves a tombstone that is compacted lazily, so removing values
// while iterating over Values is allowed.
type Ordered[T comparable] struct {
	index  map[T]int
	values []T
	live   []bool

	dead      int
	iterating int
}

func (s *Ordered[T]) Insert(value T) bool {
	if s.index == nil {
		s.index = make(map[T]int)
	}

	if _, exists := s.index[value]; exists {
		return false
	}

	s.index[value] = len(s.values)
	s.values = append(s.values, value)
	s.live = append(s.live, true)
	return true
}

func (s *Ordered[T]) Remove(value T) bool {
	idx, exists := s.index[value]
	if !exists {
		return false
	}

	delete(s.index, value)

	var zero T
	s.values[idx] = zero
	s.live[idx] = false
	s.dead += 1

	if s.iterating == 0 && s.dead > 32 && s.dead > len(s.values)/2 {
		s.Compact()
	}

	return true
}

func (s *Ordered[T]) Has(value T) bool {
	_, exists := s.index[value]
	return exists
}

func (s *Ordered[T]) Len() int {
	return len(s.index)
}

func (s *Ordered[T]) Clear() {
	clear(s.index)
	clear(s.values)
	s.values = s.values[:0]
	s.live = s.live[:0]
	s.dead = 0
}

// Values iterates over all values in insertion order. Values inserted
// during iteration are visited too, removed values are skipped.
func (s *Ordered[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		// compaction would shift indices under our feet
		s.iterating += 1
		defer func() { s.iterating -= 1 }()

		for idx := 0; idx < len(s.values); idx++ {
			if !s.live[idx] {
				continue
			}

			if !yield(s.values[idx]) {
				return
			}
		}
	}
}

// AppendTo appends all values in order to target.
func (s *Ordered[T]) AppendTo(target []T) []T {
	for value := range s.Values() {
		target = append(target, value)
	}

	return target
}

// Compact drops tombstones. It is a no-op while an iteration is running.
func (s *Ordered[T]) Compact() {
	if s.dead == 0 || s.iterating != 0 {
		return
	}

	values := s.values[:0]
	for idx, value := range s.values {
		if !s.live[idx] {
			continue
		}

		s.index[value] = len(values)
		values = append(values, value)
	}

	clear(s.values[len(values):])
	s.values = values

	s.live = s.live[:len(values)]
	for idx := range s.live {
		s.live[idx] = true
	}

	s.dead = 0
}
