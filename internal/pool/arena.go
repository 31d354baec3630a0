package pool

// Arena is a slot map addressed by (index, generation) pairs. A slot's
// generation is incremented when the slot is freed, so a handle taken
// before Remove no longer resolves after the slot has been reused.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

type slot[T any] struct {
	value      T
	generation uint32
	used       bool
}

// Insert stores value in a free slot and returns its handle.
// Generations start at 1, so the zero handle never resolves.
func (a *Arena[T]) Insert(value T) (index uint32, generation uint32) {
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{generation: 1})
	}

	s := &a.slots[index]
	s.value = value
	s.used = true

	a.count += 1

	return index, s.generation
}

func (a *Arena[T]) Get(index, generation uint32) (T, bool) {
	if int(index) >= len(a.slots) {
		var zero T
		return zero, false
	}

	s := &a.slots[index]
	if !s.used || s.generation != generation {
		var zero T
		return zero, false
	}

	return s.value, true
}

// Remove frees the slot if the handle is still valid.
func (a *Arena[T]) Remove(index, generation uint32) bool {
	if int(index) >= len(a.slots) {
		return false
	}

	s := &a.slots[index]
	if !s.used || s.generation != generation {
		return false
	}

	var zero T
	s.value = zero
	s.used = false

	// skip zero so a wrapped generation never matches the zero handle
	s.generation += 1
	if s.generation == 0 {
		s.generation = 1
	}

	a.free = append(a.free, index)
	a.count -= 1

	return true
}

// Len returns the number of occupied slots.
func (a *Arena[T]) Len() int {
	return a.count
}
