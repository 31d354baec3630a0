package pool

// Pool is a free list of reusable values. Request hands out a previously
// released value if one is available and allocates a new one otherwise.
// A Pool grows with peak usage and never shrinks.
//
// Unlike sync.Pool, values are never dropped by the garbage collector, which
// keeps reuse deterministic.
type Pool[T any] struct {
	alloc func() T
	reset func(T)

	free      []T
	allocated int
}

// New creates a pool. reset is applied to every released value before it
// becomes available again and may be nil.
func New[T any](alloc func() T, reset func(T)) *Pool[T] {
	return &Pool[T]{alloc: alloc, reset: reset}
}

func (p *Pool[T]) Request() T {
	if n := len(p.free); n > 0 {
		value := p.free[n-1]

		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]

		return value
	}

	p.allocated += 1
	return p.alloc()
}

func (p *Pool[T]) Release(value T) {
	if p.reset != nil {
		p.reset(value)
	}

	p.free = append(p.free, value)
}

// Prewarm allocates values until at least count values are free.
func (p *Pool[T]) Prewarm(count int) {
	for len(p.free) < count {
		p.allocated += 1
		p.free = append(p.free, p.alloc())
	}
}

// Free returns the number of values ready for reuse.
func (p *Pool[T]) Free() int {
	return len(p.free)
}

// Allocated returns the number of values this pool ever created.
func (p *Pool[T]) Allocated() int {
	return p.allocated
}
