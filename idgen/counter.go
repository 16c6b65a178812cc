package idgen

import "sync/atomic"

// Counter emits 0, 1, 2, ... until the largest value of T. The largest value
// itself is never emitted; it marks exhaustion. The zero value is a counter
// starting at 0. A Counter must not be used from more than one goroutine.
type Counter[T Unsigned] struct {
	next T
}

// NewCounter creates a plain counter.
func NewCounter[T Unsigned](opts ...Option[T]) *Counter[T] {
	o := buildOptions(opts)

	return &Counter[T]{next: o.start}
}

// Next returns the current value and advances the counter.
func (c *Counter[T]) Next() (T, bool) {
	if c.next == maxOf[T]() {
		return 0, false
	}

	v := c.next
	c.next++

	return v, true
}

// Peek returns the value the next call to Next would emit, without
// advancing. It returns false if the counter is exhausted.
func (c *Counter[T]) Peek() (T, bool) {
	if c.next == maxOf[T]() {
		return 0, false
	}

	return c.next, true
}

// AtomicCounter has the same sequence as Counter, but keeps its state in an
// atomic cell so that Next can be called from several goroutines. Go has no
// atomic type narrower than 32 bits, so every width is stored in a 64-bit
// cell bounded by the largest value of T.
type AtomicCounter[T Unsigned] struct {
	next atomic.Uint64
}

// NewAtomicCounter creates an atomic counter.
func NewAtomicCounter[T Unsigned](opts ...Option[T]) *AtomicCounter[T] {
	o := buildOptions(opts)

	c := &AtomicCounter[T]{}
	c.next.Store(uint64(o.start))

	return c
}

// Next returns the current value and advances the counter.
func (c *AtomicCounter[T]) Next() (T, bool) {
	limit := uint64(maxOf[T]())

	for {
		v := c.next.Load()
		if v == limit {
			return 0, false
		}

		if c.next.CompareAndSwap(v, v+1) {
			return T(v), true
		}
	}
}

// Peek returns the value the next call to Next would emit, without
// advancing. Under concurrent use the answer may be stale by the time it is
// read.
func (c *AtomicCounter[T]) Peek() (T, bool) {
	v := c.next.Load()
	if v == uint64(maxOf[T]()) {
		return 0, false
	}

	return T(v), true
}

var (
	_ Generator[uint8]  = (*Counter[uint8])(nil)
	_ Generator[uint64] = (*AtomicCounter[uint64])(nil)
)
