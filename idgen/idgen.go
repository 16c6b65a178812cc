// Package idgen provides generators of unique, sequential identifiers.
//
// A generator may run out of values. Running out is not an error: Next
// returns false, and keeps returning false on every later call.
package idgen

// Generator produces values that are never repeated. Next returns the next
// value and true, or the zero value and false when no value is left.
type Generator[T comparable] interface {
	Next() (T, bool)
}

// Unsigned is the set of unsigned integer types a counter can count with.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Option configures a counter before its first value is emitted.
type Option[T Unsigned] func(*options[T])

type options[T Unsigned] struct {
	start T
}

// WithStart sets the first value the counter emits. A counter that starts
// at the largest value of T is exhausted from the first call.
func WithStart[T Unsigned](start T) Option[T] {
	return func(o *options[T]) {
		o.start = start
	}
}

func buildOptions[T Unsigned](opts []Option[T]) options[T] {
	o := options[T]{}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func maxOf[T Unsigned]() T {
	return ^T(0)
}
