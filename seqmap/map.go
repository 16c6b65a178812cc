// Package seqmap provides a map whose keys are allocated by a generator, with
// a two-step path for storing a value after its key has been handed out.
//
// A key can be reserved before its value exists and redeemed later. The
// reservation remembers which map issued it, and only that map accepts it:
//
//	m, _ := seqmap.New[uint32, *Job]()
//	r, _ := m.Reserve()
//	job := newJob(r.Key())
//	key, err := m.Redeem(r, job)
//
// A Map is not safe for concurrent use. Only the allocation of map IDs is
// shared across goroutines.
package seqmap

import (
	"iter"
	"log"
	"maps"

	"github.com/sarchlab/seqmap/hooking"
	"github.com/sarchlab/seqmap/idgen"
)

// Option configures a Map at construction.
type Option func(*config)

type config struct {
	capacity int
}

// WithCapacity sizes the backing storage for n entries up front.
func WithCapacity(n int) Option {
	return func(c *config) {
		c.capacity = n
	}
}

// Map stores values under keys produced by its own generator.
type Map[K comparable, V any] struct {
	hooking.HookableBase

	id       InstanceID
	gen      idgen.Generator[K]
	entries  map[K]V
	capacity int
}

// New creates a Map whose keys come from a counter starting at zero. It
// returns false if the process has run out of map IDs.
func New[K idgen.Unsigned, V any](opts ...Option) (*Map[K, V], bool) {
	return NewWithGenerator[K, V](idgen.NewCounter[K](), opts...)
}

// NewWithGenerator creates a Map that allocates keys from gen. The map takes
// ownership of gen; nothing else should draw values from it. It returns false
// if the process has run out of map IDs.
func NewWithGenerator[K comparable, V any](
	gen idgen.Generator[K],
	opts ...Option,
) (*Map[K, V], bool) {
	c := config{}
	for _, opt := range opts {
		opt(&c)
	}

	id, ok := nextInstanceID()
	if !ok {
		return nil, false
	}

	m := &Map[K, V]{
		id:       id,
		gen:      gen,
		entries:  make(map[K]V, c.capacity),
		capacity: c.capacity,
	}

	return m, true
}

// ID returns the process-unique ID of the map.
func (m *Map[K, V]) ID() InstanceID {
	return m.id
}

// Len returns the number of stored values.
func (m *Map[K, V]) Len() int {
	return len(m.entries)
}

// Capacity returns how many entries the map can hold before the backing
// storage grows. Go maps do not report this, so it is the larger of the size
// hint given at construction and the current length.
func (m *Map[K, V]) Capacity() int {
	return max(m.capacity, len(m.entries))
}

// Get returns the value stored under key. The key is not checked for having
// come from this map.
func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Contains reports whether a value is stored under key.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.entries[key]
	return ok
}

// Insert allocates a key and stores v under it. It returns false, storing
// nothing, when the generator is exhausted.
func (m *Map[K, V]) Insert(v V) (K, bool) {
	key, ok := m.allocate()
	if !ok {
		return key, false
	}

	m.store(key, v)
	m.fire(HookPosInsert, key, m.id)

	return key, true
}

// Reserve allocates a key without storing anything. The key will never be
// allocated again. It returns false when the generator is exhausted.
func (m *Map[K, V]) Reserve() (Reservation[K], bool) {
	key, ok := m.allocate()
	if !ok {
		return Reservation[K]{}, false
	}

	m.fire(HookPosReserve, key, m.id)

	return Reservation[K]{key: key, origin: m.id}, true
}

// Owns reports whether r was issued by this map.
func (m *Map[K, V]) Owns(r Reservation[K]) bool {
	return r.origin == m.id
}

// Redeem stores v under the key of r. If r was issued by a different map,
// nothing changes and the returned error is a *ForeignReservationError
// holding r. Redeeming the same reservation twice panics, the same as any
// other key collision.
func (m *Map[K, V]) Redeem(r Reservation[K], v V) (K, error) {
	if !m.Owns(r) {
		m.fire(HookPosReject, r.key, r.origin)

		var zero K

		return zero, &ForeignReservationError[K]{Reservation: r, Map: m.id}
	}

	m.store(r.key, v)
	m.fire(HookPosRedeem, r.key, m.id)

	return r.key, nil
}

// All iterates over the stored key-value pairs in no particular order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return maps.All(m.entries)
}

// Keys iterates over the stored keys in no particular order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return maps.Keys(m.entries)
}

// Values iterates over the stored values in no particular order.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return maps.Values(m.entries)
}

func (m *Map[K, V]) allocate() (K, bool) {
	key, ok := m.gen.Next()
	if !ok {
		m.fireExhausted()

		var zero K

		return zero, false
	}

	return key, true
}

// store panics if key is taken. A generator that repeats a key, or a
// reservation redeemed twice, would otherwise overwrite data.
func (m *Map[K, V]) store(key K, v V) {
	if _, found := m.entries[key]; found {
		log.Panicf("seqmap: key %v already stored in map %d", key, m.id)
	}

	m.entries[key] = v
}

func (m *Map[K, V]) fire(pos *hooking.HookPos, key K, origin InstanceID) {
	if m.NumHooks() == 0 {
		return
	}

	m.InvokeHook(hooking.HookCtx{
		Domain: m,
		Pos:    pos,
		Item:   Event{Map: m.id, Key: key, Origin: origin},
	})
}

func (m *Map[K, V]) fireExhausted() {
	if m.NumHooks() == 0 {
		return
	}

	m.InvokeHook(hooking.HookCtx{
		Domain: m,
		Pos:    HookPosExhausted,
		Item:   Event{Map: m.id, Origin: m.id},
	})
}
