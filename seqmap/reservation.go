package seqmap

import (
	"errors"
	"fmt"
)

// Reservation is the right to store one value under a key that a Map has
// already allocated. It is a plain value with no reference to the map, so it
// can be stored or sent to another goroutine freely.
type Reservation[K comparable] struct {
	key    K
	origin InstanceID
}

// Key returns the reserved key.
func (r Reservation[K]) Key() K {
	return r.key
}

// Origin returns the ID of the map that issued the reservation.
func (r Reservation[K]) Origin() InstanceID {
	return r.origin
}

// ErrForeignReservation is matched by errors returned from Redeem when the
// reservation was issued by a different map.
var ErrForeignReservation = errors.New("reservation issued by another map")

// ForeignReservationError is returned by Redeem when the reservation belongs
// to another map. It carries the reservation back, unchanged.
type ForeignReservationError[K comparable] struct {
	Reservation Reservation[K]
	Map         InstanceID
}

func (e *ForeignReservationError[K]) Error() string {
	return fmt.Sprintf(
		"seqmap: reservation for key %v was issued by map %d, not map %d",
		e.Reservation.key, e.Reservation.origin, e.Map)
}

func (e *ForeignReservationError[K]) Unwrap() error {
	return ErrForeignReservation
}
