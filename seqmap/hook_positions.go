package seqmap

import "github.com/sarchlab/seqmap/hooking"

// Hook positions fired by Map. The hook item is always an Event.
var (
	// HookPosInsert fires after Insert stores a value.
	HookPosInsert = &hooking.HookPos{Name: "Insert"}

	// HookPosReserve fires after Reserve allocates a key.
	HookPosReserve = &hooking.HookPos{Name: "Reserve"}

	// HookPosRedeem fires after Redeem stores a value.
	HookPosRedeem = &hooking.HookPos{Name: "Redeem"}

	// HookPosReject fires when Redeem refuses a reservation from another map.
	HookPosReject = &hooking.HookPos{Name: "Reject"}

	// HookPosExhausted fires when Insert or Reserve finds the generator
	// exhausted.
	HookPosExhausted = &hooking.HookPos{Name: "Exhausted"}
)

// Event is the hook item for every Map hook position.
type Event struct {
	// Map is the ID of the map that fired the hook.
	Map InstanceID

	// Key is the key involved. It is nil for HookPosExhausted.
	Key any

	// Origin is the issuing map of the reservation. It equals Map for
	// everything except HookPosReject.
	Origin InstanceID
}
