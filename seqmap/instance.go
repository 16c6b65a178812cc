package seqmap

import (
	"sync"

	"github.com/sarchlab/seqmap/idgen"
)

// InstanceID identifies one Map within the process. IDs are never reused,
// even after the map that held one is gone.
type InstanceID uint64

var (
	instanceMu  sync.Mutex
	instanceIDs idgen.Counter[uint64]
)

// nextInstanceID returns false once every InstanceID has been handed out.
func nextInstanceID() (InstanceID, bool) {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	id, ok := instanceIDs.Next()

	return InstanceID(id), ok
}
