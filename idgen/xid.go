package idgen

import "github.com/rs/xid"

// XIDGenerator emits globally unique xid values. It never runs out. The IDs
// are not deterministic across runs, so use a counter when reproducibility
// matters.
type XIDGenerator struct{}

// NewXIDGenerator returns a generator backed by xid.
func NewXIDGenerator() XIDGenerator {
	return XIDGenerator{}
}

// Next returns a fresh xid. It is safe for concurrent use.
func (XIDGenerator) Next() (xid.ID, bool) {
	return xid.New(), true
}

var _ Generator[xid.ID] = XIDGenerator{}
