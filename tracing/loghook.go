// Package tracing records what maps do with their keys.
package tracing

import (
	"log"

	"github.com/sarchlab/seqmap/hooking"
	"github.com/sarchlab/seqmap/seqmap"
)

// LogHook prints one line for every map event.
type LogHook struct {
	*log.Logger
}

// NewLogHook returns a LogHook that writes to logger.
func NewLogHook(logger *log.Logger) *LogHook {
	return &LogHook{Logger: logger}
}

// Func writes the event carried by ctx. Items that are not map events are
// ignored.
func (h *LogHook) Func(ctx hooking.HookCtx) {
	evt, ok := ctx.Item.(seqmap.Event)
	if !ok {
		return
	}

	switch ctx.Pos {
	case seqmap.HookPosExhausted:
		h.Printf("map %d, %s", evt.Map, ctx.Pos.Name)
	case seqmap.HookPosReject:
		h.Printf("map %d, %s, key %v, issued by map %d",
			evt.Map, ctx.Pos.Name, evt.Key, evt.Origin)
	default:
		h.Printf("map %d, %s, key %v", evt.Map, ctx.Pos.Name, evt.Key)
	}
}
