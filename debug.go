package marionette

import (
	"context"
	"log/slog"
	"time"
)

// debugStats holds per-frame timing metrics.
// Only populated when the engine is in debug mode.
type debugStats struct {
	traverseTime time.Duration
	sortTime     time.Duration
	commandCount int
	bindingCount int
}

// debugLog logs timing stats at debug level.
func (e *Engine) debugLog(stats debugStats) {
	if !e.debug {
		return
	}
	e.log.LogAttrs(context.Background(), slog.LevelDebug, "frame",
		slog.Uint64("frame", e.frame),
		slog.Duration("traverse", stats.traverseTime),
		slog.Duration("sort", stats.sortTime),
		slog.Duration("total", stats.traverseTime+stats.sortTime),
		slog.Int("commands", stats.commandCount),
		slog.Int("bindings", stats.bindingCount),
	)
}

// debugMaxTreeDepth is the depth past which the tree is reported as
// suspicious. Puppet hierarchies are normally shallow.
const debugMaxTreeDepth = 32

// debugMaxChildCount is the child count past which a node is reported.
const debugMaxChildCount = 1000

// debugCheckTree warns about nodes nested deeper than debugMaxTreeDepth or
// with more than debugMaxChildCount children.
func (e *Engine) debugCheckTree() {
	e.root.Walk(func(n *Node, depth int) bool {
		if depth+1 > debugMaxTreeDepth {
			e.log.Warn("tree depth exceeds threshold",
				"node", n.name, "depth", depth+1, "threshold", debugMaxTreeDepth)
			return false
		}
		if len(n.children) > debugMaxChildCount {
			e.log.Warn("node has many children",
				"node", n.name, "children", len(n.children), "threshold", debugMaxChildCount)
		}
		return true
	})
}
