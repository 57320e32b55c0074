package sculpt

import (
	"github.com/Faultbox/claymesh/pkg/math"
)

// History is a LIFO stack of working-vertex snapshots, one per stroke.
// Each entry is owned by the stack until popped.
type History struct {
	limit   int
	entries [][]math.Vec3
}

// NewHistory creates a stack. limit <= 0 means unbounded; otherwise the
// oldest snapshot is dropped once limit is exceeded.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Push stores snapshot, taking ownership of it.
func (h *History) Push(snapshot []math.Vec3) {
	h.entries = append(h.entries, snapshot)
	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		clear(h.entries[:drop])
		h.entries = append(h.entries[:0], h.entries[drop:]...)
	}
}

// Pop removes and returns the newest snapshot. Ownership passes to the caller.
func (h *History) Pop() ([]math.Vec3, bool) {
	n := len(h.entries)
	if n == 0 {
		return nil, false
	}
	s := h.entries[n-1]
	h.entries[n-1] = nil
	h.entries = h.entries[:n-1]
	return s, true
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return len(h.entries)
}

// Clear drops every snapshot.
func (h *History) Clear() {
	clear(h.entries)
	h.entries = h.entries[:0]
}
