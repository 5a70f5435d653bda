// Package connstate owns the process-wide connection counter and derives
// presentation state from it.
package connstate

import (
	"sync"

	"github.com/pscheid92/statuspulse/internal/domain"
)

// Tracker counts active connections. The zero value is ready to use.
// All access to the counter is serialized by mu.
type Tracker struct {
	mu    sync.Mutex
	count int
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Connect increments the counter and returns the resulting snapshot.
func (t *Tracker) Connect() domain.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.count++
	return domain.SnapshotFor(t.count)
}

// Disconnect decrements the counter, floored at zero, and returns the
// resulting snapshot. Disconnecting at zero is a no-op.
func (t *Tracker) Disconnect() domain.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.count > 0 {
		t.count--
	}
	return domain.SnapshotFor(t.count)
}

// CurrentState returns the snapshot for the current count without mutating it.
func (t *Tracker) CurrentState() domain.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return domain.SnapshotFor(t.count)
}

// Count returns the current number of tracked connections.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.count
}
