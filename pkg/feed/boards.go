package feed

import (
	"sync"

	"dockboard/pkg/model"
)

// Boards holds the latest snapshot per feed for the monitor API.
type Boards struct {
	mu        sync.RWMutex
	snapshots map[string]model.BoardSnapshot
}

// NewBoards creates an empty board registry.
func NewBoards() *Boards {
	return &Boards{snapshots: make(map[string]model.BoardSnapshot)}
}

// Publish stores the latest snapshot for a feed.
func (b *Boards) Publish(snap model.BoardSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshots[snap.FeedID] = snap
}

// Get returns the snapshot for one feed.
func (b *Boards) Get(feedID string) (model.BoardSnapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	snap, ok := b.snapshots[feedID]
	return snap, ok
}

// All returns a copy of every feed's latest snapshot.
func (b *Boards) All() map[string]model.BoardSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]model.BoardSnapshot, len(b.snapshots))
	for k, v := range b.snapshots {
		out[k] = v
	}
	return out
}
