// Package playback owns the process-wide announcement queue and the serial
// engine that drains it through the audio output.
package playback

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"dockboard/pkg/model"
)

// DefaultCollectionWindow batches near-simultaneous discoveries from
// multiple feeds into one ordering pass.
const DefaultCollectionWindow = 500 * time.Millisecond

// SatisfiedFunc answers whether the ledger already covers an item's
// threshold, so committed announcements are silently dropped on re-enqueue.
type SatisfiedFunc func(entryID string, threshold int) bool

// Queue is the shared announcement queue all feeds enqueue into. Newly
// accepted items arm (or refresh) a collection window; when it elapses the
// buffered items are ordered and released to the drain side as one batch.
type Queue struct {
	mu        sync.Mutex
	window    time.Duration
	satisfied SatisfiedFunc

	buf      []model.QueueItem
	ready    []model.QueueItem
	resident map[string]struct{}
	timer    *time.Timer
	notify   chan struct{}
}

// NewQueue creates the queue. satisfied may be nil when no ledger dedupe is
// wanted (tests).
func NewQueue(window time.Duration, satisfied SatisfiedFunc) *Queue {
	if window <= 0 {
		window = DefaultCollectionWindow
	}
	return &Queue{
		window:    window,
		satisfied: satisfied,
		resident:  make(map[string]struct{}),
		notify:    make(chan struct{}, 1),
	}
}

// Enqueue offers an item to the queue. Items whose entry is already resident
// (buffered, ready, or currently playing) or whose threshold the ledger
// already satisfies are dropped. Returns true when the item was accepted.
func (q *Queue) Enqueue(item model.QueueItem) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.resident[item.EntryID]; ok {
		return false
	}
	if q.satisfied != nil && q.satisfied(item.EntryID, item.Threshold) {
		return false
	}

	q.resident[item.EntryID] = struct{}{}
	q.buf = append(q.buf, item)
	slog.Debug("Queue: Accepted announcement", "entry", item.EntryID, "feed", item.FeedID, "threshold", item.Threshold)

	// Arm or refresh the collection window so concurrent feeds merge into a
	// single ordering pass instead of racing.
	if q.timer == nil {
		q.timer = time.AfterFunc(q.window, q.flush)
	} else {
		q.timer.Reset(q.window)
	}
	return true
}

// flush orders the collected batch and hands it to the drain side.
func (q *Queue) flush() {
	q.mu.Lock()
	if len(q.buf) > 0 {
		batch := q.buf
		q.buf = nil
		sort.SliceStable(batch, func(i, j int) bool { return less(batch[i], batch[j]) })
		q.ready = append(q.ready, batch...)
	}
	q.timer = nil
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// less is the queue's total order: earliest arrival first, then the primary
// displayed slot before the "next" slot, then left panel before right, with
// feed and entry identity as final deterministic tie-breaks.
func less(a, b model.QueueItem) bool {
	if a.ArrivalInstant != b.ArrivalInstant {
		return a.ArrivalInstant < b.ArrivalInstant
	}
	if a.Primary != b.Primary {
		return a.Primary
	}
	if ra, rb := sideRank(a.Side), sideRank(b.Side); ra != rb {
		return ra < rb
	}
	if a.FeedID != b.FeedID {
		return a.FeedID < b.FeedID
	}
	return a.EntryID < b.EntryID
}

func sideRank(side string) int {
	switch side {
	case "left":
		return 0
	case "right":
		return 1
	default:
		return 2
	}
}

// Ready signals whenever a flushed batch became available.
func (q *Queue) Ready() <-chan struct{} {
	return q.notify
}

// Next pops the head of the ordered ready list. The entry stays resident
// until Release is called, keeping re-enqueues of an in-flight entry out.
func (q *Queue) Next() (model.QueueItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.ready) == 0 {
		return model.QueueItem{}, false
	}
	item := q.ready[0]
	q.ready = q.ready[1:]
	return item, true
}

// Release drops an entry's residency after its playback attempt finished,
// whether committed or aborted. A committed entry stays blocked through the
// ledger; an aborted one may be re-discovered on a later cycle.
func (q *Queue) Release(entryID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.resident, entryID)
}

// Len reports buffered plus ready items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf) + len(q.ready)
}
