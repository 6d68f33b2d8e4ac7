// Package ledger persists which announcements have already been played,
// giving the announcement pipeline its exactly-once guarantee across page
// reloads and process restarts.
package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"dockboard/pkg/store"
)

// StateKey is the persisted key-value slot holding the serialized ledger.
const StateKey = "playback_ledger"

// DefaultRetention is how long a record stays eligible for lookups before
// the sweep removes it.
const DefaultRetention = 24 * time.Hour

// Record is the persisted outcome of announcing one entry. At most one
// record exists per entry per calendar day; MinPlayedThreshold always holds
// the smallest (closest to arrival) threshold announced so far.
type Record struct {
	EntryID            string    `json:"entryId"`
	MinPlayedThreshold int       `json:"minPlayedThreshold"`
	PlayedAt           time.Time `json:"playedAt"`
	ArrivalTime        string    `json:"arrivalTime"`
}

// Ledger is the shared playback ledger. Writers are exclusively the playback
// engine; readers are the threshold detectors of every feed. A mutex
// serializes access since feeds run on independent goroutines.
type Ledger struct {
	mu        sync.Mutex
	st        store.StateStore
	clock     func() time.Time
	retention time.Duration
	records   map[string]Record
}

// New creates a ledger backed by st and loads the persisted state. A
// malformed blob is discarded and the ledger reinitialized empty; corruption
// never propagates as an error.
func New(ctx context.Context, st store.StateStore) *Ledger {
	l := &Ledger{
		st:        st,
		clock:     time.Now,
		retention: DefaultRetention,
		records:   make(map[string]Record),
	}
	l.load(ctx)
	return l
}

// SetClock overrides the time source. Intended for tests.
func (l *Ledger) SetClock(clock func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clock = clock
}

func (l *Ledger) load(ctx context.Context) {
	blob, ok := l.st.GetState(ctx, StateKey)
	if !ok || blob == "" {
		return
	}

	records, ok := decode(blob)
	if !ok {
		// Corrupt store: reset rather than fail. Losing the ledger costs at
		// worst one repeated announcement per entry.
		slog.Warn("Ledger: Persisted state corrupt, reinitializing")
		l.records = make(map[string]Record)
		if err := l.st.SetState(ctx, StateKey, "{}"); err != nil {
			slog.Error("Ledger: Failed to reset persisted state", "error", err)
		}
		return
	}
	l.records = records
	slog.Debug("Ledger: Loaded persisted state", "records", len(records))
}

// decode parses the persisted blob. The boolean result tags corruption:
// false means the blob (or any record in it) is malformed and the caller
// must reinitialize.
func decode(blob string) (map[string]Record, bool) {
	var records map[string]Record
	if err := json.Unmarshal([]byte(blob), &records); err != nil {
		return nil, false
	}
	if records == nil {
		records = make(map[string]Record)
	}
	for id, r := range records {
		if r.EntryID == "" || r.EntryID != id || r.MinPlayedThreshold < 0 || r.PlayedAt.IsZero() {
			return nil, false
		}
	}
	return records, true
}

// Satisfied reports whether the given threshold for the entry is already
// covered by a record from the current calendar day. Once the smallest
// threshold has been played, all larger (earlier) thresholds count as
// satisfied too, so stale superseded reminders are never replayed.
func (l *Ledger) Satisfied(entryID string, threshold int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.records[entryID]
	if !ok {
		return false
	}
	if !sameDay(r.PlayedAt, l.clock()) {
		return false
	}
	return r.MinPlayedThreshold <= threshold
}

// MarkPlayed records a completed announcement. An existing same-day record
// keeps the minimum of the stored and new thresholds; a record from a
// previous day is replaced outright.
func (l *Ledger) MarkPlayed(ctx context.Context, entryID string, threshold int, arrivalTime string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	r, ok := l.records[entryID]
	if ok && sameDay(r.PlayedAt, now) {
		if threshold < r.MinPlayedThreshold {
			r.MinPlayedThreshold = threshold
		}
		r.PlayedAt = now
		r.ArrivalTime = arrivalTime
	} else {
		r = Record{
			EntryID:            entryID,
			MinPlayedThreshold: threshold,
			PlayedAt:           now,
			ArrivalTime:        arrivalTime,
		}
	}
	l.records[entryID] = r

	return l.persist(ctx)
}

// Prune removes records older than the retention window and persists the
// result when anything was removed.
func (l *Ledger) Prune(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	deadline := l.clock().Add(-l.retention)
	removed := 0
	for id, r := range l.records {
		if r.PlayedAt.Before(deadline) {
			delete(l.records, id)
			removed++
		}
	}
	if removed == 0 {
		return nil
	}
	slog.Debug("Ledger: Pruned expired records", "removed", removed)
	return l.persist(ctx)
}

// Len returns the number of resident records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

func (l *Ledger) persist(ctx context.Context) error {
	data, err := json.Marshal(l.records)
	if err != nil {
		return err
	}
	return l.st.SetState(ctx, StateKey, string(data))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
