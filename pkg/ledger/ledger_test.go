package ledger

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory StateStore for tests.
type memStore struct {
	m map[string]string
}

func newMemStore() *memStore {
	return &memStore{m: make(map[string]string)}
}

func (s *memStore) GetState(ctx context.Context, key string) (string, bool) {
	v, ok := s.m[key]
	return v, ok
}

func (s *memStore) SetState(ctx context.Context, key, val string) error {
	s.m[key] = val
	return nil
}

func (s *memStore) DeleteState(ctx context.Context, key string) error {
	delete(s.m, key)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestMarkPlayedKeepsMinimum(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	l := New(ctx, st)
	now := time.Date(2026, 8, 28, 9, 40, 0, 0, time.Local)
	l.SetClock(fixedClock(now))

	require.NoError(t, l.MarkPlayed(ctx, "e1", 20, "10:00"))
	require.NoError(t, l.MarkPlayed(ctx, "e1", 5, "10:00"))
	// A later, larger threshold must not raise the stored minimum.
	require.NoError(t, l.MarkPlayed(ctx, "e1", 30, "10:00"))

	assert.True(t, l.Satisfied("e1", 5))
	assert.True(t, l.Satisfied("e1", 30))
	assert.False(t, l.Satisfied("e1", 0))
}

func TestSatisfiedMonotonic(t *testing.T) {
	ctx := context.Background()
	l := New(ctx, newMemStore())
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)
	l.SetClock(fixedClock(now))

	require.NoError(t, l.MarkPlayed(ctx, "e1", 0, "10:00"))

	// The final call covers every earlier reminder.
	for _, threshold := range []int{0, 5, 10, 30} {
		assert.True(t, l.Satisfied("e1", threshold), "threshold %d", threshold)
	}
}

func TestSatisfiedIgnoresPriorDay(t *testing.T) {
	ctx := context.Background()
	l := New(ctx, newMemStore())
	yesterday := time.Date(2026, 8, 27, 10, 0, 0, 0, time.Local)
	l.SetClock(fixedClock(yesterday))
	require.NoError(t, l.MarkPlayed(ctx, "e1", 0, "10:00"))

	l.SetClock(fixedClock(yesterday.Add(24 * time.Hour)))
	assert.False(t, l.Satisfied("e1", 0), "yesterday's record must not mute today's run")
}

func TestMarkPlayedReplacesPriorDay(t *testing.T) {
	ctx := context.Background()
	l := New(ctx, newMemStore())
	yesterday := time.Date(2026, 8, 27, 10, 0, 0, 0, time.Local)
	l.SetClock(fixedClock(yesterday))
	require.NoError(t, l.MarkPlayed(ctx, "e1", 0, "10:00"))

	today := yesterday.Add(24 * time.Hour)
	l.SetClock(fixedClock(today))
	require.NoError(t, l.MarkPlayed(ctx, "e1", 30, "10:00"))

	// The stale day-old minimum is gone; only the fresh record counts.
	assert.True(t, l.Satisfied("e1", 30))
	assert.False(t, l.Satisfied("e1", 5))
}

func TestLoadPersistedState(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local)

	first := New(ctx, st)
	first.SetClock(fixedClock(now))
	require.NoError(t, first.MarkPlayed(ctx, "e1", 10, "09:30"))

	second := New(ctx, st)
	second.SetClock(fixedClock(now))
	assert.True(t, second.Satisfied("e1", 10), "records survive a restart")
}

func TestCorruptStateResets(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		blob string
	}{
		{name: "InvalidJSON", blob: "{not json"},
		{name: "MismatchedID", blob: `{"e1":{"entryId":"other","minPlayedThreshold":5,"playedAt":"2026-08-28T09:00:00Z"}}`},
		{name: "NegativeThreshold", blob: `{"e1":{"entryId":"e1","minPlayedThreshold":-1,"playedAt":"2026-08-28T09:00:00Z"}}`},
		{name: "ZeroPlayedAt", blob: `{"e1":{"entryId":"e1","minPlayedThreshold":5}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newMemStore()
			st.m[StateKey] = tt.blob

			l := New(ctx, st)
			assert.Equal(t, 0, l.Len(), "corrupt state must reinitialize empty")
			assert.Equal(t, "{}", st.m[StateKey], "corrupt blob must be replaced")
		})
	}
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	l := New(ctx, st)

	old := time.Date(2026, 8, 26, 9, 0, 0, 0, time.Local)
	l.SetClock(fixedClock(old))
	require.NoError(t, l.MarkPlayed(ctx, "old", 5, "09:30"))

	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local)
	l.SetClock(fixedClock(now))
	require.NoError(t, l.MarkPlayed(ctx, "fresh", 5, "09:30"))

	require.NoError(t, l.Prune(ctx))
	assert.Equal(t, 1, l.Len())

	var persisted map[string]Record
	require.NoError(t, json.Unmarshal([]byte(st.m[StateKey]), &persisted))
	assert.Contains(t, persisted, "fresh")
	assert.NotContains(t, persisted, "old")
}

func TestEmptyStoreStartsEmpty(t *testing.T) {
	l := New(context.Background(), newMemStore())
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Satisfied("anything", 0))
}
