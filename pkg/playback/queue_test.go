package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dockboard/pkg/model"
)

func item(entryID, feedID, side string, arrival int, primary bool) model.QueueItem {
	return model.QueueItem{
		EntryID:        entryID,
		FeedID:         feedID,
		Side:           side,
		Primary:        primary,
		ArrivalInstant: arrival,
		Threshold:      5,
	}
}

func drainReady(t *testing.T, q *Queue) []model.QueueItem {
	t.Helper()
	select {
	case <-q.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("queue never signalled ready")
	}

	var items []model.QueueItem
	for {
		it, ok := q.Next()
		if !ok {
			return items
		}
		items = append(items, it)
	}
}

func TestQueueCollectsAndOrders(t *testing.T) {
	q := NewQueue(20*time.Millisecond, nil)

	// Two feeds discover candidates in the same window, out of order.
	require.True(t, q.Enqueue(item("late", "gate-b", "right", 600, true)))
	require.True(t, q.Enqueue(item("early", "gate-a", "left", 590, true)))

	items := drainReady(t, q)
	require.Len(t, items, 2)
	assert.Equal(t, "early", items[0].EntryID, "earlier arrival plays first")
	assert.Equal(t, "late", items[1].EntryID)
}

func TestQueueOrderPrimaryBeforeNext(t *testing.T) {
	q := NewQueue(20*time.Millisecond, nil)

	require.True(t, q.Enqueue(item("next-slot", "gate-a", "left", 600, false)))
	require.True(t, q.Enqueue(item("primary-slot", "gate-b", "right", 600, true)))

	items := drainReady(t, q)
	require.Len(t, items, 2)
	assert.Equal(t, "primary-slot", items[0].EntryID)
}

func TestQueueOrderLeftBeforeRight(t *testing.T) {
	q := NewQueue(20*time.Millisecond, nil)

	require.True(t, q.Enqueue(item("right", "gate-b", "right", 600, true)))
	require.True(t, q.Enqueue(item("left", "gate-a", "left", 600, true)))

	items := drainReady(t, q)
	require.Len(t, items, 2)
	assert.Equal(t, "left", items[0].EntryID)
}

func TestQueueOrderFeedIDFinalTieBreak(t *testing.T) {
	q := NewQueue(20*time.Millisecond, nil)

	require.True(t, q.Enqueue(item("b", "gate-b", "left", 600, true)))
	require.True(t, q.Enqueue(item("a", "gate-a", "left", 600, true)))

	items := drainReady(t, q)
	require.Len(t, items, 2)
	assert.Equal(t, "gate-a", items[0].FeedID)
}

func TestQueueDeduplicatesResident(t *testing.T) {
	q := NewQueue(20*time.Millisecond, nil)

	require.True(t, q.Enqueue(item("e1", "gate-a", "", 600, true)))
	// The same entry surfacing on another feed's cycle is dropped.
	assert.False(t, q.Enqueue(item("e1", "gate-b", "", 600, true)))

	items := drainReady(t, q)
	assert.Len(t, items, 1)

	// Still resident after dequeue until released.
	assert.False(t, q.Enqueue(item("e1", "gate-a", "", 600, true)))

	q.Release("e1")
	assert.True(t, q.Enqueue(item("e1", "gate-a", "", 600, true)))
}

func TestQueueDropsSatisfied(t *testing.T) {
	q := NewQueue(20*time.Millisecond, func(entryID string, threshold int) bool {
		return entryID == "played"
	})

	assert.False(t, q.Enqueue(item("played", "gate-a", "", 600, true)))
	assert.True(t, q.Enqueue(item("fresh", "gate-a", "", 600, true)))
	assert.Equal(t, 1, q.Len())
}

func TestQueueNextOnEmpty(t *testing.T) {
	q := NewQueue(20*time.Millisecond, nil)
	_, ok := q.Next()
	assert.False(t, ok)
}
