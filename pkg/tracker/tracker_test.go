package tracker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerCounters(t *testing.T) {
	tr := New()

	tr.TrackCacheHit("edge-tts")
	tr.TrackCacheHit("edge-tts")
	tr.TrackCacheMiss("edge-tts")
	tr.TrackSuccess("edge-tts")
	tr.TrackFailure("schedule")

	snap := tr.Snapshot()
	require.Contains(t, snap, "edge-tts")
	require.Contains(t, snap, "schedule")

	assert.Equal(t, int64(2), snap["edge-tts"].CacheHits)
	assert.Equal(t, int64(1), snap["edge-tts"].CacheMisses)
	assert.Equal(t, int64(1), snap["edge-tts"].Successes)
	assert.Equal(t, int64(0), snap["edge-tts"].Failures)
	assert.Equal(t, int64(1), snap["schedule"].Failures)
}

func TestTrackerSnapshotIsCopy(t *testing.T) {
	tr := New()
	tr.TrackSuccess("playback")

	snap := tr.Snapshot()
	tr.TrackSuccess("playback")

	assert.Equal(t, int64(1), snap["playback"].Successes)
	assert.Equal(t, int64(2), tr.Snapshot()["playback"].Successes)
}

func TestTrackerConcurrent(t *testing.T) {
	tr := New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.TrackSuccess("playback")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1000), tr.Snapshot()["playback"].Successes)
}
