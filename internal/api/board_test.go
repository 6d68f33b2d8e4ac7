package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dockboard/pkg/feed"
	"dockboard/pkg/model"
	"dockboard/pkg/playback"
)

func newBoardServer(t *testing.T, boards *feed.Boards) *httptest.Server {
	t.Helper()
	queue := playback.NewQueue(10*time.Millisecond, nil)
	engine := playback.NewEngine(queue, nil, nil, nil, nil, time.Second)
	h := NewBoardHandler(boards, engine, queue)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/feeds", h.HandleList)
	mux.HandleFunc("GET /api/feeds/{id}", h.HandleFeed)
	mux.HandleFunc("GET /api/playback/status", h.HandlePlayback)

	svr := httptest.NewServer(mux)
	t.Cleanup(svr.Close)
	return svr
}

func TestHandleFeed(t *testing.T) {
	boards := feed.NewBoards()
	boards.Publish(model.BoardSnapshot{
		FeedID: "gate-a",
		Slots: []model.BoardSlot{
			{Entry: model.NormalizedEntry{ScheduleEntry: model.ScheduleEntry{ID: "e1", Supplier: "Acme"}, ArrivalInstant: 600}, Primary: true},
		},
		FetchedAt: time.Now(),
	})

	svr := newBoardServer(t, boards)

	resp, err := http.Get(svr.URL + "/api/feeds/gate-a")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var snap model.BoardSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, "gate-a", snap.FeedID)
	require.Len(t, snap.Slots, 1)
	assert.Equal(t, "e1", snap.Slots[0].Entry.ID)
	assert.True(t, snap.Slots[0].Primary)
}

func TestHandleFeedNotFound(t *testing.T) {
	svr := newBoardServer(t, feed.NewBoards())

	resp, err := http.Get(svr.URL + "/api/feeds/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandlePlaybackStatus(t *testing.T) {
	svr := newBoardServer(t, feed.NewBoards())

	resp, err := http.Get(svr.URL + "/api/playback/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var status PlaybackStatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, playback.StateIdle, status.State)
	assert.Equal(t, 0, status.Queued)
}
