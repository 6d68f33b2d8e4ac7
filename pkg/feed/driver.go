package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"dockboard/pkg/announce"
	"dockboard/pkg/config"
	"dockboard/pkg/model"
	"dockboard/pkg/playback"
	"dockboard/pkg/schedule"
	"dockboard/pkg/store"
)

// ConfigStateKey is the persisted-store key holding the last successfully
// fetched configuration document.
const ConfigStateKey = "feed_config"

// Driver runs the poll loop for one feed. Each cycle fetches the display
// configuration and the schedule, publishes a board snapshot, and enqueues
// announcement candidates. The next cycle is scheduled only after the
// current one finished, so cycles never overlap regardless of how long a
// fetch takes.
type Driver struct {
	feedID   string
	side     string
	schedule ScheduleSource
	config   ConfigSource
	boards   *Boards
	queue    *playback.Queue
	played   announce.PlayedChecker

	fallback      time.Duration
	defaultSpeech model.SpeechOptions
	clock         func() time.Time

	mu      sync.Mutex
	lastDoc *config.FeedDocument
	lastRaw string
	state   store.StateStore

	wg sync.WaitGroup
}

// NewDriver wires a poll driver for one feed.
func NewDriver(feedID, side string, sched ScheduleSource, cfgSrc ConfigSource, boards *Boards, queue *playback.Queue, played announce.PlayedChecker, fallback time.Duration, defaultSpeech model.SpeechOptions) *Driver {
	if fallback <= 0 {
		fallback = 30 * time.Second
	}
	return &Driver{
		feedID:        feedID,
		side:          side,
		schedule:      sched,
		config:        cfgSrc,
		boards:        boards,
		queue:         queue,
		played:        played,
		fallback:      fallback,
		defaultSpeech: defaultSpeech,
		clock:         time.Now,
	}
}

// UseState attaches a persisted store for the configuration document and
// restores the one saved by a previous run, so a restart during a backend
// outage keeps the last known thresholds and poll interval.
func (d *Driver) UseState(ctx context.Context, st store.StateStore) {
	d.state = st
	raw, ok := st.GetState(ctx, ConfigStateKey)
	if !ok {
		return
	}
	doc, err := config.ParseFeedDocument([]byte(raw))
	if err != nil {
		slog.Warn("Feed: Discarding saved configuration", "feed", d.feedID, "error", err)
		return
	}
	d.mu.Lock()
	d.lastDoc = doc
	d.lastRaw = raw
	d.mu.Unlock()
}

// SetClock overrides the time source. Intended for tests.
func (d *Driver) SetClock(clock func() time.Time) {
	d.clock = clock
}

// Start launches the poll loop. The first cycle runs immediately.
func (d *Driver) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(ctx)
	}()
}

// Wait blocks until the poll loop exited after cancellation.
func (d *Driver) Wait() {
	d.wg.Wait()
}

func (d *Driver) run(ctx context.Context) {
	slog.Info("Feed: Poll loop started", "feed", d.feedID)
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Feed: Poll loop stopped", "feed", d.feedID)
			return
		case <-timer.C:
		}

		delay := d.Cycle(ctx)
		timer.Reset(delay)
	}
}

// Cycle runs one poll cycle and returns the delay until the next one.
func (d *Driver) Cycle(ctx context.Context) time.Duration {
	doc := d.fetchConfig(ctx)
	opts := doc.OptionsFor(d.feedID)
	interval := doc.PollInterval(d.fallback)

	entries, err := d.schedule.Fetch(ctx, d.feedID)
	if err != nil {
		// A failed fetch skips the whole cycle: no announcements are derived
		// from stale data, the board shows the outage instead.
		slog.Warn("Feed: Schedule fetch failed", "feed", d.feedID, "error", err)
		d.boards.Publish(model.BoardSnapshot{
			FeedID:      d.feedID,
			Unavailable: true,
			FetchedAt:   d.clock(),
		})
		return interval
	}

	now := schedule.MinuteOfDay(d.clock())
	normalized := schedule.Normalize(entries, now)
	selected := schedule.SelectUpcoming(normalized, now, opts.BeforeMinutes, opts.DisplayCount)

	slots := make([]model.BoardSlot, 0, len(selected))
	for i, e := range selected {
		slots = append(slots, model.BoardSlot{Entry: e, Primary: i == 0})
	}
	d.boards.Publish(model.BoardSnapshot{
		FeedID:    d.feedID,
		Slots:     slots,
		FetchedAt: d.clock(),
	})

	speech := mergeSpeech(d.defaultSpeech, opts.Speech)
	items := announce.Candidates(selected, d.feedID, d.side, opts.Thresholds, now, d.played, opts.SpeechTemplate, speech)
	for _, item := range items {
		d.queue.Enqueue(item)
	}

	return interval
}

// fetchConfig returns the current configuration document, falling back to
// the last successfully fetched one on error.
func (d *Driver) fetchConfig(ctx context.Context) *config.FeedDocument {
	doc, err := d.config.Fetch(ctx)
	if err != nil {
		slog.Warn("Feed: Config fetch failed, using last known", "feed", d.feedID, "error", err)
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.lastDoc
	}

	d.mu.Lock()
	d.lastDoc = doc
	d.mu.Unlock()
	d.persistConfig(ctx, doc)
	return doc
}

// persistConfig saves the document when it changed since the last write.
func (d *Driver) persistConfig(ctx context.Context, doc *config.FeedDocument) {
	if d.state == nil {
		return
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return
	}
	d.mu.Lock()
	unchanged := d.lastRaw == string(raw)
	d.lastRaw = string(raw)
	d.mu.Unlock()
	if unchanged {
		return
	}
	if err := d.state.SetState(ctx, ConfigStateKey, string(raw)); err != nil {
		slog.Warn("Feed: Failed to save configuration", "feed", d.feedID, "error", err)
	}
}

// mergeSpeech overlays feed-configured speech values on the static defaults.
func mergeSpeech(base, over model.SpeechOptions) model.SpeechOptions {
	out := base
	if over.Lang != "" {
		out.Lang = over.Lang
	}
	if over.Voice != "" {
		out.Voice = over.Voice
	}
	if over.Rate != "" {
		out.Rate = over.Rate
	}
	if over.Pitch != "" {
		out.Pitch = over.Pitch
	}
	if over.Volume != "" {
		out.Volume = over.Volume
	}
	return out
}
