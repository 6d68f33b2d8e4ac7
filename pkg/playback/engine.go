package playback

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"dockboard/pkg/model"
)

// Playback states. The engine walks ChimeStart -> Speaking -> ChimeEnd ->
// Committed for every item; any stage failure ends the attempt in Aborted.
const (
	StateIdle       = "idle"
	StateChimeStart = "chime_start"
	StateSpeaking   = "speaking"
	StateChimeEnd   = "chime_end"
	StateCommitted  = "committed"
	StateAborted    = "aborted"
)

// DefaultStageTimeout bounds each playback stage so a hung audio device or
// synthesis backend cannot wedge the whole announcement pipeline.
const DefaultStageTimeout = 15 * time.Second

// ChimeKind selects the attention chime played around the spoken message.
type ChimeKind string

const (
	ChimeStart ChimeKind = "start"
	ChimeEnd   ChimeKind = "end"
)

// Chime plays one of the attention chimes and blocks until it finished.
type Chime interface {
	Play(ctx context.Context, kind ChimeKind) error
}

// Speaker synthesizes and plays a spoken message, blocking until done.
type Speaker interface {
	Speak(ctx context.Context, text string, opts model.SpeechOptions) error
}

// LedgerWriter is the write side of the playback ledger. The engine records
// an entry only after the full sequence completed.
type LedgerWriter interface {
	MarkPlayed(ctx context.Context, entryID string, threshold int, arrivalTime string) error
}

// Counter receives playback outcomes for the stats endpoint.
type Counter interface {
	TrackSuccess(provider string)
	TrackFailure(provider string)
}

// Engine drains the announcement queue one item at a time. Playback is
// strictly serial; overlapping audio is never produced no matter how many
// feeds enqueue concurrently.
type Engine struct {
	queue        *Queue
	chime        Chime
	speaker      Speaker
	ledger       LedgerWriter
	tracker      Counter
	stageTimeout time.Duration

	mu      sync.Mutex
	state   string
	current model.QueueItem

	wg sync.WaitGroup
}

// NewEngine wires the engine. tracker may be nil. A non-positive stageTimeout
// falls back to the default.
func NewEngine(queue *Queue, chime Chime, speaker Speaker, ledger LedgerWriter, tracker Counter, stageTimeout time.Duration) *Engine {
	if stageTimeout <= 0 {
		stageTimeout = DefaultStageTimeout
	}
	return &Engine{
		queue:        queue,
		chime:        chime,
		speaker:      speaker,
		ledger:       ledger,
		tracker:      tracker,
		stageTimeout: stageTimeout,
		state:        StateIdle,
	}
}

// Start launches the drain goroutine. It runs until ctx is cancelled.
func (e *Engine) Start(ctx context.Context) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.drain(ctx)
	}()
}

// Wait blocks until the drain goroutine exited after cancellation.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func (e *Engine) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.queue.Ready():
		}

		for {
			item, ok := e.queue.Next()
			if !ok {
				break
			}
			e.play(ctx, item)
			if ctx.Err() != nil {
				return
			}
		}
	}
}

// play runs one item through the full state sequence. The ledger is written
// only on a fully completed sequence, so an aborted attempt stays eligible
// for a retry on a later polling cycle.
func (e *Engine) play(ctx context.Context, item model.QueueItem) {
	defer e.queue.Release(item.EntryID)

	slog.Info("Playback: Announcing", "entry", item.EntryID, "feed", item.FeedID, "threshold", item.Threshold, "arrival", item.Arrival)

	e.setState(StateChimeStart, item)
	if err := e.stage(ctx, func(sc context.Context) error { return e.chime.Play(sc, ChimeStart) }); err != nil {
		e.abort(item, "chime_start", err)
		return
	}

	e.setState(StateSpeaking, item)
	if err := e.stage(ctx, func(sc context.Context) error { return e.speaker.Speak(sc, item.SpeechText, item.Speech) }); err != nil {
		e.abort(item, "speaking", err)
		return
	}

	e.setState(StateChimeEnd, item)
	if err := e.stage(ctx, func(sc context.Context) error { return e.chime.Play(sc, ChimeEnd) }); err != nil {
		e.abort(item, "chime_end", err)
		return
	}

	if err := e.ledger.MarkPlayed(ctx, item.EntryID, item.Threshold, item.Arrival); err != nil {
		// Playback happened, persisting failed. Commit anyway and let the
		// store error surface in the log; a duplicate announcement after a
		// crash is preferable to failing the attempt.
		slog.Error("Playback: Failed to record announcement", "entry", item.EntryID, "error", err)
	}

	e.setState(StateCommitted, item)
	if e.tracker != nil {
		e.tracker.TrackSuccess("playback")
	}
	e.setState(StateIdle, model.QueueItem{})
}

// stage runs one playback stage under the per-stage timeout.
func (e *Engine) stage(ctx context.Context, fn func(context.Context) error) error {
	sc, cancel := context.WithTimeout(ctx, e.stageTimeout)
	defer cancel()
	return fn(sc)
}

func (e *Engine) abort(item model.QueueItem, stage string, err error) {
	slog.Warn("Playback: Aborted", "entry", item.EntryID, "stage", stage, "error", err)
	e.setState(StateAborted, item)
	if e.tracker != nil {
		e.tracker.TrackFailure("playback")
	}
	e.setState(StateIdle, model.QueueItem{})
}

func (e *Engine) setState(state string, item model.QueueItem) {
	e.mu.Lock()
	e.state = state
	e.current = item
	e.mu.Unlock()
}

// Status reports the engine state and the item being played, if any.
func (e *Engine) Status() (string, model.QueueItem) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, e.current
}
