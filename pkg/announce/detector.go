// Package announce decides which lead-time threshold, if any, is due for
// each displayed entry and renders the spoken message for it.
package announce

import (
	"sort"

	"dockboard/pkg/model"
)

// PlayedChecker is the read side of the playback ledger.
type PlayedChecker interface {
	Satisfied(entryID string, threshold int) bool
}

// DueThreshold returns the single candidate threshold for the entry this
// cycle: the smallest due threshold not yet satisfied in the ledger. Due
// means the current minute has reached arrival minus threshold. At most one
// candidate is ever produced per entry per cycle; once the ledger satisfies
// the smallest due value the larger ones are implicitly covered.
func DueThreshold(e model.NormalizedEntry, thresholds []int, now int, played PlayedChecker) (int, bool) {
	due := make([]int, 0, len(thresholds))
	for _, t := range thresholds {
		if t < 0 {
			continue
		}
		if now >= e.ArrivalInstant-t {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return 0, false
	}

	// Closest to arrival first.
	sort.Ints(due)
	for _, t := range due {
		if !played.Satisfied(e.ID, t) {
			return t, true
		}
	}
	return 0, false
}

// Candidates runs threshold detection over the selected entries of one feed
// and builds the queue items for every entry with a due, unplayed threshold.
// The first selected entry occupies the primary slot; the rest are "next"
// slots.
func Candidates(selected []model.NormalizedEntry, feedID, side string, thresholds []int, now int, played PlayedChecker, tmpl string, speech model.SpeechOptions) []model.QueueItem {
	items := make([]model.QueueItem, 0, len(selected))
	for i, e := range selected {
		threshold, ok := DueThreshold(e, thresholds, now, played)
		if !ok {
			continue
		}

		text, err := Render(tmpl, SpeechData{
			Supplier: speechName(e.Supplier, e.SupplierReading),
			Material: speechName(e.Material, e.MaterialReading),
			Arrival:  e.Arrival,
			Minutes:  threshold,
		})
		if err != nil {
			// A broken template mutes the feed; fall back to the default.
			text, _ = Render(DefaultTemplate, SpeechData{
				Supplier: speechName(e.Supplier, e.SupplierReading),
				Material: speechName(e.Material, e.MaterialReading),
				Arrival:  e.Arrival,
				Minutes:  threshold,
			})
		}

		items = append(items, model.QueueItem{
			EntryID:        e.ID,
			FeedID:         feedID,
			Side:           side,
			Primary:        i == 0,
			ArrivalInstant: e.ArrivalInstant,
			Arrival:        e.Arrival,
			Threshold:      threshold,
			SpeechText:     text,
			Speech:         speech,
		})
	}
	return items
}

// speechName prefers the phonetic reading when the schedule provides one.
func speechName(name, reading string) string {
	if reading != "" {
		return reading
	}
	return name
}
