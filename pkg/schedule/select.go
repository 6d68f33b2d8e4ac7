package schedule

import (
	"sort"

	"dockboard/pkg/model"
)

// DefaultDisplayCount shows one primary slot and one "next" slot.
const DefaultDisplayCount = 2

// SelectUpcoming returns the entries currently inside the look-ahead window,
// ordered by arrival instant ascending with the explicit Seq field as
// tie-break, truncated to limit. The result drives both the rendered board
// and announcement detection so the two can never diverge.
func SelectUpcoming(entries []model.NormalizedEntry, now, beforeMinutes, limit int) []model.NormalizedEntry {
	if limit <= 0 {
		limit = DefaultDisplayCount
	}

	sorted := make([]model.NormalizedEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ArrivalInstant != sorted[j].ArrivalInstant {
			return sorted[i].ArrivalInstant < sorted[j].ArrivalInstant
		}
		return sorted[i].Seq < sorted[j].Seq
	})

	out := make([]model.NormalizedEntry, 0, limit)
	for _, e := range sorted {
		if e.ArrivalInstant-beforeMinutes > now {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}
