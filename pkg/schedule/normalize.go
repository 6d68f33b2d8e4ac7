// Package schedule turns raw arrival rows into time-comparable entries and
// selects the subset a monitor should currently show.
package schedule

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"dockboard/pkg/model"
)

// DefaultDurationMinutes is assumed for entries without a finish time when
// deciding whether they have already departed.
const DefaultDurationMinutes = 5

// ParseClock parses a "HH:MM" wall-clock string into minutes since midnight.
func ParseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, false
	}
	hours, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// MinuteOfDay returns t as minutes since local midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Normalize computes the arrival instant for each entry relative to now
// (minutes since midnight). An entry whose finish time, or arrival plus a
// small default duration when no finish time is given, lies strictly before
// the current minute is treated as belonging to the next calendar day and
// shifted by a full day. Entries with an unparseable arrival time are
// dropped; absence is the signal, no error is surfaced.
func Normalize(entries []model.ScheduleEntry, now int) []model.NormalizedEntry {
	out := make([]model.NormalizedEntry, 0, len(entries))
	for _, e := range entries {
		arrival, ok := ParseClock(e.Arrival)
		if !ok {
			slog.Debug("Schedule: Dropping entry with unparseable arrival", "id", e.ID, "arrival", e.Arrival)
			continue
		}

		finish, ok := ParseClock(e.Finish)
		if !ok {
			finish = arrival + DefaultDurationMinutes
		}

		if finish < now {
			arrival += model.MinutesPerDay
			finish += model.MinutesPerDay
		}

		out = append(out, model.NormalizedEntry{
			ScheduleEntry:  e,
			ArrivalInstant: arrival,
			FinishInstant:  finish,
		})
	}
	return out
}
