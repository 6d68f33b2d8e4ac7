package announce

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dockboard/pkg/model"
)

// stubLedger satisfies PlayedChecker with a fixed set of covered thresholds.
type stubLedger struct {
	satisfied map[string]int // entryID -> smallest played threshold
}

func (s *stubLedger) Satisfied(entryID string, threshold int) bool {
	min, ok := s.satisfied[entryID]
	return ok && min <= threshold
}

func normEntry(id string, arrival int) model.NormalizedEntry {
	return model.NormalizedEntry{
		ScheduleEntry:  model.ScheduleEntry{ID: id, Arrival: "10:00", Supplier: "Acme", Material: "Gravel"},
		ArrivalInstant: arrival,
	}
}

func TestDueThresholdPicksSmallestDue(t *testing.T) {
	e := normEntry("e1", 600)
	led := &stubLedger{satisfied: map[string]int{}}

	// At 09:50 the 30, 25, 20, 15 and 10 minute marks have all passed.
	// Only the smallest unplayed one becomes the candidate.
	got, ok := DueThreshold(e, []int{30, 25, 20, 15, 10, 5, 0}, 590, led)
	assert.True(t, ok)
	assert.Equal(t, 10, got)
}

func TestDueThresholdSkipsSatisfied(t *testing.T) {
	e := normEntry("e1", 600)
	led := &stubLedger{satisfied: map[string]int{"e1": 10}}

	// The 10 minute record covers every earlier mark; nothing is due until
	// the 5 minute mark arrives.
	_, ok := DueThreshold(e, []int{30, 10, 5, 0}, 590, led)
	assert.False(t, ok)

	got, ok := DueThreshold(e, []int{30, 10, 5, 0}, 595, led)
	assert.True(t, ok)
	assert.Equal(t, 5, got)
}

func TestDueThresholdNothingDue(t *testing.T) {
	e := normEntry("e1", 600)
	led := &stubLedger{satisfied: map[string]int{}}

	_, ok := DueThreshold(e, []int{30, 5, 0}, 560, led)
	assert.False(t, ok, "nothing is due 40 minutes out")
}

func TestDueThresholdIgnoresNegatives(t *testing.T) {
	e := normEntry("e1", 600)
	led := &stubLedger{satisfied: map[string]int{}}

	got, ok := DueThreshold(e, []int{-5, 30}, 580, led)
	assert.True(t, ok)
	assert.Equal(t, 30, got)
}

func TestDueThresholdAtMostOnePerCycle(t *testing.T) {
	e := normEntry("e1", 600)
	led := &stubLedger{satisfied: map[string]int{}}

	// Even with every mark due at arrival time, one cycle yields one
	// candidate, the closest to arrival.
	got, ok := DueThreshold(e, []int{30, 25, 20, 15, 10, 5, 0}, 600, led)
	assert.True(t, ok)
	assert.Equal(t, 0, got)
}

func TestCandidatesEndToEnd(t *testing.T) {
	led := &stubLedger{satisfied: map[string]int{}}
	selected := []model.NormalizedEntry{
		normEntry("e1", 600),
		normEntry("e2", 640),
	}

	items := Candidates(selected, "gate-a", "left", []int{30, 0}, 570, led, "", model.SpeechOptions{})

	// e1 hits its 30 minute mark; e2 is 70 minutes out.
	assert.Len(t, items, 1)
	assert.Equal(t, "e1", items[0].EntryID)
	assert.Equal(t, 30, items[0].Threshold)
	assert.True(t, items[0].Primary)
	assert.Equal(t, "gate-a", items[0].FeedID)
	assert.Equal(t, "left", items[0].Side)
	assert.Contains(t, items[0].SpeechText, "Acme")
	assert.Contains(t, items[0].SpeechText, "30 minutes")
}

func TestCandidatesSecondSlotNotPrimary(t *testing.T) {
	led := &stubLedger{satisfied: map[string]int{}}
	selected := []model.NormalizedEntry{
		normEntry("e1", 600),
		normEntry("e2", 605),
	}

	items := Candidates(selected, "gate-a", "", []int{30}, 580, led, "", model.SpeechOptions{})

	assert.Len(t, items, 2)
	assert.True(t, items[0].Primary)
	assert.False(t, items[1].Primary)
}

func TestCandidatesBrokenTemplateFallsBack(t *testing.T) {
	led := &stubLedger{satisfied: map[string]int{}}
	selected := []model.NormalizedEntry{normEntry("e1", 600)}

	items := Candidates(selected, "gate-a", "", []int{0}, 600, led, "{{.Nope", model.SpeechOptions{})

	assert.Len(t, items, 1)
	assert.Contains(t, items[0].SpeechText, "Acme", "broken template falls back to the default")
}

func TestCandidatesUsesReadings(t *testing.T) {
	led := &stubLedger{satisfied: map[string]int{}}
	e := normEntry("e1", 600)
	e.SupplierReading = "Ack Me"
	items := Candidates([]model.NormalizedEntry{e}, "gate-a", "", []int{0}, 600, led, "", model.SpeechOptions{})

	assert.Len(t, items, 1)
	assert.Contains(t, items[0].SpeechText, "Ack Me")
	assert.NotContains(t, items[0].SpeechText, "Acme truck")
}
