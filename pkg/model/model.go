// Package model defines the shared domain types for the arrival board.
package model

import "time"

// MinutesPerDay is the length of one calendar day in schedule minutes.
const MinutesPerDay = 1440

// ScheduleEntry is one raw arrival row from the fetched schedule document.
// Entries are immutable; every successful fetch replaces the previous set
// wholesale.
type ScheduleEntry struct {
	ID              string `json:"id"`
	Arrival         string `json:"arrival"`          // wall clock, "HH:MM"
	Finish          string `json:"finish,omitempty"` // optional, "HH:MM"
	Seq             int    `json:"seq,omitempty"`    // explicit display order for equal arrival times
	Supplier        string `json:"supplier"`
	SupplierReading string `json:"supplierReading,omitempty"` // phonetic form for speech
	Material        string `json:"material"`
	MaterialReading string `json:"materialReading,omitempty"`
	Preparation     string `json:"preparation,omitempty"`
	Yard            string `json:"yard,omitempty"`
	Lane            string `json:"lane,omitempty"`
	Note            string `json:"note,omitempty"`
}

// NormalizedEntry is a ScheduleEntry projected onto the absolute minute axis.
// ArrivalInstant is minutes since local midnight, shifted by MinutesPerDay
// when the entry belongs to the next calendar day. It is recomputed from the
// immutable entry on every poll cycle and never cached across cycles.
type NormalizedEntry struct {
	ScheduleEntry
	ArrivalInstant int
	FinishInstant  int
}

// SpeechOptions carries the feed-configured synthesis parameters handed to
// the speech capability. Rate, pitch and volume use the SSML prosody syntax
// ("+10%", "-5Hz", "loud"); empty values mean engine defaults.
type SpeechOptions struct {
	Lang   string `json:"lang,omitempty"`
	Voice  string `json:"voice,omitempty"`
	Rate   string `json:"rate,omitempty"`
	Pitch  string `json:"pitch,omitempty"`
	Volume string `json:"volume,omitempty"`
}

// QueueItem is one pending announcement. It exists only between enqueue and
// dequeue-for-playback and is never persisted.
type QueueItem struct {
	EntryID        string
	FeedID         string
	Side           string // "left", "right" or "" for single-panel feeds
	Primary        bool   // primary displayed slot vs. the next slot
	ArrivalInstant int
	Arrival        string // wall clock for the ledger record
	Threshold      int    // minutes before arrival
	SpeechText     string
	Speech         SpeechOptions
}

// BoardSlot is one rendered position on a monitor panel.
type BoardSlot struct {
	Entry   NormalizedEntry `json:"entry"`
	Primary bool            `json:"primary"`
}

// BoardSnapshot is the display state a feed publishes after each poll cycle.
// Unavailable is set when the schedule document could not be fetched; the
// front-end renders a textual placeholder in that case.
type BoardSnapshot struct {
	FeedID      string      `json:"feedId"`
	Slots       []BoardSlot `json:"slots"`
	Unavailable bool        `json:"unavailable"`
	FetchedAt   time.Time   `json:"fetchedAt"`
}
