package config

import (
	"encoding/json"
	"fmt"
	"time"

	"dockboard/pkg/model"
)

// Remote configuration defaults, applied when the document omits a value.
var DefaultThresholds = []int{30, 25, 20, 15, 10, 5, 0}

const (
	DefaultBeforeMinutes = 30
	DefaultDisplayCount  = 2
)

// FeedDocument is the operator-managed configuration document fetched from
// the backend on every polling cycle, so threshold or window changes take
// effect without a restart.
type FeedDocument struct {
	PollIntervalSeconds int                    `json:"pollIntervalSeconds"`
	Defaults            FeedOptions            `json:"defaults"`
	Feeds               map[string]FeedOptions `json:"feeds"`
}

// FeedOptions holds the per-feed display and announcement settings.
type FeedOptions struct {
	Thresholds     []int               `json:"announceThresholds"`
	BeforeMinutes  int                 `json:"showBeforeMinutes"`
	DisplayCount   int                 `json:"displayCount"`
	SpeechTemplate string              `json:"speechTemplate"`
	Speech         model.SpeechOptions `json:"speech"`
}

// ParseFeedDocument decodes the remote configuration document.
func ParseFeedDocument(data []byte) (*FeedDocument, error) {
	var doc FeedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse feed document: %w", err)
	}
	return &doc, nil
}

// PollInterval returns the document's polling interval, or fallback when the
// document does not carry a usable value.
func (d *FeedDocument) PollInterval(fallback time.Duration) time.Duration {
	if d == nil || d.PollIntervalSeconds <= 0 {
		return fallback
	}
	return time.Duration(d.PollIntervalSeconds) * time.Second
}

// OptionsFor resolves the effective options for a feed: feed-specific values
// first, then the document defaults, then the built-in defaults.
func (d *FeedDocument) OptionsFor(feedID string) FeedOptions {
	var opts FeedOptions
	if d != nil {
		opts = d.Defaults
		if feed, ok := d.Feeds[feedID]; ok {
			opts = merge(opts, feed)
		}
	}

	if len(opts.Thresholds) == 0 {
		opts.Thresholds = append([]int(nil), DefaultThresholds...)
	}
	if opts.BeforeMinutes <= 0 {
		opts.BeforeMinutes = DefaultBeforeMinutes
	}
	if opts.DisplayCount <= 0 {
		opts.DisplayCount = DefaultDisplayCount
	}
	return opts
}

// merge overlays feed-specific values on top of the document defaults.
func merge(base, over FeedOptions) FeedOptions {
	out := base
	if len(over.Thresholds) > 0 {
		out.Thresholds = over.Thresholds
	}
	if over.BeforeMinutes > 0 {
		out.BeforeMinutes = over.BeforeMinutes
	}
	if over.DisplayCount > 0 {
		out.DisplayCount = over.DisplayCount
	}
	if over.SpeechTemplate != "" {
		out.SpeechTemplate = over.SpeechTemplate
	}
	if over.Speech.Lang != "" {
		out.Speech.Lang = over.Speech.Lang
	}
	if over.Speech.Voice != "" {
		out.Speech.Voice = over.Speech.Voice
	}
	if over.Speech.Rate != "" {
		out.Speech.Rate = over.Speech.Rate
	}
	if over.Speech.Pitch != "" {
		out.Speech.Pitch = over.Speech.Pitch
	}
	if over.Speech.Volume != "" {
		out.Speech.Volume = over.Speech.Volume
	}
	return out
}
