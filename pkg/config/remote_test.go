package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeedDocument(t *testing.T) {
	data := []byte(`{
		"pollIntervalSeconds": 15,
		"defaults": {
			"announceThresholds": [20, 10, 0],
			"showBeforeMinutes": 45
		},
		"feeds": {
			"gate-a": {
				"displayCount": 3,
				"speech": {"voice": "ja-JP-NanamiNeural"}
			}
		}
	}`)

	doc, err := ParseFeedDocument(data)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, doc.PollInterval(30*time.Second))

	opts := doc.OptionsFor("gate-a")
	assert.Equal(t, []int{20, 10, 0}, opts.Thresholds, "defaults apply where the feed is silent")
	assert.Equal(t, 45, opts.BeforeMinutes)
	assert.Equal(t, 3, opts.DisplayCount, "feed overrides win")
	assert.Equal(t, "ja-JP-NanamiNeural", opts.Speech.Voice)
}

func TestParseFeedDocumentInvalid(t *testing.T) {
	_, err := ParseFeedDocument([]byte("not json"))
	assert.Error(t, err)
}

func TestOptionsForBuiltinDefaults(t *testing.T) {
	doc := &FeedDocument{}
	opts := doc.OptionsFor("unknown")

	assert.Equal(t, DefaultThresholds, opts.Thresholds)
	assert.Equal(t, DefaultBeforeMinutes, opts.BeforeMinutes)
	assert.Equal(t, DefaultDisplayCount, opts.DisplayCount)
}

func TestOptionsForNilDocument(t *testing.T) {
	var doc *FeedDocument
	opts := doc.OptionsFor("gate-a")

	assert.Equal(t, DefaultThresholds, opts.Thresholds)
	assert.Equal(t, DefaultDisplayCount, opts.DisplayCount)
}

func TestPollIntervalFallback(t *testing.T) {
	var doc *FeedDocument
	assert.Equal(t, 30*time.Second, doc.PollInterval(30*time.Second))

	doc = &FeedDocument{PollIntervalSeconds: 0}
	assert.Equal(t, 30*time.Second, doc.PollInterval(30*time.Second))

	doc = &FeedDocument{PollIntervalSeconds: -5}
	assert.Equal(t, 30*time.Second, doc.PollInterval(30*time.Second))
}
