package api

import (
	"testing"
)

func TestFormatLogLine(t *testing.T) {
	input := `time=2026-08-28T06:50:46.074+02:00 level=INFO msg="Playback: Announcing" entry=e17 feed=gate-a threshold=5 longparam=thisiswaytooLongtobedisplayed`
	expected := "06:50:46 Playback: Announcing (entry=e17, feed=gate-a, threshold=5)"

	result := formatLogLine(input)
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestFormatLogLinePassthrough(t *testing.T) {
	input := "not a structured line"
	if got := formatLogLine(input); got != input {
		t.Errorf("Expected passthrough, got '%s'", got)
	}
}
