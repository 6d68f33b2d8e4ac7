package edgetts

import (
	"strings"
	"testing"

	"dockboard/pkg/model"
)

func TestBuildSSML(t *testing.T) {
	tests := []struct {
		name     string
		voice    string
		text     string
		opts     model.SpeechOptions
		expected []string // Substrings that must be present
	}{
		{
			name:     "Normal text",
			voice:    "en-US-AvaNeural",
			text:     "Acme truck, arriving now.",
			expected: []string{"Acme truck, arriving now.", "en-US-AvaNeural", "xml:lang='en-US'"},
		},
		{
			name:     "Text with ampersand",
			voice:    "en-US-AvaNeural",
			text:     "Ben & Jerry's",
			expected: []string{"Ben &amp; Jerry&apos;s"},
		},
		{
			name:     "Text with tags",
			voice:    "en-US-AvaNeural",
			text:     "<speak>Hello</speak>",
			expected: []string{"&lt;speak&gt;Hello&lt;/speak&gt;"},
		},
		{
			name:     "Text with quotes",
			voice:    "en-US-AvaNeural",
			text:     `She said "Hello"`,
			expected: []string{`She said &quot;Hello&quot;`},
		},
		{
			name:     "Prosody attributes",
			voice:    "en-US-AvaNeural",
			text:     "Hello",
			opts:     model.SpeechOptions{Rate: "+10%", Pitch: "-5Hz"},
			expected: []string{"<prosody rate='+10%' pitch='-5Hz'>Hello</prosody>"},
		},
		{
			name:     "Language override",
			voice:    "ja-JP-NanamiNeural",
			text:     "Hello",
			opts:     model.SpeechOptions{Lang: "ja-JP"},
			expected: []string{"xml:lang='ja-JP'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSSML(tt.voice, tt.text, tt.opts)
			for _, exp := range tt.expected {
				if !strings.Contains(got, exp) {
					t.Errorf("buildSSML() = %v, expected to contain %v", got, exp)
				}
			}
		})
	}
}

func TestBuildSSMLNoProsodyWhenUnset(t *testing.T) {
	got := buildSSML("en-US-AvaNeural", "Hello", model.SpeechOptions{})
	if strings.Contains(got, "<prosody") {
		t.Errorf("buildSSML() = %v, expected no prosody element", got)
	}
}
