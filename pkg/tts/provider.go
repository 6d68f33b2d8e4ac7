// Package tts defines the text-to-speech provider interface used by the
// announcement speaker.
package tts

import (
	"context"

	"dockboard/pkg/model"
)

const (
	// MinAudioSize is the minimum size of a synthesized audio file (1KB).
	// Files smaller than this are likely failed synthesis attempts.
	MinAudioSize = 1024
)

// Provider defines the interface for Text-To-Speech engines.
type Provider interface {
	// Synthesize generates audio from text and writes it to outputPath.
	// Returns the audio format ("mp3", "wav") and error.
	Synthesize(ctx context.Context, text string, opts model.SpeechOptions, outputPath string) (string, error)

	// Voices returns a list of available voices for the provider.
	Voices(ctx context.Context) ([]Voice, error)
}

// Voice represents an available TTS voice.
type Voice struct {
	ID       string
	Name     string
	Language string
	IsNeural bool
}

// FatalError represents a TTS error that should not be retried against the
// same backend. Examples: rate limits (429), server errors (5xx), auth
// failures (401/403).
type FatalError struct {
	StatusCode int
	Message    string
}

func (e *FatalError) Error() string {
	return e.Message
}

// NewFatalError creates a new FatalError with the given status code and message.
func NewFatalError(statusCode int, message string) *FatalError {
	return &FatalError{StatusCode: statusCode, Message: message}
}

// IsFatalError checks if an error is a TTS fatal error.
func IsFatalError(err error) bool {
	_, ok := err.(*FatalError)
	return ok
}
