// Package audio provides audio playback for chimes and announcements.
package audio

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// Service defines the interface for audio playback control.
type Service interface {
	// Play starts playback of an audio file. onComplete is called when
	// playback finishes (not when stopped manually).
	Play(filepath string, onComplete func()) error
	// Stop stops current playback.
	Stop()
	// Shutdown stops playback and cleans up resources.
	Shutdown()

	// IsPlaying returns true if audio is currently playing.
	IsPlaying() bool
	// SetVolume sets playback volume (0.0 to 1.0).
	SetVolume(vol float64)
	// Volume returns current volume level.
	Volume() float64
}

// Manager implements the Service interface using gopxl/beep.
type Manager struct {
	mu                 sync.RWMutex
	ctrl               *beep.Ctrl
	volume             float64
	speakerInitialized bool
	currentSampleRate  beep.SampleRate
	streamer           *effects.Volume
	trackStreamer      beep.StreamSeekCloser
}

// New creates a new Manager instance.
func New() *Manager {
	return &Manager{
		volume: 1.0,
	}
}

// Play starts playback of an audio file.
func (m *Manager) Play(filepath string, onComplete func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Stop any current playback and close the file handle
	m.stopLocked()

	streamer, format, err := m.decodeStreamer(filepath)
	if err != nil {
		return err
	}

	if err := m.ensureSpeakerInitialized(streamer); err != nil {
		return err
	}

	// Resample streamer to target rate
	resampled := beep.Resample(3, format.SampleRate, m.currentSampleRate, streamer)

	// Wrap in volume control. Map 0-1 linear volume to beep's exponent.
	volStreamer := &effects.Volume{
		Streamer: resampled,
		Base:     2,
		Volume:   volumeToPower(m.volume),
		Silent:   m.volume <= 0.01,
	}

	m.streamer = volStreamer
	m.trackStreamer = streamer

	m.ctrl = &beep.Ctrl{Streamer: volStreamer}

	// Play with callback to clean up when done
	speaker.Play(beep.Seq(m.ctrl, beep.Callback(func() {
		// Launch goroutine to handle cleanup without blocking the speaker thread
		go func() {
			m.mu.Lock()
			m.ctrl = nil
			m.mu.Unlock()
			streamer.Close()

			if onComplete != nil {
				onComplete()
			}
		}()
	})))

	slog.Debug("Playing audio", "path", filepath)
	return nil
}

// Stop stops current playback.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.trackStreamer != nil {
		m.trackStreamer.Close()
		m.trackStreamer = nil
	}
	if m.ctrl != nil {
		speaker.Clear()
		m.ctrl = nil
	}
}

func (m *Manager) ensureSpeakerInitialized(streamer beep.StreamSeekCloser) error {
	const targetSampleRate = 48000
	if !m.speakerInitialized {
		err := speaker.Init(beep.SampleRate(targetSampleRate), beep.SampleRate(targetSampleRate).N(time.Second/10))
		if err != nil {
			streamer.Close()
			slog.Error("Failed to initialize speaker", "error", err)
			return err
		}
		m.speakerInitialized = true
		m.currentSampleRate = beep.SampleRate(targetSampleRate)
	}
	return nil
}

// Shutdown stops playback.
func (m *Manager) Shutdown() {
	m.Stop()
}

// IsPlaying returns true if audio is currently playing.
func (m *Manager) IsPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ctrl != nil
}

// SetVolume sets playback volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if vol < 0 {
		vol = 0
	} else if vol > 1 {
		vol = 1
	}
	m.volume = vol

	// Update live streamer if playing
	if m.streamer != nil {
		speaker.Lock()
		m.streamer.Volume = volumeToPower(vol)
		m.streamer.Silent = vol <= 0.01
		speaker.Unlock()
	}
}

// Volume returns current volume level.
func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

func (m *Manager) decodeStreamer(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("Failed to open audio file", "path", path, "error", err)
		return nil, beep.Format{}, err
	}

	// Try MP3 first
	streamer, format, err := mp3.Decode(f)
	if err == nil {
		return streamer, format, nil
	}

	// Reopen file for WAV attempt (MP3 decode failure might leave file state uncertain)
	f.Close()
	f, err = os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	defer func() {
		if err != nil {
			f.Close()
		}
	}()

	streamer, format, err = wav.Decode(f)
	if err != nil {
		slog.Error("Failed to decode audio file", "path", path, "error", err)
		return nil, beep.Format{}, err
	}

	return streamer, format, nil
}
