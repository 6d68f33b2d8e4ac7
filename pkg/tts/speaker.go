package tts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dockboard/pkg/audio"
	"dockboard/pkg/model"
	"dockboard/pkg/store"
	"dockboard/pkg/tracker"
)

// Speaker synthesizes announcement text and plays it through the audio
// service. Synthesized audio is cached by content hash so repeated phrases
// (the same supplier announced at successive thresholds on following days)
// skip the network round-trip.
type Speaker struct {
	provider Provider
	svc      audio.Service
	cache    store.CacheStore
	tracker  *tracker.Tracker
	workDir  string
}

// NewSpeaker wires a speaker. cache and tracker may be nil.
func NewSpeaker(provider Provider, svc audio.Service, cache store.CacheStore, t *tracker.Tracker, workDir string) *Speaker {
	return &Speaker{
		provider: provider,
		svc:      svc,
		cache:    cache,
		tracker:  t,
		workDir:  workDir,
	}
}

// Speak synthesizes text and blocks until playback finished or ctx expired.
func (s *Speaker) Speak(ctx context.Context, text string, opts model.SpeechOptions) error {
	if text == "" {
		return nil
	}

	path, err := s.materialize(ctx, text, opts)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	if err := s.svc.Play(path, func() { close(done) }); err != nil {
		return fmt.Errorf("speech playback: %w", err)
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.svc.Stop()
		return ctx.Err()
	}
}

// materialize produces an on-disk audio file for the phrase, from cache when
// possible.
func (s *Speaker) materialize(ctx context.Context, text string, opts model.SpeechOptions) (string, error) {
	key := cacheKey(text, opts)
	path := filepath.Join(s.workDir, key+".mp3")

	if s.cache != nil {
		if data, ok := s.cache.GetCache(ctx, "speech:"+key); ok && len(data) >= MinAudioSize {
			if s.tracker != nil {
				s.tracker.TrackCacheHit("speech")
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return "", fmt.Errorf("restore cached speech: %w", err)
			}
			return path, nil
		}
		if s.tracker != nil {
			s.tracker.TrackCacheMiss("speech")
		}
	}

	if err := os.MkdirAll(s.workDir, 0o755); err != nil {
		return "", fmt.Errorf("create speech work dir: %w", err)
	}

	if _, err := s.provider.Synthesize(ctx, text, opts, path); err != nil {
		return "", fmt.Errorf("synthesize: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("synthesized file missing: %w", err)
	}
	if info.Size() < MinAudioSize {
		os.Remove(path)
		return "", fmt.Errorf("synthesized file too small (%d bytes)", info.Size())
	}

	if s.cache != nil {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := s.cache.SetCache(ctx, "speech:"+key, data); err != nil {
				slog.Warn("Speech: Failed to cache synthesized audio", "error", err)
			}
		}
	}

	return path, nil
}

func cacheKey(text string, opts model.SpeechOptions) string {
	h := sha256.Sum256([]byte(opts.Lang + "|" + opts.Voice + "|" + opts.Rate + "|" + opts.Pitch + "|" + opts.Volume + "|" + text))
	return hex.EncodeToString(h[:16])
}
