package audio

import (
	"context"
	"fmt"

	"dockboard/pkg/playback"
)

// ChimePlayer plays the attention chimes framing every announcement. It
// blocks until the chime finished so the engine's stage sequence stays
// strictly serial.
type ChimePlayer struct {
	svc       Service
	startPath string
	endPath   string
}

// NewChimePlayer creates a chime player over the given sound files.
func NewChimePlayer(svc Service, startPath, endPath string) *ChimePlayer {
	return &ChimePlayer{svc: svc, startPath: startPath, endPath: endPath}
}

// Play plays the requested chime and waits for completion or ctx expiry.
func (c *ChimePlayer) Play(ctx context.Context, kind playback.ChimeKind) error {
	var path string
	switch kind {
	case playback.ChimeStart:
		path = c.startPath
	case playback.ChimeEnd:
		path = c.endPath
	default:
		return fmt.Errorf("unknown chime kind %q", kind)
	}
	if path == "" {
		// Chime not configured; treat as a no-op stage.
		return nil
	}

	done := make(chan struct{})
	if err := c.svc.Play(path, func() { close(done) }); err != nil {
		return fmt.Errorf("chime %s: %w", kind, err)
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		c.svc.Stop()
		return ctx.Err()
	}
}
