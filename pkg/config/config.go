// Package config holds the static application configuration loaded from a
// local YAML file. Per-feed behavior (thresholds, display window, speech) is
// configured remotely, see remote.go.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	DB       DBConfig       `yaml:"db"`
	Sources  SourcesConfig  `yaml:"sources"`
	Feeds    []FeedConfig   `yaml:"feeds"`
	Audio    AudioConfig    `yaml:"audio"`
	TTS      TTSConfig      `yaml:"tts"`
	Playback PlaybackConfig `yaml:"playback"`
	Ledger   LedgerConfig   `yaml:"ledger"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// SourcesConfig names the remote endpoints the poll drivers hit.
type SourcesConfig struct {
	ScheduleURL  string   `yaml:"schedule_url"`
	ConfigURL    string   `yaml:"config_url"`
	PollFallback Duration `yaml:"poll_fallback"`
}

// FeedConfig describes one display feed (a dock gate panel).
type FeedConfig struct {
	ID   string `yaml:"id"`
	Side string `yaml:"side"` // "left", "right" or empty
}

// AudioConfig holds chime and volume settings.
type AudioConfig struct {
	ChimeStart string  `yaml:"chime_start"`
	ChimeEnd   string  `yaml:"chime_end"`
	Volume     float64 `yaml:"volume"`
}

// EdgeTTSConfig holds settings for Edge TTS.
type EdgeTTSConfig struct {
	VoiceID string `yaml:"voice"` // e.g. "en-US-AvaMultilingualNeural"
}

// TTSConfig holds Text-To-Speech settings.
type TTSConfig struct {
	Engine  string        `yaml:"engine"`
	EdgeTTS EdgeTTSConfig `yaml:"edge_tts"`
	WorkDir string        `yaml:"work_dir"`
}

// PlaybackConfig holds announcement playback settings.
type PlaybackConfig struct {
	CollectionWindow Duration `yaml:"collection_window"`
	StageTimeout     Duration `yaml:"stage_timeout"`
}

// LedgerConfig holds playback ledger settings.
type LedgerConfig struct {
	PruneInterval Duration `yaml:"prune_interval"`
	Retention     Duration `yaml:"retention"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "localhost:1930",
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Requests: LogSettings{
				Path:  "./logs/requests.log",
				Level: "INFO",
			},
		},
		DB: DBConfig{
			Path: "./data/dockboard.db",
		},
		Sources: SourcesConfig{
			ScheduleURL:  "http://localhost:8080/api/schedule",
			ConfigURL:    "http://localhost:8080/api/display-config",
			PollFallback: Duration(30 * time.Second),
		},
		Feeds: []FeedConfig{
			{ID: "gate-a", Side: "left"},
			{ID: "gate-b", Side: "right"},
		},
		Audio: AudioConfig{
			ChimeStart: "./assets/chime_start.mp3",
			ChimeEnd:   "./assets/chime_end.mp3",
			Volume:     1.0,
		},
		TTS: TTSConfig{
			Engine: "edge-tts",
			EdgeTTS: EdgeTTSConfig{
				VoiceID: "en-US-AvaMultilingualNeural",
			},
			WorkDir: "./data/speech",
		},
		Playback: PlaybackConfig{
			CollectionWindow: Duration(500 * time.Millisecond),
			StageTimeout:     Duration(15 * time.Second),
		},
		Ledger: LedgerConfig{
			PruneInterval: Duration(1 * time.Hour),
			Retention:     Duration(1 * Day),
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Read existing file if it exists
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		return cfg, nil
	}

	// If file does not exist, save defaults
	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Dockboard Configuration
# -----------------------
# Supported Duration units: ns, us, ms, s, m, h, d (day), w (week)

`)
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return nil // File exists, do nothing
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write default config
	return Save(path, DefaultConfig())
}
