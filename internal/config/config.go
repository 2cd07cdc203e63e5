// Package config provides configuration loading from an optional TOML file
// and environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/sethvargo/go-envconfig"

	"github.com/maauso/recut/internal/edit"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds all configuration for the application.
type Config struct {
	// Audio settings
	SampleRate uint32 `env:"RECUT_SAMPLE_RATE, default=48000" toml:"sample_rate" json:"sample_rate" validate:"gte=8000,lte=384000"`
	OutputBits int    `env:"RECUT_OUTPUT_BITS, default=24" toml:"output_bits" json:"output_bits" validate:"oneof=16 24 32"`

	// Editing settings
	CrossfadeMs          uint32  `env:"RECUT_CROSSFADE_MS, default=30" toml:"crossfade_ms" json:"crossfade_ms"`
	MinRemovalMs         uint32  `env:"RECUT_MIN_REMOVAL_MS, default=100" toml:"min_removal_ms" json:"min_removal_ms"`
	MergeGapMs           uint32  `env:"RECUT_MERGE_GAP_MS, default=50" toml:"merge_gap_ms" json:"merge_gap_ms"`
	ZeroCrossingSearchMs uint32  `env:"RECUT_ZERO_CROSSING_SEARCH_MS, default=5" toml:"zero_crossing_search_ms" json:"zero_crossing_search_ms"`
	MinConfidence        float64 `env:"RECUT_MIN_CONFIDENCE, default=0" toml:"min_confidence" json:"min_confidence" validate:"gte=0,lte=1"`

	// Export settings
	EDLFPS uint32 `env:"RECUT_EDL_FPS, default=30" toml:"edl_fps" json:"edl_fps" validate:"gt=0"`

	// Processing settings
	MaxConcurrentRenders int    `env:"RECUT_MAX_CONCURRENT_RENDERS, default=2" toml:"max_concurrent_renders" json:"max_concurrent_renders" validate:"gte=1"`
	FFmpegPath           string `env:"RECUT_FFMPEG_PATH, default=ffmpeg" toml:"ffmpeg_path" json:"ffmpeg_path" validate:"required"`
	FFprobePath          string `env:"RECUT_FFPROBE_PATH, default=ffprobe" toml:"ffprobe_path" json:"ffprobe_path" validate:"required"`
	WaveformCacheDir     string `env:"RECUT_WAVEFORM_CACHE_DIR" toml:"waveform_cache_dir" json:"waveform_cache_dir"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" toml:"log_format" json:"log_format" validate:"oneof=text json"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" toml:"log_level" json:"log_level"`                                   // "debug", "info", "warn", "error"
}

var validate = validator.New()

// Load builds a Config from defaults and environment variables, then
// overlays the keys present in the TOML file at path when path is non-empty.
// A key written in the file wins even when its value is zero.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if path != "" {
		file, err := decodeFile(path)
		if err != nil {
			return nil, err
		}
		file.apply(cfg)
	}

	if cfg.WaveformCacheDir == "" {
		cfg.WaveformCacheDir = defaultWaveformCacheDir()
	}
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fileConfig mirrors Config with pointer fields so absent keys stay nil.
type fileConfig struct {
	SampleRate           *uint32  `toml:"sample_rate"`
	OutputBits           *int     `toml:"output_bits"`
	CrossfadeMs          *uint32  `toml:"crossfade_ms"`
	MinRemovalMs         *uint32  `toml:"min_removal_ms"`
	MergeGapMs           *uint32  `toml:"merge_gap_ms"`
	ZeroCrossingSearchMs *uint32  `toml:"zero_crossing_search_ms"`
	MinConfidence        *float64 `toml:"min_confidence"`
	EDLFPS               *uint32  `toml:"edl_fps"`
	MaxConcurrentRenders *int     `toml:"max_concurrent_renders"`
	FFmpegPath           *string  `toml:"ffmpeg_path"`
	FFprobePath          *string  `toml:"ffprobe_path"`
	WaveformCacheDir     *string  `toml:"waveform_cache_dir"`
	LogFormat            *string  `toml:"log_format"`
	LogLevel             *string  `toml:"log_level"`
}

func decodeFile(path string) (*fileConfig, error) {
	file, err := os.Open(path) // #nosec G304 - path is chosen by the operator
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	var fc fileConfig
	decoder := toml.NewDecoder(file).DisallowUnknownFields()
	if err := decoder.Decode(&fc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &fc, nil
}

func (f *fileConfig) apply(cfg *Config) {
	set(&cfg.SampleRate, f.SampleRate)
	set(&cfg.OutputBits, f.OutputBits)
	set(&cfg.CrossfadeMs, f.CrossfadeMs)
	set(&cfg.MinRemovalMs, f.MinRemovalMs)
	set(&cfg.MergeGapMs, f.MergeGapMs)
	set(&cfg.ZeroCrossingSearchMs, f.ZeroCrossingSearchMs)
	set(&cfg.MinConfidence, f.MinConfidence)
	set(&cfg.EDLFPS, f.EDLFPS)
	set(&cfg.MaxConcurrentRenders, f.MaxConcurrentRenders)
	set(&cfg.FFmpegPath, f.FFmpegPath)
	set(&cfg.FFprobePath, f.FFprobePath)
	set(&cfg.WaveformCacheDir, f.WaveformCacheDir)
	set(&cfg.LogFormat, f.LogFormat)
	set(&cfg.LogLevel, f.LogLevel)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func defaultWaveformCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "recut", "waveforms")
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// EditConfig returns the editing parameters.
func (c *Config) EditConfig() edit.Config {
	return edit.Config{
		CrossfadeMs:          c.CrossfadeMs,
		MinRemovalMs:         c.MinRemovalMs,
		MergeGapMs:           c.MergeGapMs,
		ZeroCrossingSearchMs: c.ZeroCrossingSearchMs,
	}
}

// NewLogger creates a structured logger writing to w.
// When LogFormat is "json", it outputs JSON logs for machine consumption.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a one-line summary of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{SampleRate: %d, OutputBits: %d, CrossfadeMs: %d, MinRemovalMs: %d, MergeGapMs: %d, ZeroCrossingSearchMs: %d, MinConfidence: %g, EDLFPS: %d, MaxConcurrentRenders: %d, FFmpegPath: %s, FFprobePath: %s, WaveformCacheDir: %s, LogFormat: %s, LogLevel: %s}",
		c.SampleRate,
		c.OutputBits,
		c.CrossfadeMs,
		c.MinRemovalMs,
		c.MergeGapMs,
		c.ZeroCrossingSearchMs,
		c.MinConfidence,
		c.EDLFPS,
		c.MaxConcurrentRenders,
		c.FFmpegPath,
		c.FFprobePath,
		c.WaveformCacheDir,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
