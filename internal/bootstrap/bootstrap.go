// Package bootstrap provides dependency initialization for recut.
package bootstrap

import (
	"log/slog"

	"github.com/maauso/recut/internal/audio"
	"github.com/maauso/recut/internal/config"
	"github.com/maauso/recut/internal/edit"
	"github.com/maauso/recut/internal/export"
	"github.com/maauso/recut/internal/job"
	"github.com/maauso/recut/internal/storage"
	"github.com/maauso/recut/internal/waveform"
)

// Dependencies holds all initialized dependencies for the CLI.
type Dependencies struct {
	Processor     *audio.Processor
	Editor        *edit.Editor
	Exporter      *export.Exporter
	RenderService *job.RenderService
	Waveforms     *waveform.Generator
	WaveformCache *waveform.Cache
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) *Dependencies {
	store := storage.NewLocalStorage()

	processor := audio.NewProcessor(
		audio.WithSampleRate(cfg.SampleRate),
		audio.WithFFmpeg(audio.NewFFmpegDecoder(cfg.FFmpegPath, cfg.FFprobePath)),
		audio.WithStorage(store),
		audio.WithLogger(logger),
	)

	editor := edit.NewEditor(cfg.EditConfig(), processor,
		edit.WithBitDepth(cfg.OutputBits),
		edit.WithLogger(logger),
	)

	exporter := export.NewExporter(store,
		export.WithFPS(float64(cfg.EDLFPS)),
		export.WithLogger(logger),
	)

	svc := job.NewRenderService(
		job.NewMemoryRepository(),
		editor,
		exporter,
		job.WithMaxConcurrent(cfg.MaxConcurrentRenders),
		job.WithLogger(logger),
	)

	cache := waveform.NewCache(cfg.WaveformCacheDir, store)
	gen := waveform.NewGenerator(processor,
		waveform.WithCache(cache),
		waveform.WithLogger(logger),
	)

	logger.Debug("dependencies initialized",
		slog.Int("sample_rate", int(cfg.SampleRate)),
		slog.Int("output_bits", cfg.OutputBits),
		slog.Int("max_concurrent_renders", cfg.MaxConcurrentRenders),
		slog.String("waveform_cache_dir", cfg.WaveformCacheDir),
	)

	return &Dependencies{
		Processor:     processor,
		Editor:        editor,
		Exporter:      exporter,
		RenderService: svc,
		Waveforms:     gen,
		WaveformCache: cache,
	}
}
