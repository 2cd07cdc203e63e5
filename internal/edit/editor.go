package edit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maauso/recut/internal/audio"
)

// AudioIO loads and saves buffers. *audio.Processor implements it.
type AudioIO interface {
	Load(ctx context.Context, path string) (*audio.Buffer, error)
	Save(ctx context.Context, buf *audio.Buffer, path string, bits int) error
}

var _ AudioIO = (*audio.Processor)(nil)

// Editor runs the full load, reconcile, render and save pipeline.
type Editor struct {
	cfg      Config
	io       AudioIO
	bitDepth int
	logger   *slog.Logger
}

// EditorOption is a function that configures an Editor.
type EditorOption func(*Editor)

// WithBitDepth sets the output bit depth (16, 24 or 32).
func WithBitDepth(bits int) EditorOption {
	return func(e *Editor) {
		e.bitDepth = bits
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) EditorOption {
	return func(e *Editor) {
		e.logger = l
	}
}

// NewEditor creates an Editor. Output defaults to 24-bit.
func NewEditor(cfg Config, aio AudioIO, opts ...EditorOption) *Editor {
	e := &Editor{
		cfg:      cfg,
		io:       aio,
		bitDepth: audio.DefaultBitDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Config returns the editor's settings.
func (e *Editor) Config() Config {
	return e.cfg
}

// Plan reconciles removals against buf and logs how many were dropped.
func (e *Editor) Plan(buf *audio.Buffer, removals []Removal) []AlignedRemoval {
	plan := Reconcile(buf, removals, e.cfg)

	e.logger.Debug("removals reconciled",
		slog.Int("input", len(removals)),
		slog.Int("planned", len(plan)),
	)
	return plan
}

// Edit renders inputPath without the analysis' removals and writes the
// result to outputPath. Nothing is written if loading or rendering fails.
func (e *Editor) Edit(ctx context.Context, inputPath string, analysis *AnalysisResult, outputPath string) (*EditReport, error) {
	if analysis == nil {
		return nil, fmt.Errorf("%w: missing analysis", ErrInvalidAnalysis)
	}
	started := time.Now()

	buf, err := e.io.Load(ctx, inputPath)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", inputPath, err)
	}

	plan := e.Plan(buf, analysis.Removals)
	edited, edits := Render(buf, plan, e.cfg.CrossfadeMs)

	if err := e.io.Save(ctx, edited, outputPath, e.bitDepth); err != nil {
		return nil, fmt.Errorf("save %s: %w", outputPath, err)
	}

	report := &EditReport{
		InputPath:        inputPath,
		OutputPath:       outputPath,
		OriginalDuration: buf.Duration(),
		EditedDuration:   edited.Duration(),
		Edits:            edits,
	}

	e.logger.Info("edit completed",
		slog.String("input", inputPath),
		slog.String("output", outputPath),
		slog.Int("edits", len(edits)),
		slog.Float64("original_duration", report.OriginalDuration),
		slog.Float64("edited_duration", report.EditedDuration),
		slog.Duration("elapsed", time.Since(started)),
	)
	return report, nil
}

// Preview loads inputPath and reports where each cut would land.
func (e *Editor) Preview(ctx context.Context, inputPath string, analysis *AnalysisResult) ([]PreviewEdit, error) {
	if analysis == nil {
		return nil, fmt.Errorf("%w: missing analysis", ErrInvalidAnalysis)
	}
	buf, err := e.io.Load(ctx, inputPath)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", inputPath, err)
	}
	return PreviewPlan(buf, e.Plan(buf, analysis.Removals)), nil
}
