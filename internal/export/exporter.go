package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/maauso/recut/internal/storage"
)

// Format names an export target.
type Format string

// Export formats.
const (
	FormatJSON     Format = "json"
	FormatEDL      Format = "edl"
	FormatCSV      Format = "csv"
	FormatAudacity Format = "audacity"
)

// Formats lists every export format.
var Formats = []Format{FormatJSON, FormatEDL, FormatCSV, FormatAudacity}

// ParseFormat maps a name (case-insensitive) to a Format. "markers" is an
// alias for csv and "labels" for audacity.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "edl":
		return FormatEDL, nil
	case "csv", "markers":
		return FormatCSV, nil
	case "audacity", "labels":
		return FormatAudacity, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// DefaultPath derives an export path from the rendered audio path, e.g.
// "ep1_edited.wav" becomes "ep1_edited.edl".
func DefaultPath(audioPath string, format Format) string {
	base := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	switch format {
	case FormatJSON:
		return base + ".json"
	case FormatEDL:
		return base + ".edl"
	case FormatCSV:
		return base + "_markers.csv"
	case FormatAudacity:
		return base + "_labels.txt"
	default:
		return base + "." + string(format)
	}
}

// Target is one file to produce.
type Target struct {
	Format Format
	Path   string
}

// Exporter writes reports to disk through a Storage, so every file is
// either complete or absent.
type Exporter struct {
	store  storage.Storage
	fps    float64
	pretty bool
	now    func() time.Time
	logger *slog.Logger
}

// ExporterOption is a function that configures an Exporter.
type ExporterOption func(*Exporter)

// WithFPS sets the EDL frame rate.
func WithFPS(fps float64) ExporterOption {
	return func(e *Exporter) {
		e.fps = fps
	}
}

// WithCompactJSON disables JSON indentation.
func WithCompactJSON() ExporterOption {
	return func(e *Exporter) {
		e.pretty = false
	}
}

// WithClock sets the time source for "generated_at".
func WithClock(now func() time.Time) ExporterOption {
	return func(e *Exporter) {
		e.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ExporterOption {
	return func(e *Exporter) {
		e.logger = l
	}
}

// NewExporter creates an Exporter writing through store.
func NewExporter(store storage.Storage, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		store:  store,
		fps:    DefaultFPS,
		pretty: true,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Encode writes report in format to w.
func (e *Exporter) Encode(w io.Writer, report *Report, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, report, e.now(), e.pretty)
	case FormatEDL:
		return WriteEDL(w, report, e.fps, "")
	case FormatCSV:
		return WriteMarkers(w, report, MarkersCSV)
	case FormatAudacity:
		return WriteMarkers(w, report, MarkersAudacity)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Export writes every target, stopping at the first failure. Targets
// already written stay on disk. The EDL frame rate is checked before
// anything is written.
func (e *Exporter) Export(ctx context.Context, report *Report, targets []Target) error {
	for _, t := range targets {
		if t.Format == FormatEDL && !(e.fps > 0) {
			return fmt.Errorf("%w: %v", ErrInvalidFrameRate, e.fps)
		}
	}

	for _, t := range targets {
		err := e.store.WriteAtomic(ctx, t.Path, func(w io.WriteSeeker) error {
			return e.Encode(w, report, t.Format)
		})
		if err != nil {
			return fmt.Errorf("export %s to %s: %w", t.Format, t.Path, err)
		}

		e.logger.Debug("report exported",
			slog.String("format", string(t.Format)),
			slog.String("path", t.Path),
			slog.Int("edits", len(report.Edits)),
		)
	}
	return nil
}
