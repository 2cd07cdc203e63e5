package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/maauso/recut/internal/edit"
)

// ReportVersion is written to the "version" key of JSON reports.
const ReportVersion = "1.0"

// JSONReport is the serialized form of an edit.EditReport.
type JSONReport struct {
	Version          string             `json:"version"`
	GeneratedAt      string             `json:"generated_at"`
	Input            string             `json:"input"`
	Output           string             `json:"output"`
	OriginalDuration float64            `json:"original_duration"`
	EditedDuration   float64            `json:"edited_duration"`
	RemovedDuration  float64            `json:"removed_duration"`
	ReductionPercent float64            `json:"reduction_percent"`
	EditCount        int                `json:"edit_count"`
	Edits            []edit.AppliedEdit `json:"edits"`
	Statistics       Statistics         `json:"statistics"`
}

// Statistics aggregates removed time per reason.
type Statistics struct {
	ByReason             map[string]ReasonStats `json:"by_reason"`
	TotalRemovedDuration float64                `json:"total_removed_duration"`
}

// ReasonStats is the count and cumulative duration for one reason.
type ReasonStats struct {
	Count    int     `json:"count"`
	Duration float64 `json:"duration"`
}

// NewJSONReport builds the JSON form of report stamped with generatedAt.
func NewJSONReport(report *edit.EditReport, generatedAt time.Time) *JSONReport {
	removed := report.RemovedDuration()
	var reduction float64
	if report.OriginalDuration > 0 {
		reduction = removed / report.OriginalDuration * 100
	}

	stats := Statistics{ByReason: make(map[string]ReasonStats)}
	for _, e := range report.Edits {
		d := e.Duration()
		stats.TotalRemovedDuration += d

		rs := stats.ByReason[e.Reason]
		rs.Count++
		rs.Duration += d
		stats.ByReason[e.Reason] = rs
	}

	edits := report.Edits
	if edits == nil {
		edits = []edit.AppliedEdit{}
	}

	return &JSONReport{
		Version:          ReportVersion,
		GeneratedAt:      generatedAt.Format(time.RFC3339),
		Input:            report.InputPath,
		Output:           report.OutputPath,
		OriginalDuration: report.OriginalDuration,
		EditedDuration:   report.EditedDuration,
		RemovedDuration:  removed,
		ReductionPercent: reduction,
		EditCount:        len(report.Edits),
		Edits:            edits,
		Statistics:       stats,
	}
}

// WriteJSON encodes report to w. Pretty output is indented two spaces.
func WriteJSON(w io.Writer, report *edit.EditReport, generatedAt time.Time, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(NewJSONReport(report, generatedAt)); err != nil {
		return fmt.Errorf("%w: json: %w", ErrSerialization, err)
	}
	return nil
}
