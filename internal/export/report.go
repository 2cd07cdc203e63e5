package export

import (
	"cmp"
	"slices"

	"github.com/maauso/recut/internal/edit"
)

// Report is the edit report every writer in this package consumes.
type Report = edit.EditReport

// ReportFromAnalysis builds a report straight from an analysis, without
// rendering. Edits are the analysis' removals in time order and the edited
// duration is the original minus the removed duration.
func ReportFromAnalysis(analysis *edit.AnalysisResult, inputPath string) *Report {
	edits := make([]edit.AppliedEdit, 0, len(analysis.Removals))
	var removed float64
	for _, r := range analysis.Removals {
		if r.End <= r.Start {
			continue
		}
		removed += r.Duration()
		edits = append(edits, edit.AppliedEdit{
			OriginalStart: r.Start,
			OriginalEnd:   r.End,
			Reason:        r.Reason.String(),
			Text:          r.Text,
		})
	}
	slices.SortStableFunc(edits, func(a, b edit.AppliedEdit) int {
		return cmp.Compare(a.OriginalStart, b.OriginalStart)
	})

	if analysis.RemovedDuration > 0 {
		removed = analysis.RemovedDuration
	}
	edited := max(analysis.OriginalDuration-removed, 0)

	return &Report{
		InputPath:        inputPath,
		OriginalDuration: analysis.OriginalDuration,
		EditedDuration:   edited,
		Edits:            edits,
	}
}
