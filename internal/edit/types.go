// Package edit turns a list of removal intervals into a sample-accurate
// render plan, applies it to an audio buffer, and records what was cut.
package edit

import "math"

// Reason is why an interval is removed. Values are the snake_case strings
// the analysis step emits.
type Reason string

// Removal reasons.
const (
	ReasonFiller     Reason = "filler"
	ReasonRepeat     Reason = "repeat"
	ReasonRestart    Reason = "restart"
	ReasonMouthNoise Reason = "mouth_noise"
	ReasonLongPause  Reason = "long_pause"
)

// Reasons lists every known reason in display order.
var Reasons = []Reason{ReasonFiller, ReasonRepeat, ReasonRestart, ReasonMouthNoise, ReasonLongPause}

// Valid reports whether r is a known reason.
func (r Reason) Valid() bool {
	for _, known := range Reasons {
		if r == known {
			return true
		}
	}
	return false
}

func (r Reason) String() string {
	return string(r)
}

// Removal is a time interval the analysis step wants cut.
type Removal struct {
	// Start is in seconds.
	Start float64 `json:"start"`
	// End is in seconds. Intervals with End <= Start are ignored.
	End        float64 `json:"end"`
	Reason     Reason  `json:"reason" validate:"required,oneof=filler repeat restart mouth_noise long_pause"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// Duration returns End - Start.
func (r Removal) Duration() float64 {
	return r.End - r.Start
}

// usable reports whether the interval has finite bounds and positive length.
func (r Removal) usable() bool {
	if math.IsNaN(r.Start) || math.IsNaN(r.End) || math.IsInf(r.Start, 0) || math.IsInf(r.End, 0) {
		return false
	}
	return r.End > r.Start
}

// AlignedRemoval is a Removal snapped onto the sample grid.
// EndSample > StartSample always holds.
type AlignedRemoval struct {
	StartSample int
	EndSample   int
	Source      Removal
}

// AppliedEdit records one cut using the interval's times before snapping.
type AppliedEdit struct {
	OriginalStart float64 `json:"original_start"`
	OriginalEnd   float64 `json:"original_end"`
	Reason        string  `json:"reason"`
	Text          string  `json:"text"`
}

// Duration returns OriginalEnd - OriginalStart.
func (e AppliedEdit) Duration() float64 {
	return e.OriginalEnd - e.OriginalStart
}

// EditReport describes one finished render.
type EditReport struct {
	InputPath        string        `json:"input_path"`
	OutputPath       string        `json:"output_path"`
	OriginalDuration float64       `json:"original_duration"`
	EditedDuration   float64       `json:"edited_duration"`
	Edits            []AppliedEdit `json:"edits"`
}

// RemovedDuration returns OriginalDuration - EditedDuration.
func (r *EditReport) RemovedDuration() float64 {
	return r.OriginalDuration - r.EditedDuration
}

// PreviewEdit shows where a cut will land without rendering it.
type PreviewEdit struct {
	OriginalStart float64 `json:"original_start"`
	OriginalEnd   float64 `json:"original_end"`
	AdjustedStart float64 `json:"adjusted_start"`
	AdjustedEnd   float64 `json:"adjusted_end"`
	Duration      float64 `json:"duration"`
	Reason        string  `json:"reason"`
	Text          string  `json:"text"`
	Confidence    float64 `json:"confidence"`
}

// AnalysisResult is the document produced by the analysis step.
type AnalysisResult struct {
	Removals         []Removal         `json:"removals" validate:"dive"`
	OriginalDuration float64           `json:"original_duration" validate:"gte=0"`
	RemovedDuration  float64           `json:"removed_duration" validate:"gte=0"`
	Statistics       map[string]uint32 `json:"statistics,omitempty"`
}
