package edit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidAnalysis is returned when an analysis document cannot be parsed
// or fails validation.
var ErrInvalidAnalysis = errors.New("invalid analysis")

var validate = validator.New()

// DecodeAnalysis reads an analysis document. Both the full object form and
// a bare JSON array of removals are accepted. Unknown reasons and
// confidences outside [0, 1] are rejected.
func DecodeAnalysis(r io.Reader) (*AnalysisResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", ErrInvalidAnalysis, err)
	}

	result := &AnalysisResult{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &result.Removals); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
		}
		result.RemovedDuration = sumDurations(result.Removals)
		result.Statistics = countReasons(result.Removals)
	} else if err := json.Unmarshal(trimmed, result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
	}

	if result.Removals == nil {
		result.Removals = []Removal{}
	}

	if err := validate.Struct(result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
	}
	return result, nil
}

// LoadAnalysis reads and validates the analysis document at path.
func LoadAnalysis(path string) (*AnalysisResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is provided by trusted caller
	if err != nil {
		return nil, fmt.Errorf("open analysis: %w", err)
	}
	defer func() { _ = f.Close() }()

	return DecodeAnalysis(f)
}

func sumDurations(removals []Removal) float64 {
	var total float64
	for _, r := range removals {
		if r.usable() {
			total += r.Duration()
		}
	}
	return total
}

func countReasons(removals []Removal) map[string]uint32 {
	stats := make(map[string]uint32)
	for _, r := range removals {
		stats[r.Reason.String()]++
	}
	return stats
}
