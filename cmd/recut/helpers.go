package main

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/maauso/recut/internal/edit"
	"github.com/maauso/recut/internal/export"
)

// defaultOutputPath returns <dir>/<stem>_edited.wav for input.
func defaultOutputPath(input string) string {
	return filepath.Join(filepath.Dir(input), stem(input)+"_edited.wav")
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// loadAnalysis reads the analysis document and drops removals below
// minConfidence.
func loadAnalysis(path string, minConfidence float64) (*edit.AnalysisResult, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("an analysis file is required (--analysis)")
	}
	analysis, err := edit.LoadAnalysis(path)
	if err != nil {
		return nil, err
	}
	if minConfidence > 0 {
		analysis.Removals = edit.FilterByConfidence(analysis.Removals, minConfidence)
	}
	return analysis, nil
}

func (e *exportFlags) targets() []export.Target {
	var targets []export.Target
	add := func(path string, format export.Format) {
		if strings.TrimSpace(path) != "" {
			targets = append(targets, export.Target{Format: format, Path: path})
		}
	}
	add(e.report, export.FormatJSON)
	add(e.edl, export.FormatEDL)
	add(e.markers, export.FormatCSV)
	add(e.labels, export.FormatAudacity)
	return targets
}

// parseFormats resolves format names, dropping duplicates.
func parseFormats(names []string) ([]export.Format, error) {
	seen := make(map[export.Format]bool)
	formats := make([]export.Format, 0, len(names))
	for _, name := range names {
		f, err := export.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

// formatTargets places DefaultPath(base, f) for each format in dir, or
// beside base when dir is empty.
func formatTargets(base, dir string, formats []export.Format) []export.Target {
	targets := make([]export.Target, 0, len(formats))
	for _, f := range formats {
		path := export.DefaultPath(base, f)
		if dir != "" {
			path = filepath.Join(dir, filepath.Base(path))
		}
		targets = append(targets, export.Target{Format: f, Path: path})
	}
	return targets
}

func targetPaths(targets []export.Target) []string {
	paths := make([]string, 0, len(targets))
	for _, t := range targets {
		paths = append(paths, t.Path)
	}
	return paths
}
