package main

import (
	"github.com/spf13/cobra"

	"github.com/maauso/recut/internal/config"
)

// renderFlags are the per-command overrides for config values. Only flags
// the user actually set replace the loaded config.
type renderFlags struct {
	crossfadeMs   uint32
	minRemovalMs  uint32
	mergeGapMs    uint32
	searchMs      uint32
	bits          int
	minConfidence float64
	fps           uint32
	sampleRate    uint32
}

func (r *renderFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Uint32Var(&r.crossfadeMs, "crossfade", 0, "Crossfade length in milliseconds")
	f.Uint32Var(&r.minRemovalMs, "min-removal", 0, "Drop removals shorter than this many milliseconds")
	f.Uint32Var(&r.mergeGapMs, "merge-gap", 0, "Merge removals separated by at most this many milliseconds")
	f.Uint32Var(&r.searchMs, "zero-crossing-search", 0, "Zero-crossing search radius in milliseconds")
	f.IntVar(&r.bits, "bits", 0, "Output bit depth (16, 24 or 32)")
	f.Float64Var(&r.minConfidence, "min-confidence", 0, "Ignore removals below this confidence (0-1)")
	f.Uint32Var(&r.fps, "fps", 0, "EDL frame rate")
	f.Uint32Var(&r.sampleRate, "sample-rate", 0, "Processing sample rate in Hz")
}

func (r *renderFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("crossfade") {
		cfg.CrossfadeMs = r.crossfadeMs
	}
	if f.Changed("min-removal") {
		cfg.MinRemovalMs = r.minRemovalMs
	}
	if f.Changed("merge-gap") {
		cfg.MergeGapMs = r.mergeGapMs
	}
	if f.Changed("zero-crossing-search") {
		cfg.ZeroCrossingSearchMs = r.searchMs
	}
	if f.Changed("bits") {
		cfg.OutputBits = r.bits
	}
	if f.Changed("min-confidence") {
		cfg.MinConfidence = r.minConfidence
	}
	if f.Changed("fps") {
		cfg.EDLFPS = r.fps
	}
	if f.Changed("sample-rate") {
		cfg.SampleRate = r.sampleRate
	}
	return cfg.Validate()
}

// exportFlags name report files written next to a render.
type exportFlags struct {
	report  string
	edl     string
	markers string
	labels  string
}

func (e *exportFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&e.report, "export-report", "", "Write a JSON report to this path")
	f.StringVar(&e.edl, "export-edl", "", "Write a CMX3600 EDL to this path")
	f.StringVar(&e.markers, "export-markers", "", "Write CSV markers to this path")
	f.StringVar(&e.labels, "export-labels", "", "Write Audacity labels to this path")
}
