package edit

// Config tunes reconciliation and rendering. All values are milliseconds.
type Config struct {
	// CrossfadeMs is the blend length at every internal join.
	CrossfadeMs uint32 `json:"crossfade_ms"`
	// MinRemovalMs drops shorter intervals.
	MinRemovalMs uint32 `json:"min_removal_ms"`
	// MergeGapMs merges intervals separated by at most this gap.
	MergeGapMs uint32 `json:"merge_gap_ms"`
	// ZeroCrossingSearchMs is the radius searched around each cut point.
	ZeroCrossingSearchMs uint32 `json:"zero_crossing_search_ms"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		CrossfadeMs:          30,
		MinRemovalMs:         100,
		MergeGapMs:           50,
		ZeroCrossingSearchMs: 5,
	}
}
