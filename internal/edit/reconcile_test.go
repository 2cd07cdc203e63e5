package edit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/recut/internal/audio"
)

func TestFilter(t *testing.T) {
	removals := []Removal{
		{Start: 1.0, End: 1.05, Reason: ReasonFiller},
		{Start: 2.0, End: 2.1, Reason: ReasonFiller},
		{Start: 1.1, End: 1.2, Reason: ReasonRepeat},
		{Start: 3.0, End: 2.0, Reason: ReasonRestart},
		{Start: math.NaN(), End: 5.0, Reason: ReasonLongPause},
		{Start: 4.0, End: 4.5, Reason: ReasonMouthNoise},
	}
	original := append([]Removal(nil), removals...)

	got := Filter(removals, 100)
	require.Len(t, got, 3)
	assert.Equal(t, 2.0, got[0].Start)
	assert.Equal(t, 1.1, got[1].Start)
	assert.Equal(t, 4.0, got[2].Start)

	t.Run("zero minimum still drops empty intervals", func(t *testing.T) {
		got := Filter(removals, 0)
		assert.Len(t, got, 4)
	})

	t.Run("input untouched", func(t *testing.T) {
		for i := range original {
			if math.IsNaN(original[i].Start) {
				assert.True(t, math.IsNaN(removals[i].Start))
				continue
			}
			assert.Equal(t, original[i], removals[i])
		}
	})
}

func TestFilterByConfidence(t *testing.T) {
	removals := []Removal{
		{Start: 0, End: 1, Confidence: 0.4},
		{Start: 1, End: 2, Confidence: 0.5},
		{Start: 2, End: 3, Confidence: 0.9},
	}

	assert.Len(t, FilterByConfidence(removals, 0), 3)
	assert.Len(t, FilterByConfidence(removals, 0.5), 2)
	assert.Empty(t, FilterByConfidence(removals, 0.95))
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		removals []Removal
		gapMs    uint32
		want     []Removal
	}{
		{
			name: "adjacent within gap",
			removals: []Removal{
				{Start: 1.0, End: 1.2, Reason: ReasonFiller, Text: "um", Confidence: 0.9},
				{Start: 1.25, End: 1.4, Reason: ReasonFiller, Text: "uh", Confidence: 0.8},
			},
			gapMs: 100,
			want: []Removal{
				{Start: 1.0, End: 1.4, Reason: ReasonFiller, Text: "um ... uh", Confidence: 0.8},
			},
		},
		{
			name: "gap too large",
			removals: []Removal{
				{Start: 1.0, End: 1.2, Text: "a", Confidence: 0.9},
				{Start: 1.5, End: 1.7, Text: "b", Confidence: 0.8},
			},
			gapMs: 100,
			want: []Removal{
				{Start: 1.0, End: 1.2, Text: "a", Confidence: 0.9},
				{Start: 1.5, End: 1.7, Text: "b", Confidence: 0.8},
			},
		},
		{
			name: "unsorted input is sorted",
			removals: []Removal{
				{Start: 5, End: 6, Text: "late"},
				{Start: 1, End: 2, Text: "early"},
			},
			gapMs: 0,
			want: []Removal{
				{Start: 1, End: 2, Text: "early"},
				{Start: 5, End: 6, Text: "late"},
			},
		},
		{
			name: "nested interval keeps outer end",
			removals: []Removal{
				{Start: 1, End: 5, Text: "outer", Confidence: 0.7},
				{Start: 2, End: 3, Text: "inner", Confidence: 0.9},
			},
			gapMs: 0,
			want: []Removal{
				{Start: 1, End: 5, Text: "outer ... inner", Confidence: 0.7},
			},
		},
		{
			name: "overlap chains",
			removals: []Removal{
				{Start: 0, End: 2, Text: "a", Confidence: 1},
				{Start: 1, End: 3, Text: "b", Confidence: 0.6},
				{Start: 2.5, End: 4, Text: "c", Confidence: 0.8},
			},
			gapMs: 0,
			want: []Removal{
				{Start: 0, End: 4, Text: "a ... b ... c", Confidence: 0.6},
			},
		},
		{
			name:     "empty",
			removals: nil,
			gapMs:    50,
			want:     []Removal{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.removals, tt.gapMs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMerge_Idempotent(t *testing.T) {
	removals := []Removal{
		{Start: 3.0, End: 3.3, Text: "c", Confidence: 0.5},
		{Start: 0.1, End: 0.4, Text: "a", Confidence: 0.9},
		{Start: 0.42, End: 0.6, Text: "b", Confidence: 0.7},
		{Start: 3.2, End: 3.25, Text: "d", Confidence: 0.6},
		{Start: 7.0, End: 8.0, Text: "e", Confidence: 1},
		{Start: 8.04, End: 8.5, Text: "f", Confidence: 0.3},
	}

	for _, gap := range []uint32{0, 50, 100, 1000} {
		once := Merge(removals, gap)
		twice := Merge(once, gap)
		assert.Equal(t, once, twice, "gap %d", gap)
	}
}

func TestMerge_DoesNotModifyInput(t *testing.T) {
	removals := []Removal{
		{Start: 2, End: 3, Text: "b"},
		{Start: 1, End: 2, Text: "a"},
	}
	_ = Merge(removals, 100)

	assert.Equal(t, 2.0, removals[0].Start)
	assert.Equal(t, "b", removals[0].Text)
	assert.Equal(t, 3.0, removals[0].End)
}

// alternating returns a buffer whose sign flips every sample, so every
// index is a zero crossing.
func alternating(n int, rate uint32) *audio.Buffer {
	s := make([]float32, n)
	for i := range s {
		if i%2 == 0 {
			s[i] = 0.5
		} else {
			s[i] = -0.5
		}
	}
	return audio.NewBuffer(s, rate)
}

func constantBuffer(n int, rate uint32, v float32) *audio.Buffer {
	s := make([]float32, n)
	for i := range s {
		s[i] = v
	}
	return audio.NewBuffer(s, rate)
}

func TestAlign_SnapsToCrossings(t *testing.T) {
	// Positive except for a single sign change at 250/251.
	buf := constantBuffer(1000, 1000, 0.5)
	for i := 251; i < 1000; i++ {
		buf.Samples[i] = -0.5
	}

	got := Align(buf, []Removal{{Start: 0.1, End: 0.253}}, 5)
	require.Len(t, got, 1)
	assert.Equal(t, 100, got[0].StartSample, "flat signal keeps the target")
	assert.Equal(t, 250, got[0].EndSample)
}

func TestAlign_DropsDegenerate(t *testing.T) {
	buf := constantBuffer(1000, 1000, 0.5)
	for i := 501; i < 1000; i++ {
		buf.Samples[i] = -0.5
	}

	// Both boundaries snap to the only crossing, at 500.
	got := Align(buf, []Removal{{Start: 0.498, End: 0.502}}, 5)
	assert.Empty(t, got)
}

func TestAlign_FileEdges(t *testing.T) {
	buf := alternating(480, 48000)

	got := Align(buf, []Removal{{Start: 0, End: buf.Duration()}}, 5)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].StartSample)
	assert.Equal(t, 480, got[0].EndSample)
}

func TestReconcile_NonOverlapping(t *testing.T) {
	buf := alternating(48000*5, 48000)
	removals := []Removal{
		{Start: 0.50, End: 0.70, Confidence: 1},
		{Start: 0.7001, End: 0.9, Confidence: 1},
		{Start: 1.0, End: 1.3, Confidence: 1},
		{Start: 1.3002, End: 1.6, Confidence: 1},
		{Start: 2.0, End: 2.05, Confidence: 1},
		{Start: 4.9, End: 6.0, Confidence: 1},
	}

	cfg := Config{MinRemovalMs: 0, MergeGapMs: 0, ZeroCrossingSearchMs: 10}
	plan := Reconcile(buf, removals, cfg)
	require.NotEmpty(t, plan)

	prevEnd := 0
	for i, a := range plan {
		assert.Greater(t, a.EndSample, a.StartSample, "entry %d", i)
		assert.GreaterOrEqual(t, a.StartSample, prevEnd, "entry %d overlaps", i)
		assert.LessOrEqual(t, a.EndSample, buf.Len(), "entry %d", i)
		prevEnd = a.EndSample
	}
}

func TestPreviewPlan(t *testing.T) {
	buf := alternating(48000, 48000)
	src := Removal{Start: 0.25, End: 0.5, Reason: ReasonLongPause, Text: "[pause]", Confidence: 0.6}
	plan := []AlignedRemoval{{StartSample: 12000, EndSample: 24000, Source: src}}

	got := PreviewPlan(buf, plan)
	require.Len(t, got, 1)
	assert.Equal(t, PreviewEdit{
		OriginalStart: 0.25,
		OriginalEnd:   0.5,
		AdjustedStart: 0.25,
		AdjustedEnd:   0.5,
		Duration:      0.25,
		Reason:        "long_pause",
		Text:          "[pause]",
		Confidence:    0.6,
	}, got[0])
}
