package edit

import (
	"cmp"
	"slices"

	"github.com/maauso/recut/internal/audio"
)

// timeEpsilon absorbs float noise when comparing durations and gaps in
// seconds, e.g. 1.2-1.1 evaluating just under 0.1.
const timeEpsilon = 1e-9

// Filter returns the removals that have finite, positive length of at
// least minRemovalMs. The input is not modified.
func Filter(removals []Removal, minRemovalMs uint32) []Removal {
	minDur := float64(minRemovalMs) / 1000
	out := make([]Removal, 0, len(removals))
	for _, r := range removals {
		if !r.usable() {
			continue
		}
		if r.Duration()+timeEpsilon < minDur {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterByConfidence returns the removals whose confidence is at least
// minConfidence.
func FilterByConfidence(removals []Removal, minConfidence float64) []Removal {
	out := make([]Removal, 0, len(removals))
	for _, r := range removals {
		if r.Confidence >= minConfidence {
			out = append(out, r)
		}
	}
	return out
}

// Merge sorts removals by start and joins every pair whose gap is at most
// mergeGapMs. Overlapping intervals have a negative gap and always merge.
// A merged interval keeps the later end, joins texts with " ... " and takes
// the lower confidence. The result is sorted and non-overlapping.
func Merge(removals []Removal, mergeGapMs uint32) []Removal {
	if len(removals) == 0 {
		return []Removal{}
	}

	sorted := slices.Clone(removals)
	slices.SortStableFunc(sorted, func(a, b Removal) int {
		return cmp.Compare(a.Start, b.Start)
	})

	threshold := float64(mergeGapMs) / 1000
	merged := []Removal{sorted[0]}
	for _, next := range sorted[1:] {
		cur := &merged[len(merged)-1]
		gap := next.Start - cur.End
		if gap <= threshold+timeEpsilon {
			cur.End = max(cur.End, next.End)
			cur.Text = cur.Text + " ... " + next.Text
			cur.Confidence = min(cur.Confidence, next.Confidence)
			continue
		}
		merged = append(merged, next)
	}
	return merged
}

// Align snaps each interval's boundaries to the nearest zero crossing
// within searchMs. Boundaries at the very start or end of the buffer are
// left in place so a removal can reach the file edges. A start that snaps
// behind the previous interval's end is moved up to it, and intervals left
// empty after snapping are dropped.
//
// removals must be sorted and non-overlapping, as returned by Merge.
func Align(buf *audio.Buffer, removals []Removal, searchMs uint32) []AlignedRemoval {
	radius := buf.MillisToSamples(searchMs)
	n := buf.Len()

	snap := func(idx int) int {
		if idx <= 0 || idx >= n {
			return idx
		}
		return audio.FindZeroCrossing(buf.Samples, idx, radius)
	}

	out := make([]AlignedRemoval, 0, len(removals))
	prevEnd := 0
	for _, r := range removals {
		start := snap(buf.TimeToSample(r.Start))
		end := snap(buf.TimeToSample(r.End))
		if start < prevEnd {
			start = prevEnd
		}
		if end <= start {
			continue
		}
		out = append(out, AlignedRemoval{StartSample: start, EndSample: end, Source: r})
		prevEnd = end
	}
	return out
}

// Reconcile runs Filter, Merge and Align with the given settings.
func Reconcile(buf *audio.Buffer, removals []Removal, cfg Config) []AlignedRemoval {
	return Align(buf, Merge(Filter(removals, cfg.MinRemovalMs), cfg.MergeGapMs), cfg.ZeroCrossingSearchMs)
}

// PreviewPlan describes plan without touching any samples.
func PreviewPlan(buf *audio.Buffer, plan []AlignedRemoval) []PreviewEdit {
	out := make([]PreviewEdit, 0, len(plan))
	for _, a := range plan {
		start := buf.SampleToTime(a.StartSample)
		end := buf.SampleToTime(a.EndSample)
		out = append(out, PreviewEdit{
			OriginalStart: a.Source.Start,
			OriginalEnd:   a.Source.End,
			AdjustedStart: start,
			AdjustedEnd:   end,
			Duration:      end - start,
			Reason:        a.Source.Reason.String(),
			Text:          a.Source.Text,
			Confidence:    a.Source.Confidence,
		})
	}
	return out
}
