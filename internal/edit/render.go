package edit

import "github.com/maauso/recut/internal/audio"

// Render cuts every planned interval out of buf and joins the remaining
// segments with a linear crossfade of crossfadeMs. It returns a new buffer
// and one AppliedEdit per planned interval; buf is not modified.
//
// An empty plan yields a copy of buf. A plan covering the whole buffer
// yields an empty buffer.
func Render(buf *audio.Buffer, plan []AlignedRemoval, crossfadeMs uint32) (*audio.Buffer, []AppliedEdit) {
	edits := make([]AppliedEdit, 0, len(plan))
	if len(plan) == 0 {
		return buf.Clone(), edits
	}

	var segments [][]float32
	lastEnd := 0
	for _, a := range plan {
		start := min(a.StartSample, buf.Len())
		if start > lastEnd {
			segments = append(segments, buf.Samples[lastEnd:start])
		}
		edits = append(edits, AppliedEdit{
			OriginalStart: a.Source.Start,
			OriginalEnd:   a.Source.End,
			Reason:        a.Source.Reason.String(),
			Text:          a.Source.Text,
		})
		lastEnd = max(lastEnd, min(a.EndSample, buf.Len()))
	}
	if lastEnd < buf.Len() {
		segments = append(segments, buf.Samples[lastEnd:])
	}

	fadeLen := buf.MillisToSamples(crossfadeMs)
	out := make([]float32, 0, buf.Len())
	for i, seg := range segments {
		if i == 0 {
			out = append(out, seg...)
			continue
		}
		out = audio.AppendCrossfade(out, seg, fadeLen)
	}

	return audio.NewBuffer(out, buf.SampleRate), edits
}
