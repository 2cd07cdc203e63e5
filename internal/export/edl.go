package export

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/maauso/recut/internal/edit"
)

// DefaultFPS is the EDL frame rate used when none is configured.
const DefaultFPS = 30

const (
	edlReel       = "AX"
	edlTrack      = "AA/V"
	edlTransition = "C"
)

// Region is a half-open time range in seconds.
type Region struct {
	Start float64
	End   float64
}

// Duration returns End - Start.
func (r Region) Duration() float64 {
	return r.End - r.Start
}

// KeptRegions returns the parts of [0, OriginalDuration) not covered by any
// edit, in order. Overlapping edits are merged first.
func KeptRegions(report *edit.EditReport) []Region {
	if len(report.Edits) == 0 {
		if report.OriginalDuration <= 0 {
			return nil
		}
		return []Region{{Start: 0, End: report.OriginalDuration}}
	}

	sorted := slices.Clone(report.Edits)
	slices.SortStableFunc(sorted, func(a, b edit.AppliedEdit) int {
		return cmp.Compare(a.OriginalStart, b.OriginalStart)
	})

	var regions []Region
	lastEnd := 0.0
	for _, e := range sorted {
		if e.OriginalStart > lastEnd {
			regions = append(regions, Region{Start: lastEnd, End: min(e.OriginalStart, report.OriginalDuration)})
		}
		lastEnd = max(lastEnd, e.OriginalEnd)
		if lastEnd >= report.OriginalDuration {
			break
		}
	}
	if lastEnd < report.OriginalDuration {
		regions = append(regions, Region{Start: lastEnd, End: report.OriginalDuration})
	}

	return slices.DeleteFunc(regions, func(r Region) bool { return r.Duration() <= 0 })
}

// Timecode formats seconds as non-drop-frame HH:MM:SS:FF. Frames are
// truncated, not rounded.
func Timecode(seconds, fps float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	base := int64(fps)
	if base < 1 {
		base = 1
	}

	totalFrames := int64(math.Floor(seconds * fps))
	frames := totalFrames % base
	totalSeconds := totalFrames / base
	secs := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	mins := totalMinutes % 60
	hours := totalMinutes / 60

	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, mins, secs, frames)
}

// EDLTitle returns the input file's stem, or "Untitled".
func EDLTitle(inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if inputPath == "" || stem == "" || stem == "." || stem == string(filepath.Separator) {
		return "Untitled"
	}
	return norm.NFC.String(stem)
}

// WriteEDL writes one event per kept region, with source times on the
// original timeline and record times on the edited one. An empty title
// falls back to EDLTitle(report.InputPath).
func WriteEDL(w io.Writer, report *edit.EditReport, fps float64, title string) error {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidFrameRate, fps)
	}
	if title == "" {
		title = EDLTitle(report.InputPath)
	}

	clip := "input"
	if report.InputPath != "" {
		clip = norm.NFC.String(filepath.Base(report.InputPath))
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "TITLE: %s\n", title)
	fmt.Fprint(bw, "FCM: NON-DROP FRAME\n\n")

	recOffset := 0.0
	for i, r := range KeptRegions(report) {
		d := r.Duration()
		fmt.Fprintf(bw, "%03d  %s       %s  %s        %s %s %s %s\n",
			i+1, edlReel, edlTrack, edlTransition,
			Timecode(r.Start, fps), Timecode(r.End, fps),
			Timecode(recOffset, fps), Timecode(recOffset+d, fps),
		)
		fmt.Fprintf(bw, "* FROM CLIP NAME: %s\n\n", clip)
		recOffset += d
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: edl: %w", ErrSerialization, err)
	}
	return nil
}
