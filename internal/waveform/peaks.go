// Package waveform reduces audio to per-bucket peaks for display and
// caches the result on disk, keyed by the content hash of the source file.
package waveform

import (
	"errors"
	"fmt"
	"math"

	"github.com/maauso/recut/internal/audio"
)

// ErrUnknownResolution is returned when a resolution name is not recognised.
var ErrUnknownResolution = errors.New("unknown waveform resolution")

// Resolution selects how many peaks are produced.
type Resolution string

const (
	// Thumbnail produces 256 peaks.
	Thumbnail Resolution = "thumbnail"
	// Standard produces 2048 peaks.
	Standard Resolution = "standard"
	// High produces 8192 peaks.
	High Resolution = "high"
	// Full produces one peak per sample, up to MaxFullPeaks.
	Full Resolution = "full"
)

// MaxFullPeaks caps the Full resolution.
const MaxFullPeaks = 32768

// Resolutions lists every supported resolution.
var Resolutions = []Resolution{Thumbnail, Standard, High, Full}

// ParseResolution maps a name to a Resolution.
func ParseResolution(s string) (Resolution, error) {
	switch Resolution(s) {
	case Thumbnail, Standard, High, Full:
		return Resolution(s), nil
	case "thumb":
		return Thumbnail, nil
	case "std":
		return Standard, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownResolution, s)
}

// PeakCount returns the number of peaks produced for n samples.
func (r Resolution) PeakCount(n int) int {
	var target int
	switch r {
	case Thumbnail:
		target = 256
	case Standard:
		target = 2048
	case High:
		target = 8192
	case Full:
		target = MaxFullPeaks
	}
	return min(target, n)
}

// Data is the display form of one file at one resolution.
type Data struct {
	Peaks      []float32  `json:"peaks"`
	Duration   float64    `json:"duration"`
	Resolution Resolution `json:"resolution"`
	SampleRate uint32     `json:"sample_rate"`
}

// Peaks splits buf into equal buckets and returns the largest absolute
// sample of each, clamped to [0, 1]. Trailing samples that do not fill a
// bucket are ignored.
func Peaks(buf *audio.Buffer, res Resolution) []float32 {
	n := buf.Len()
	count := res.PeakCount(n)
	if count == 0 {
		return []float32{}
	}

	per := n / count
	peaks := make([]float32, count)
	for i := range peaks {
		var peak float32
		for _, s := range buf.Samples[i*per : (i+1)*per] {
			a := float32(math.Abs(float64(s)))
			if a > peak {
				peak = a
			}
		}
		peaks[i] = min(peak, 1)
	}
	return peaks
}

// Generate builds Data for buf.
func Generate(buf *audio.Buffer, res Resolution) *Data {
	return &Data{
		Peaks:      Peaks(buf, res),
		Duration:   buf.Duration(),
		Resolution: res,
		SampleRate: buf.SampleRate,
	}
}
