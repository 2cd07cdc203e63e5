// Package audio provides the mono sample buffer the editor works on, file
// decoding and encoding, sample rate conversion, and the sample-level
// primitives used at every cut point.
package audio

import "math"

// DefaultSampleRate is the rate every loaded file is normalized to unless
// the Processor is configured otherwise.
const DefaultSampleRate = 48000

// Buffer holds decoded mono samples at a fixed sample rate.
//
// A Buffer belongs to whichever stage is transforming it (load, render,
// save). Functions in this package and in the editor never write to a
// Buffer they received; they return a new one instead.
type Buffer struct {
	// Samples is linear PCM, nominally in [-1, 1].
	Samples []float32
	// SampleRate is in Hz and must be positive.
	SampleRate uint32
}

// NewBuffer wraps samples without copying them.
func NewBuffer(samples []float32, sampleRate uint32) *Buffer {
	if samples == nil {
		samples = []float32{}
	}
	return &Buffer{Samples: samples, SampleRate: sampleRate}
}

// Len returns the number of samples.
func (b *Buffer) Len() int {
	return len(b.Samples)
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate == 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// TimeToSample converts seconds to the nearest sample index, clamped to
// [0, Len()].
func (b *Buffer) TimeToSample(seconds float64) int {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	idx := math.Round(seconds * float64(b.SampleRate))
	if idx >= float64(len(b.Samples)) {
		return len(b.Samples)
	}
	return int(idx)
}

// SampleToTime converts a sample index to seconds.
func (b *Buffer) SampleToTime(index int) float64 {
	if b.SampleRate == 0 {
		return 0
	}
	return float64(index) / float64(b.SampleRate)
}

// MillisToSamples converts a millisecond length to a sample count at the
// buffer's rate, truncating.
func (b *Buffer) MillisToSamples(ms uint32) int {
	return int(float64(ms) / 1000.0 * float64(b.SampleRate))
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	samples := make([]float32, len(b.Samples))
	copy(samples, b.Samples)
	return &Buffer{Samples: samples, SampleRate: b.SampleRate}
}
