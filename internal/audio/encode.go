package audio

import (
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVE format tags.
const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
)

// Supported output bit depths. 32 is written as IEEE float.
const (
	Bits16 = 16
	Bits24 = 24
	Bits32 = 32
)

// DefaultBitDepth is the output depth used when none is configured.
const DefaultBitDepth = Bits24

// ValidBitDepth reports whether bits is a supported output depth.
func ValidBitDepth(bits int) bool {
	return bits == Bits16 || bits == Bits24 || bits == Bits32
}

// Encode writes buf as a mono WAV file. Integer depths scale by
// 2^(bits-1) and clamp to the signed range; 32 bits is written as float.
func Encode(w io.WriteSeeker, buf *Buffer, bits int) error {
	if !ValidBitDepth(bits) {
		return fmt.Errorf("%w: %d-bit output", ErrUnsupportedFormat, bits)
	}
	if buf.SampleRate == 0 {
		return fmt.Errorf("%w: zero sample rate", ErrUnsupportedFormat)
	}

	format := wavFormatPCM
	if bits == Bits32 {
		format = wavFormatFloat
	}

	data := make([]int, len(buf.Samples))
	if bits == Bits32 {
		for i, s := range buf.Samples {
			data[i] = int(math.Float32bits(s))
		}
	} else {
		full := float64(int64(1) << (bits - 1))
		for i, s := range buf.Samples {
			data[i] = quantize(s, full)
		}
	}

	enc := wav.NewEncoder(w, int(buf.SampleRate), bits, 1, format)
	ib := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: int(buf.SampleRate)},
		Data:           data,
		SourceBitDepth: bits,
	}
	if err := enc.Write(ib); err != nil {
		return fmt.Errorf("%w: wav encode: %w", ErrIO, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: wav finalize: %w", ErrIO, err)
	}
	return nil
}

// quantize maps s onto [-full, full-1], truncating toward zero.
func quantize(s float32, full float64) int {
	if math.IsNaN(float64(s)) {
		return 0
	}
	v := math.Trunc(float64(s) * full)
	switch {
	case v > full-1:
		return int(full - 1)
	case v < -full:
		return int(-full)
	default:
		return int(v)
	}
}
