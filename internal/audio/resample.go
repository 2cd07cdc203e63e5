package audio

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// DefaultResampleChunk is the nominal input block length of the resampler.
const DefaultResampleChunk = 1024

// maxResampleBlock bounds the FFT size for rate pairs whose ratio does not
// reduce (e.g. two large coprime rates).
const maxResampleBlock = 1 << 20

// Resampler converts mono audio between two sample rates by transforming
// fixed, non-overlapping blocks to the frequency domain, tapering the band
// edge, and transforming back at the output block length.
//
// Block lengths are exact multiples of the reduced rate ratio, so every
// full input block maps to a whole number of output samples.
type Resampler struct {
	fromRate uint32
	toRate   uint32
	blockIn  int
	blockOut int
	fwd      *fourier.FFT
	inv      *fourier.FFT
	// taper holds the gain for each shared frequency bin; bins past it are dropped.
	taper []float64
}

// NewResampler builds a resampler whose input blocks are the multiple of the
// reduced ratio closest to chunkSize (DefaultResampleChunk when chunkSize <= 0).
func NewResampler(fromRate, toRate uint32, chunkSize int) (*Resampler, error) {
	if fromRate == 0 || toRate == 0 {
		return nil, fmt.Errorf("%w: invalid rates %d -> %d", ErrResample, fromRate, toRate)
	}
	if chunkSize <= 0 {
		chunkSize = DefaultResampleChunk
	}

	g := gcd(fromRate, toRate)
	baseIn := int(fromRate / g)
	baseOut := int(toRate / g)

	k := int(math.Round(float64(chunkSize) / float64(baseIn)))
	if k < 1 {
		k = 1
	}
	blockIn := baseIn * k
	blockOut := baseOut * k
	if blockIn > maxResampleBlock || blockOut > maxResampleBlock {
		return nil, fmt.Errorf("%w: block size %d -> %d too large for %d -> %d Hz",
			ErrResample, blockIn, blockOut, fromRate, toRate)
	}

	return &Resampler{
		fromRate: fromRate,
		toRate:   toRate,
		blockIn:  blockIn,
		blockOut: blockOut,
		fwd:      fourier.NewFFT(blockIn),
		inv:      fourier.NewFFT(blockOut),
		taper:    bandTaper(min(blockIn, blockOut) / 2),
	}, nil
}

// BlockSizes returns the input and output block lengths.
func (r *Resampler) BlockSizes() (in, out int) {
	return r.blockIn, r.blockOut
}

// OutputLen returns the number of samples Process produces for n inputs.
func (r *Resampler) OutputLen(n int) int {
	return int(float64(n) * float64(r.toRate) / float64(r.fromRate))
}

// Process resamples in. The final partial block is zero-padded and the
// output is trimmed to OutputLen(len(in)).
func (r *Resampler) Process(in []float32) []float32 {
	want := r.OutputLen(len(in))
	if len(in) == 0 || want == 0 {
		return []float32{}
	}

	out := make([]float32, 0, want+r.blockOut)
	seq := make([]float64, r.blockIn)
	coeff := make([]complex128, r.blockIn/2+1)
	outCoeff := make([]complex128, r.blockOut/2+1)
	res := make([]float64, r.blockOut)
	scale := 1 / float64(r.blockIn)

	for start := 0; start < len(in) && len(out) < want; start += r.blockIn {
		block := in[start:min(start+r.blockIn, len(in))]
		for i := range seq {
			if i < len(block) {
				seq[i] = float64(block[i])
			} else {
				seq[i] = 0
			}
		}

		coeff = r.fwd.Coefficients(coeff, seq)
		clear(outCoeff)
		for k, gain := range r.taper {
			outCoeff[k] = coeff[k] * complex(gain, 0)
		}
		res = r.inv.Sequence(res, outCoeff)

		for _, v := range res {
			out = append(out, float32(v*scale))
		}
	}

	if len(out) > want {
		out = out[:want]
	}
	return out
}

// bandTaper returns unity gain for the lower 90% of n bins and a raised
// cosine roll-off over the rest, so nothing is passed at the Nyquist bin of
// the smaller block.
func bandTaper(n int) []float64 {
	if n < 1 {
		n = 1
	}
	taper := make([]float64, n)
	start := n - n/10
	if start >= n {
		start = n - 1
	}
	for k := range taper {
		if k < start || k == 0 {
			taper[k] = 1
			continue
		}
		x := float64(k-start) / float64(n-start)
		taper[k] = 0.5 * (1 + math.Cos(math.Pi*x))
	}
	return taper
}

func gcd(a, b uint32) uint32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
