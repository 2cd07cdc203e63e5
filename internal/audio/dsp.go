package audio

import "math"

// FindZeroCrossing searches samples[target-radius : target+radius] (clamped
// to the buffer) for the index i closest to target where samples[i] and
// samples[i+1] differ in sign or one of them is zero. When the window holds
// no crossing it returns the index of the quietest sample in the window,
// preferring the one nearest target on ties.
//
// The result is always within [0, len(samples)-1]; an empty slice yields 0.
func FindZeroCrossing(samples []float32, target, radius int) int {
	n := len(samples)
	if n == 0 {
		return 0
	}
	if target < 0 {
		target = 0
	}
	if radius < 0 {
		radius = 0
	}

	last := n - 1
	lo := min(max(target-radius, 0), last)
	hi := min(target+radius, last)

	best := min(target, last)
	bestDist := -1
	for i := lo; i <= hi && i+1 < n; i++ {
		if samples[i]*samples[i+1] > 0 {
			continue
		}
		dist := i - target
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	if bestDist >= 0 {
		return best
	}

	quietest := float32(math.MaxFloat32)
	for i := lo; i <= hi; i++ {
		v := samples[i]
		if v < 0 {
			v = -v
		}
		dist := i - target
		if dist < 0 {
			dist = -dist
		}
		if v < quietest || (v == quietest && dist < bestDist) {
			quietest = v
			best = i
			bestDist = dist
		}
	}
	return best
}

// Crossfade joins a and b, blending the last fadeLen samples of a with the
// first fadeLen samples of b using a linear (equal-gain) ramp. fadeLen is
// capped at the length of either segment. Neither input is modified.
//
// len(result) == len(a) + len(b) - min(fadeLen, len(a), len(b)), and a zero
// fadeLen or an empty segment yields plain concatenation.
func Crossfade(a, b []float32, fadeLen int) []float32 {
	out := make([]float32, len(a), len(a)+len(b))
	copy(out, a)
	return AppendCrossfade(out, b, fadeLen)
}

// AppendCrossfade is Crossfade writing into dst: the tail of dst is blended
// in place and the rest of b is appended. It lets a renderer join many
// segments without copying the accumulated output on every join.
func AppendCrossfade(dst, b []float32, fadeLen int) []float32 {
	if fadeLen <= 0 || len(dst) == 0 || len(b) == 0 {
		return append(dst, b...)
	}

	n := min(fadeLen, len(dst), len(b))
	off := len(dst) - n
	for i := 0; i < n; i++ {
		t := float32(i) / float32(n)
		dst[off+i] = dst[off+i]*(1-t) + b[i]*t
	}
	return append(dst, b[n:]...)
}

// downmix averages interleaved frames into one channel.
func downmix(interleaved []float32, channels int) []float32 {
	if channels <= 1 {
		return interleaved
	}
	frames := len(interleaved) / channels
	mono := make([]float32, frames)
	for f := 0; f < frames; f++ {
		var sum float32
		frame := interleaved[f*channels : (f+1)*channels]
		for _, v := range frame {
			sum += v
		}
		mono[f] = sum / float32(channels)
	}
	return mono
}
