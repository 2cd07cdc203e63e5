package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
)

// FFmpegDecoder decodes containers the in-process codecs do not cover
// (M4A, AAC, OGG, OPUS) by running the ffmpeg and ffprobe binaries.
type FFmpegDecoder struct {
	ffmpegPath  string
	ffprobePath string
}

// NewFFmpegDecoder creates a new FFmpegDecoder.
// Empty paths default to "ffmpeg" and "ffprobe" (found in PATH).
func NewFFmpegDecoder(ffmpegPath, ffprobePath string) *FFmpegDecoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpegDecoder{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// probeResult mirrors the subset of `ffprobe -of json` output we read.
type probeResult struct {
	Streams []struct {
		CodecType     string `json:"codec_type"`
		SampleRate    string `json:"sample_rate"`
		Channels      int    `json:"channels"`
		BitsPerSample string `json:"bits_per_raw_sample"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe returns the native stream layout of the first audio stream.
func (d *FFmpegDecoder) Probe(ctx context.Context, path string) (*Info, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_type,sample_rate,channels,bits_per_raw_sample:format=duration",
		"-of", "json",
		path,
	}
	stdout, err := d.run(ctx, d.ffprobePath, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	var res probeResult
	if err := json.Unmarshal(stdout, &res); err != nil {
		return nil, fmt.Errorf("%w: parse ffprobe output: %w", ErrDecode, err)
	}
	if len(res.Streams) == 0 {
		return nil, fmt.Errorf("%w: no audio stream in %s", ErrDecode, path)
	}

	stream := res.Streams[0]
	rate, err := strconv.ParseUint(stream.SampleRate, 10, 32)
	if err != nil || rate == 0 || stream.Channels < 1 {
		return nil, fmt.Errorf("%w: invalid stream layout in %s (rate=%q channels=%d)",
			ErrDecode, path, stream.SampleRate, stream.Channels)
	}
	duration, _ := strconv.ParseFloat(res.Format.Duration, 64)

	bits, _ := strconv.Atoi(stream.BitsPerSample)
	if bits <= 0 {
		bits = 16
	}

	return &Info{
		Path:          path,
		Duration:      duration,
		SampleRate:    uint32(rate),
		Channels:      stream.Channels,
		BitsPerSample: bits,
	}, nil
}

// Decode returns interleaved float samples at the stream's native rate
// and channel count.
func (d *FFmpegDecoder) Decode(ctx context.Context, path string) (*pcm, error) {
	info, err := d.Probe(ctx, path)
	if err != nil {
		return nil, err
	}

	args := []string{
		"-v", "error",
		"-i", path,
		"-vn",
		"-f", "f32le",
		"-acodec", "pcm_f32le",
		"-",
	}
	raw, err := d.run(ctx, d.ffmpegPath, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	samples := make([]float32, len(raw)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}

	return &pcm{samples: samples, channels: info.Channels, sampleRate: info.SampleRate}, nil
}

// run executes a binary and returns its stdout, or an error containing
// stderr output if the command fails.
func (d *FFmpegDecoder) run(ctx context.Context, bin string, args []string) ([]byte, error) {
	// #nosec G204 - binary paths come from configuration, not user input
	cmd := exec.CommandContext(ctx, bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s cancelled: %w", bin, ctx.Err())
		}
		return nil, &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return stdout.Bytes(), nil
}

// FFmpegError represents an error from running ffmpeg or ffprobe, including
// the stderr output.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}
