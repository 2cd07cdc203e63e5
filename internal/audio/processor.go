package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/maauso/recut/internal/storage"
)

// Info describes a file's native layout before normalization.
type Info struct {
	Path          string  `json:"path"`
	Codec         Codec   `json:"codec"`
	Duration      float64 `json:"duration"`
	SampleRate    uint32  `json:"sample_rate"`
	Channels      int     `json:"channels"`
	BitsPerSample int     `json:"bits_per_sample"`
}

// Processor loads files into mono Buffers at a fixed rate and saves
// Buffers as WAV.
type Processor struct {
	sampleRate uint32
	chunk      int
	ffmpeg     *FFmpegDecoder
	store      storage.Storage
	logger     *slog.Logger
}

// ProcessorOption is a function that configures a Processor.
type ProcessorOption func(*Processor)

// WithSampleRate sets the rate every loaded file is resampled to.
func WithSampleRate(rate uint32) ProcessorOption {
	return func(p *Processor) {
		p.sampleRate = rate
	}
}

// WithResampleChunk sets the nominal resampler block length.
func WithResampleChunk(n int) ProcessorOption {
	return func(p *Processor) {
		p.chunk = n
	}
}

// WithFFmpeg sets the decoder used for containers without an in-process
// codec.
func WithFFmpeg(d *FFmpegDecoder) ProcessorOption {
	return func(p *Processor) {
		p.ffmpeg = d
	}
}

// WithStorage sets the storage used for output files.
func WithStorage(s storage.Storage) ProcessorOption {
	return func(p *Processor) {
		p.store = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = l
	}
}

// NewProcessor creates a Processor targeting DefaultSampleRate.
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{
		sampleRate: DefaultSampleRate,
		chunk:      DefaultResampleChunk,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.ffmpeg == nil {
		p.ffmpeg = NewFFmpegDecoder("", "")
	}
	if p.store == nil {
		p.store = storage.NewLocalStorage()
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// SampleRate returns the rate loaded buffers are normalized to.
func (p *Processor) SampleRate() uint32 {
	return p.sampleRate
}

// Load decodes path, mixes it down to mono and resamples it to the
// processor's rate.
func (p *Processor) Load(ctx context.Context, path string) (*Buffer, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	decoded, codec, err := p.decode(ctx, path)
	if err != nil {
		return nil, err
	}

	samples := decoded.mono()
	if decoded.sampleRate != p.sampleRate {
		rs, err := NewResampler(decoded.sampleRate, p.sampleRate, p.chunk)
		if err != nil {
			return nil, err
		}
		samples = rs.Process(samples)
	}

	p.logger.Debug("audio loaded",
		slog.String("path", path),
		slog.String("codec", string(codec)),
		slog.Int("channels", decoded.channels),
		slog.Int("native_rate", int(decoded.sampleRate)),
		slog.Int("samples", len(samples)),
	)

	return NewBuffer(samples, p.sampleRate), nil
}

// Save writes buf to path as a mono WAV at the given bit depth. The file
// only appears at path once it is complete.
func (p *Processor) Save(ctx context.Context, buf *Buffer, path string, bits int) error {
	if !ValidBitDepth(bits) {
		return fmt.Errorf("%w: %d-bit output", ErrUnsupportedFormat, bits)
	}

	err := p.store.WriteAtomic(ctx, path, func(w io.WriteSeeker) error {
		return Encode(w, buf, bits)
	})
	if err != nil {
		if errors.Is(err, ErrIO) || errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	p.logger.Debug("audio saved",
		slog.String("path", path),
		slog.Int("bits", bits),
		slog.Float64("duration", buf.Duration()),
	)
	return nil
}

// Info reports the native layout of path without normalizing it.
func (p *Processor) Info(ctx context.Context, path string) (*Info, error) {
	if err := checkExists(path); err != nil {
		return nil, err
	}
	codec, err := CodecFor(path)
	if err != nil {
		return nil, err
	}
	if codec == CodecFFmpeg {
		info, err := p.ffmpeg.Probe(ctx, path)
		if err != nil {
			return nil, err
		}
		info.Codec = codec
		return info, nil
	}

	decoded, err := decodeFile(path, codec)
	if err != nil {
		return nil, err
	}
	return &Info{
		Path:          path,
		Codec:         codec,
		Duration:      float64(decoded.frames()) / float64(decoded.sampleRate),
		SampleRate:    decoded.sampleRate,
		Channels:      decoded.channels,
		BitsPerSample: decoded.bitDepth,
	}, nil
}

func (p *Processor) decode(ctx context.Context, path string) (*pcm, Codec, error) {
	if err := checkExists(path); err != nil {
		return nil, "", err
	}
	codec, err := CodecFor(path)
	if err != nil {
		return nil, "", err
	}

	var decoded *pcm
	if codec == CodecFFmpeg {
		decoded, err = p.ffmpeg.Decode(ctx, path)
	} else {
		decoded, err = decodeFile(path, codec)
	}
	if err != nil {
		return nil, codec, err
	}
	if decoded.sampleRate == 0 || decoded.channels < 1 {
		return nil, codec, fmt.Errorf("%w: %s has no usable stream", ErrDecode, path)
	}
	return decoded, codec, nil
}

func checkExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("%w: stat %s: %w", ErrIO, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrIO, path)
	}
	return nil
}
