package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"
)

// pcm is decoded interleaved audio at its native layout.
type pcm struct {
	samples    []float32
	channels   int
	sampleRate uint32
	bitDepth   int
}

// frames returns the number of sample frames.
func (p *pcm) frames() int {
	if p.channels < 1 {
		return 0
	}
	return len(p.samples) / p.channels
}

// mono averages channels into a single track.
func (p *pcm) mono() []float32 {
	return downmix(p.samples, p.channels)
}

// Codec names the decoder used for a file extension.
type Codec string

// Supported codecs.
const (
	CodecWAV    Codec = "wav"
	CodecMP3    Codec = "mp3"
	CodecFLAC   Codec = "flac"
	CodecFFmpeg Codec = "ffmpeg"
)

// CodecFor maps a path's extension to the decoder that handles it.
func CodecFor(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return CodecWAV, nil
	case ".mp3":
		return CodecMP3, nil
	case ".flac":
		return CodecFLAC, nil
	case ".m4a", ".aac", ".ogg", ".opus":
		return CodecFFmpeg, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// decodeWAV reads a RIFF/WAVE stream holding integer PCM or 32-bit float.
func decodeWAV(r io.ReadSeeker) (*pcm, error) {
	dec := wav.NewDecoder(r)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: wav: %w", ErrDecode, err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: wav: missing format chunk", ErrDecode)
	}

	bits := int(dec.BitDepth)
	isFloat := dec.WavAudioFormat == wavFormatFloat

	samples := make([]float32, len(buf.Data))
	switch {
	case isFloat && bits == 32:
		for i, v := range buf.Data {
			samples[i] = math.Float32frombits(uint32(v))
		}
	case isFloat:
		return nil, fmt.Errorf("%w: wav: %d-bit float", ErrUnsupportedFormat, bits)
	case bits == 8:
		for i, v := range buf.Data {
			samples[i] = float32(v-128) / 128
		}
	case bits == 16 || bits == 24 || bits == 32:
		scale := float32(int64(1) << (bits - 1))
		for i, v := range buf.Data {
			samples[i] = float32(v) / scale
		}
	default:
		return nil, fmt.Errorf("%w: wav: %d-bit pcm", ErrUnsupportedFormat, bits)
	}

	return &pcm{
		samples:    samples,
		channels:   buf.Format.NumChannels,
		sampleRate: uint32(buf.Format.SampleRate),
		bitDepth:   bits,
	}, nil
}

// decodeMP3 reads an MPEG-1/2 Layer III stream. The decoder always yields
// 16-bit little-endian stereo.
func decodeMP3(r io.Reader) (*pcm, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: mp3: %w", ErrDecode, err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: mp3: %w", ErrDecode, err)
	}

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = float32(v) / 32768
	}

	return &pcm{
		samples:    samples,
		channels:   2,
		sampleRate: uint32(dec.SampleRate()),
		bitDepth:   16,
	}, nil
}

// decodeFLAC reads every frame of a FLAC stream.
func decodeFLAC(r io.Reader) (*pcm, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: flac: %w", ErrDecode, err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	bits := int(info.BitsPerSample)
	if channels < 1 || bits < 1 || info.SampleRate == 0 {
		return nil, fmt.Errorf("%w: flac: invalid stream info", ErrDecode)
	}
	scale := float32(int64(1) << (bits - 1))

	samples := make([]float32, 0, int(info.NSamples)*channels)
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: flac: %w", ErrDecode, err)
		}
		if len(frame.Subframes) < channels {
			return nil, fmt.Errorf("%w: flac: frame has %d subframes, want %d",
				ErrDecode, len(frame.Subframes), channels)
		}
		for i := 0; i < int(frame.BlockSize); i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, float32(frame.Subframes[ch].Samples[i])/scale)
			}
		}
	}

	return &pcm{
		samples:    samples,
		channels:   channels,
		sampleRate: info.SampleRate,
		bitDepth:   bits,
	}, nil
}

// decodeFile opens path and runs the in-process decoder for codec.
func decodeFile(path string, codec Codec) (*pcm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
	}

	r := bytes.NewReader(data)
	switch codec {
	case CodecWAV:
		return decodeWAV(r)
	case CodecMP3:
		return decodeMP3(r)
	case CodecFLAC:
		return decodeFLAC(r)
	default:
		return nil, fmt.Errorf("%w: no in-process decoder for %s", ErrUnsupportedFormat, codec)
	}
}
