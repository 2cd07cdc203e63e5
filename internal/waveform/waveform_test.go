package waveform

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/recut/internal/audio"
	"github.com/maauso/recut/internal/storage"
)

func TestPeakCount(t *testing.T) {
	tests := []struct {
		res  Resolution
		n    int
		want int
	}{
		{Thumbnail, 48000, 256},
		{Standard, 48000, 2048},
		{High, 48000, 8192},
		{Full, 48000, 32768},
		{Full, 1000, 1000},
		{Thumbnail, 100, 100},
		{Standard, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.res.PeakCount(tt.n), "%s with %d samples", tt.res, tt.n)
	}
}

func TestParseResolution(t *testing.T) {
	for _, name := range []string{"thumbnail", "standard", "high", "full"} {
		res, err := ParseResolution(name)
		require.NoError(t, err)
		assert.Equal(t, Resolution(name), res)
	}

	res, err := ParseResolution("thumb")
	require.NoError(t, err)
	assert.Equal(t, Thumbnail, res)

	_, err = ParseResolution("ultra")
	assert.ErrorIs(t, err, ErrUnknownResolution)
}

func TestPeaks(t *testing.T) {
	samples := make([]float32, 1024)
	// one loud sample in bucket 3 of 256 (4 samples per bucket)
	samples[13] = -0.75
	samples[500] = 1.5
	buf := audio.NewBuffer(samples, 48000)

	peaks := Peaks(buf, Thumbnail)

	require.Len(t, peaks, 256)
	assert.InDelta(t, 0.75, peaks[3], 1e-6)
	assert.InDelta(t, 1.0, peaks[125], 1e-6, "peaks are clamped to 1")
	for i, p := range peaks {
		assert.GreaterOrEqual(t, p, float32(0), "peak %d", i)
		assert.LessOrEqual(t, p, float32(1), "peak %d", i)
	}
}

func TestPeaks_Empty(t *testing.T) {
	peaks := Peaks(audio.NewBuffer(nil, 48000), Standard)
	assert.NotNil(t, peaks)
	assert.Empty(t, peaks)
}

func TestGenerate(t *testing.T) {
	buf := audio.NewBuffer(make([]float32, 96000), 48000)

	data := Generate(buf, High)

	assert.Len(t, data.Peaks, 8192)
	assert.InDelta(t, 2.0, data.Duration, 1e-9)
	assert.Equal(t, High, data.Resolution)
	assert.Equal(t, uint32(48000), data.SampleRate)
}

func TestCache_PutGetInvalidate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cache := NewCache(filepath.Join(dir, "waveforms"), storage.NewLocalStorage())

	_, ok, err := cache.Get(ctx, "abc", Thumbnail)
	require.NoError(t, err)
	assert.False(t, ok)

	data := &Data{Peaks: []float32{0, 0.5, 1}, Duration: 3, Resolution: Thumbnail, SampleRate: 48000}
	require.NoError(t, cache.Put(ctx, "abc", data))
	require.NoError(t, cache.Put(ctx, "abc", &Data{Peaks: []float32{0.25}, Resolution: Full, SampleRate: 48000}))

	assert.FileExists(t, filepath.Join(cache.Dir(), "abc_thumbnail.json"))

	got, ok, err := cache.Get(ctx, "abc", Thumbnail)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, data, got)

	require.NoError(t, cache.Invalidate(ctx, "abc"))

	for _, res := range []Resolution{Thumbnail, Full} {
		_, ok, err = cache.Get(ctx, "abc", res)
		require.NoError(t, err)
		assert.False(t, ok, "resolution %s should be invalidated", res)
	}
}

func TestCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(t.TempDir(), nil)

	require.NoError(t, os.WriteFile(filepath.Join(cache.Dir(), "bad_standard.json"), []byte("{"), 0o600))

	_, _, err := cache.Get(ctx, "bad", Standard)
	assert.ErrorIs(t, err, ErrCache)
}

func TestCache_Key(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cache := NewCache(filepath.Join(dir, "cache"), nil)

	a := filepath.Join(dir, "a.wav")
	b := filepath.Join(dir, "b.wav")
	require.NoError(t, os.WriteFile(a, []byte("same bytes"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("same bytes"), 0o600))

	ka, err := cache.Key(ctx, a)
	require.NoError(t, err)
	kb, err := cache.Key(ctx, b)
	require.NoError(t, err)

	assert.Len(t, ka, 64)
	assert.Equal(t, ka, kb, "identical content shares a key")

	require.NoError(t, os.WriteFile(b, []byte("other bytes"), 0o600))
	kb, err = cache.Key(ctx, b)
	require.NoError(t, err)
	assert.NotEqual(t, ka, kb)

	_, err = cache.Key(ctx, filepath.Join(dir, "missing.wav"))
	assert.Error(t, err)
}

func TestCache_Clear(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(filepath.Join(t.TempDir(), "waveforms"), nil)
	require.NoError(t, cache.Put(ctx, "k", &Data{Resolution: High}))

	require.NoError(t, cache.Clear())
	assert.NoDirExists(t, cache.Dir())
}

type countingLoader struct {
	calls int
	buf   *audio.Buffer
	err   error
}

func (l *countingLoader) Load(context.Context, string) (*audio.Buffer, error) {
	l.calls++
	return l.buf, l.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerator_UsesCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := filepath.Join(dir, "episode.wav")
	require.NoError(t, os.WriteFile(src, []byte("not decoded by the fake loader"), 0o600))

	samples := make([]float32, 4800)
	samples[0] = 0.5
	loader := &countingLoader{buf: audio.NewBuffer(samples, 48000)}
	gen := NewGenerator(loader,
		WithCache(NewCache(filepath.Join(dir, "cache"), nil)),
		WithLogger(quietLogger()),
	)

	first, err := gen.Generate(ctx, src, Thumbnail)
	require.NoError(t, err)
	second, err := gen.Generate(ctx, src, Thumbnail)
	require.NoError(t, err)

	assert.Equal(t, 1, loader.calls, "second call should hit the cache")
	assert.Equal(t, first, second)
	assert.InDelta(t, 0.5, second.Peaks[0], 1e-6)

	require.NoError(t, gen.Invalidate(ctx, src))
	_, err = gen.Generate(ctx, src, Thumbnail)
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls, "invalidated entry should be regenerated")
}

func TestGenerator_NoCache(t *testing.T) {
	loader := &countingLoader{buf: audio.NewBuffer(make([]float32, 10), 48000)}
	gen := NewGenerator(loader, WithLogger(quietLogger()))

	for range 2 {
		data, err := gen.Generate(context.Background(), "unused.wav", Full)
		require.NoError(t, err)
		assert.Len(t, data.Peaks, 10)
	}
	assert.Equal(t, 2, loader.calls)
	assert.NoError(t, gen.Invalidate(context.Background(), "unused.wav"))
}

func TestGenerator_LoadError(t *testing.T) {
	loadErr := errors.New("decode failed")
	gen := NewGenerator(&countingLoader{err: loadErr}, WithLogger(quietLogger()))

	_, err := gen.Generate(context.Background(), "x.wav", Standard)
	assert.ErrorIs(t, err, loadErr)
}
