package waveform

import (
	"context"
	"log/slog"

	"github.com/maauso/recut/internal/audio"
)

// Loader decodes a file into a Buffer. *audio.Processor implements it.
type Loader interface {
	Load(ctx context.Context, path string) (*audio.Buffer, error)
}

var _ Loader = (*audio.Processor)(nil)

// Generator loads files and produces Data, consulting a Cache when one
// is configured.
type Generator struct {
	loader Loader
	cache  *Cache
	logger *slog.Logger
}

// GeneratorOption is a function that configures a Generator.
type GeneratorOption func(*Generator)

// WithCache enables caching.
func WithCache(c *Cache) GeneratorOption {
	return func(g *Generator) {
		g.cache = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = l
	}
}

// NewGenerator creates a Generator.
func NewGenerator(loader Loader, opts ...GeneratorOption) *Generator {
	g := &Generator{loader: loader}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Generate returns peaks for path at res. Cache failures are logged and
// otherwise ignored.
func (g *Generator) Generate(ctx context.Context, path string, res Resolution) (*Data, error) {
	var key string
	if g.cache != nil {
		k, err := g.cache.Key(ctx, path)
		if err != nil {
			g.logger.Debug("waveform cache key failed", slog.String("path", path), slog.String("error", err.Error()))
		} else {
			key = k
			data, ok, err := g.cache.Get(ctx, key, res)
			switch {
			case err != nil:
				g.logger.Warn("waveform cache read failed", slog.String("path", path), slog.String("error", err.Error()))
			case ok:
				g.logger.Debug("waveform loaded from cache", slog.String("path", path), slog.String("resolution", string(res)))
				return data, nil
			}
		}
	}

	buf, err := g.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	data := Generate(buf, res)

	g.logger.Info("waveform generated",
		slog.String("path", path),
		slog.String("resolution", string(res)),
		slog.Int("peaks", len(data.Peaks)),
	)

	if key != "" {
		if err := g.cache.Put(ctx, key, data); err != nil {
			g.logger.Warn("waveform cache write failed", slog.String("path", path), slog.String("error", err.Error()))
		}
	}
	return data, nil
}

// Invalidate drops every cached resolution for path.
func (g *Generator) Invalidate(ctx context.Context, path string) error {
	if g.cache == nil {
		return nil
	}
	key, err := g.cache.Key(ctx, path)
	if err != nil {
		return err
	}
	return g.cache.Invalidate(ctx, key)
}
