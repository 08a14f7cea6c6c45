package resource

import (
	"context"
	"encoding/json"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/beatcut/pkg/cache"
	"github.com/matzehuels/beatcut/pkg/errors"
	"github.com/matzehuels/beatcut/pkg/observability"
)

const probeKeyType = "probe"

// Prober reads image dimensions from file headers, remembering results in a
// cache keyed by path, size and modification time.
type Prober struct {
	cache  cache.Cache
	logger *log.Logger
}

// NewProber returns a prober backed by c. A nil cache disables caching and a
// nil logger discards log output.
func NewProber(c cache.Cache, logger *log.Logger) *Prober {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Prober{cache: c, logger: logger}
}

type dimensions struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Dimensions returns the pixel width and height of the image at path.
// PNG, JPEG, GIF, BMP, TIFF and WebP are supported. Unreadable or
// undecodable files fail with INVALID_LAYER.
func (p *Prober) Dimensions(ctx context.Context, path string) (int, int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidLayer, err, "image %s", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	key := cache.ProbeKey(abs, info.Size(), info.ModTime())

	if data, hit, err := p.cache.Get(ctx, key); err == nil && hit {
		var d dimensions
		if json.Unmarshal(data, &d) == nil {
			observability.Cache().OnCacheHit(ctx, probeKeyType)
			return d.Width, d.Height, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, probeKeyType)

	d, err := decodeHeader(path)
	if err != nil {
		return 0, 0, err
	}
	p.logger.Debug("probed image", "path", path, "width", d.Width, "height", d.Height, "format", d.Format)

	if data, err := json.Marshal(d); err == nil {
		if err := p.cache.Set(ctx, key, data, 0); err != nil {
			p.logger.Warn("failed to cache image dimensions", "path", path, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, probeKeyType, len(data))
		}
	}
	return d.Width, d.Height, nil
}

func decodeHeader(path string) (dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		return dimensions{}, errors.Wrap(errors.ErrCodeInvalidLayer, err, "open image %s", path)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return dimensions{}, errors.Wrap(errors.ErrCodeInvalidLayer, err, "decode image header %s", path)
	}
	return dimensions{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}
