package layer

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/beatcut/pkg/errors"
	"github.com/matzehuels/beatcut/pkg/observability"
)

// DefaultMaxDepth bounds random-layer nesting. Validated catalogs never
// nest, so hitting the limit means a catalog was built around validation.
const DefaultMaxDepth = 8

// Picker chooses a resource path for RandomSentinel.
type Picker interface {
	Pick(ctx context.Context) (string, error)
}

// Prober reports the pixel dimensions of an image file.
type Prober interface {
	Dimensions(ctx context.Context, path string) (width, height int, err error)
}

// Compiler expands layer templates into native layers.
// A Compiler is not safe for concurrent use: it draws from one rng.
type Compiler struct {
	rng      *rand.Rand
	catalog  *Catalog
	picker   Picker
	prober   Prober
	policy   UnknownPolicy
	native   map[string]bool
	maxDepth int
	logger   *log.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithCatalog sets the sample catalog used by random-layer.
func WithCatalog(c *Catalog) Option {
	return func(cp *Compiler) { cp.catalog = c }
}

// WithPicker sets the resource picker used for RandomSentinel paths.
func WithPicker(p Picker) Option {
	return func(cp *Compiler) { cp.picker = p }
}

// WithProber sets the image prober used to size overlays.
func WithProber(p Prober) Option {
	return func(cp *Compiler) { cp.prober = p }
}

// WithUnknownPolicy sets how unknown layer types are handled.
func WithUnknownPolicy(p UnknownPolicy) Option {
	return func(cp *Compiler) { cp.policy = p }
}

// WithNativeTypes adds renderer-native types on top of the built-in vocabulary.
func WithNativeTypes(types ...string) Option {
	return func(cp *Compiler) {
		for _, t := range types {
			cp.native[t] = true
		}
	}
}

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(cp *Compiler) { cp.maxDepth = n }
}

// WithLogger sets the logger for expansion events.
func WithLogger(l *log.Logger) Option {
	return func(cp *Compiler) { cp.logger = l }
}

// NewCompiler returns a compiler drawing all random choices from rng.
// Without WithCatalog it uses DefaultCatalog.
func NewCompiler(rng *rand.Rand, opts ...Option) *Compiler {
	c := &Compiler{
		rng:      rng,
		catalog:  DefaultCatalog(),
		native:   make(map[string]bool),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return c
}

// Compile expands tmpl into zero or more native layers. tmpl is not modified
// and no returned layer shares memory with it or with the catalog.
func (c *Compiler) Compile(ctx context.Context, tmpl Layer) ([]Layer, error) {
	return c.compile(ctx, tmpl, 0)
}

// CompileAll compiles each template in order and concatenates the results.
func (c *Compiler) CompileAll(ctx context.Context, tmpls []Layer) ([]Layer, error) {
	out := make([]Layer, 0, len(tmpls))
	for i, t := range tmpls {
		ls, err := c.Compile(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		out = append(out, ls...)
	}
	return out, nil
}

func (c *Compiler) compile(ctx context.Context, tmpl Layer, depth int) ([]Layer, error) {
	if depth > c.maxDepth {
		return nil, errors.New(errors.ErrCodeRecursionLimit, "layer expansion deeper than %d", c.maxDepth)
	}

	l := tmpl.Clone()
	typ, ok := l["type"].(string)
	if !ok || typ == "" {
		return nil, errors.New(errors.ErrCodeInvalidLayer, "layer has no type: %v", tmpl)
	}

	var (
		out []Layer
		err error
	)
	kind := classify(typ, c.native)
	switch kind {
	case KindRandomLayer:
		out, err = c.expandRandom(ctx, depth)
	case KindRandomPhoto:
		l["type"] = TypeImage
		l["path"] = RandomSentinel
		out, err = c.single(ctx, l)
	case KindGradient:
		choice := TypeLinearGradient
		if c.rng.IntN(2) == 1 {
			choice = TypeRadialGradient
		}
		out = []Layer{{"type": choice}}
	case KindOverlayLeft:
		out, err = c.overlay(ctx, l, PositionCenterLeft)
	case KindOverlayRight:
		out, err = c.overlay(ctx, l, PositionCenterRight)
	case KindNative:
		out, err = c.single(ctx, l)
	default:
		if c.policy != UnknownPass {
			return nil, errors.New(errors.ErrCodeUnsupportedLayer, "unsupported layer type: %q", typ)
		}
		c.logger.Warn("passing through unknown layer type", "type", typ)
		out, err = c.single(ctx, l)
	}
	if err != nil {
		return nil, err
	}

	if kind != KindNative {
		c.logger.Debug("expanded layer", "type", typ, "layers", len(out))
	}
	observability.Layer().OnExpand(ctx, typ, len(out))
	return out, nil
}

func (c *Compiler) expandRandom(ctx context.Context, depth int) ([]Layer, error) {
	n := c.catalog.Len()
	if n == 0 {
		return nil, errors.New(errors.ErrCodeConfiguration, "sample layer catalog is empty")
	}
	idx := c.rng.IntN(n)
	c.logger.Debug("drew sample layers", "entry", idx)

	var out []Layer
	for _, sub := range c.catalog.Entry(idx) {
		ls, err := c.compile(ctx, sub, depth+1)
		if err != nil {
			return nil, fmt.Errorf("sample layer %d: %w", idx, err)
		}
		out = append(out, ls...)
	}
	return out, nil
}

func (c *Compiler) single(ctx context.Context, l Layer) ([]Layer, error) {
	if err := c.resolvePath(ctx, l); err != nil {
		return nil, err
	}
	return []Layer{l}, nil
}

func (c *Compiler) overlay(ctx context.Context, l Layer, position string) ([]Layer, error) {
	src := l.Type()
	l["type"] = TypeImageOverlay
	l["position"] = position

	if p, ok := l.Path(); !ok || p == "" {
		return nil, errors.New(errors.ErrCodeInvalidLayer, "%s requires a path", src)
	}
	if err := c.resolvePath(ctx, l); err != nil {
		return nil, err
	}
	if c.prober == nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "%s needs an image prober", src)
	}

	path, _ := l.Path()
	w, h, err := c.prober.Dimensions(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	if w < h {
		l["height"] = PortraitHeight
		delete(l, "width")
	} else {
		l["width"] = LandscapeWidth
		delete(l, "height")
	}
	return []Layer{l}, nil
}

// resolvePath replaces a sentinel path on image and image-overlay layers.
func (c *Compiler) resolvePath(ctx context.Context, l Layer) error {
	switch l.Type() {
	case TypeImage, TypeImageOverlay:
	default:
		return nil
	}
	if p, ok := l.Path(); !ok || p != RandomSentinel {
		return nil
	}
	if c.picker == nil {
		return errors.New(errors.ErrCodeConfiguration, "%s path is %s but no image directory is configured", l.Type(), RandomSentinel)
	}
	p, err := c.picker.Pick(ctx)
	if err != nil {
		return err
	}
	l["path"] = p
	return nil
}
