// Package clip turns clip boundaries and layer templates into resolved clips.
package clip

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/beatcut/pkg/errors"
	"github.com/matzehuels/beatcut/pkg/layer"
	"github.com/matzehuels/beatcut/pkg/observability"
	"github.com/matzehuels/beatcut/pkg/spec"
)

const (
	// FinDuration is the length of the closing "Fin." clip in seconds.
	FinDuration = 5.0

	// LabelFormat renders a clip's cut range for beat-mode label layers.
	LabelFormat = "%.2f ~ %.2f"
)

// Compiler expands layer templates into concrete layers.
type Compiler interface {
	CompileAll(ctx context.Context, tmpls []layer.Layer) ([]layer.Layer, error)
}

// Assembler builds clips from boundaries by compiling each clip's templates.
type Assembler struct {
	compiler Compiler
	trailer  *spec.Clip
	mode     string
	logger   *log.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithTrailer appends c after the last boundary clip. Its layers are used as
// given, without compilation.
func WithTrailer(c spec.Clip) Option {
	return func(a *Assembler) {
		c.Layers = layer.CloneAll(c.Layers)
		a.trailer = &c
	}
}

// WithMode names the assembly mode reported to observability hooks.
func WithMode(mode string) Option {
	return func(a *Assembler) { a.mode = mode }
}

// WithLogger sets the assembler's logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Assembler) { a.logger = l }
}

// NewAssembler returns an assembler compiling templates with c.
func NewAssembler(c Compiler, opts ...Option) *Assembler {
	a := &Assembler{compiler: c, mode: "explicit"}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return a
}

// Assemble returns one clip per adjacent boundary pair, plus the trailer if
// one is configured. Clip i lasts boundaries[i+1]-boundaries[i] seconds and
// holds the compiled templates[i] in order.
//
// templates must have exactly one entry per clip and boundaries must not
// decrease; otherwise the error has code INVALID_INPUT.
func (a *Assembler) Assemble(ctx context.Context, boundaries []float64, templates [][]layer.Layer) (clips []spec.Clip, err error) {
	if err := ValidateBoundaries(boundaries); err != nil {
		return nil, err
	}
	n := len(boundaries) - 1
	if len(templates) != n {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"%d boundaries need %d clip templates, got %d", len(boundaries), n, len(templates))
	}

	start := time.Now()
	observability.Pipeline().OnAssembleStart(ctx, a.mode, n)
	defer func() {
		layers := 0
		for _, c := range clips {
			layers += len(c.Layers)
		}
		observability.Pipeline().OnAssembleComplete(ctx, a.mode, len(clips), layers, time.Since(start), err)
	}()

	clips = make([]spec.Clip, 0, n+1)
	for i := range n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		layers, err := a.compiler.CompileAll(ctx, templates[i])
		if err != nil {
			return nil, fmt.Errorf("clip %d: %w", i, err)
		}
		clips = append(clips, spec.Clip{
			Duration: boundaries[i+1] - boundaries[i],
			Layers:   layers,
		})
		a.logger.Debug("assembled clip", "index", i, "from", boundaries[i], "to", boundaries[i+1], "layers", len(layers))
	}

	if a.trailer != nil {
		clips = append(clips, spec.Clip{
			Duration: a.trailer.Duration,
			Layers:   layer.CloneAll(a.trailer.Layers),
		})
	}
	return clips, nil
}

// ValidateBoundaries checks that there are at least two finite boundaries
// and that they never decrease.
func ValidateBoundaries(boundaries []float64) error {
	if len(boundaries) < 2 {
		return errors.New(errors.ErrCodeInvalidInput, "need at least 2 clip boundaries, got %d", len(boundaries))
	}
	for i, b := range boundaries {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "clip boundary %d is not a finite number (%g)", i, b)
		}
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] < boundaries[i-1] {
			return errors.New(errors.ErrCodeInvalidInput,
				"clip boundary %d (%g) is before boundary %d (%g)", i, boundaries[i], i-1, boundaries[i-1])
		}
	}
	return nil
}

// FinClip returns the closing clip used in beat mode.
func FinClip() spec.Clip {
	return spec.Clip{
		Duration: FinDuration,
		Layers:   []layer.Layer{{"type": layer.TypeTitleBackground, "text": "Fin."}},
	}
}

// RepeatTemplates returns n independent copies of tmpl, one per clip.
func RepeatTemplates(tmpl []layer.Layer, n int) [][]layer.Layer {
	out := make([][]layer.Layer, n)
	for i := range out {
		out[i] = layer.CloneAll(tmpl)
	}
	return out
}

// LabelTemplates returns, for each clip, a title-background layer showing
// the clip's cut range.
func LabelTemplates(boundaries []float64) [][]layer.Layer {
	if len(boundaries) < 2 {
		return nil
	}
	out := make([][]layer.Layer, len(boundaries)-1)
	for i := range out {
		out[i] = []layer.Layer{{
			"type": layer.TypeTitleBackground,
			"text": fmt.Sprintf(LabelFormat, boundaries[i], boundaries[i+1]),
		}}
	}
	return out
}
