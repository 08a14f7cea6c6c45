package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/beatcut/pkg/audio"
	"github.com/matzehuels/beatcut/pkg/beats"
	"github.com/matzehuels/beatcut/pkg/cache"
	"github.com/matzehuels/beatcut/pkg/clip"
	"github.com/matzehuels/beatcut/pkg/config"
	"github.com/matzehuels/beatcut/pkg/layer"
	"github.com/matzehuels/beatcut/pkg/observability"
	"github.com/matzehuels/beatcut/pkg/resource"
	"github.com/matzehuels/beatcut/pkg/spec"
)

// Runner executes the generation pipeline with an image-probe cache.
//
// The Runner keeps no per-run state; each Generate call builds its own
// random generator, picker and compiler.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// plan is the boundary stage output.
type plan struct {
	boundaries []float64
	templates  [][]layer.Layer
	trailer    *spec.Clip
}

// Generate runs the complete boundaries → assemble → build → write pipeline.
func (r *Runner) Generate(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.SetDefaults(); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	logger := opts.Logger

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Seed
	}
	if seed == 0 {
		seed = rand.Uint64()
	}
	logger.Info("generating spec", "mode", cfg.Mode(), "seed", seed)

	result := &Result{Seed: seed, Mode: cfg.Mode()}

	// Stage 1: Boundaries
	p, err := r.plan(cfg)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, r.checkAudio(cfg.BgmPath, p.boundaries)...)
	for _, w := range result.Warnings {
		logger.Warn(w)
	}

	// Stage 2: Assemble
	rng := NewRand(seed)
	compiler, err := r.compiler(cfg, opts, rng)
	if err != nil {
		return nil, err
	}
	asmOpts := []clip.Option{clip.WithMode(string(cfg.Mode())), clip.WithLogger(logger)}
	if p.trailer != nil {
		asmOpts = append(asmOpts, clip.WithTrailer(*p.trailer))
	}

	assembleStart := time.Now()
	clips, err := clip.NewAssembler(compiler, asmOpts...).Assemble(ctx, p.boundaries, p.templates)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	result.Stats.AssembleTime = time.Since(assembleStart)

	// Stage 3: Build
	s := spec.Build(cfg.BaseSpec, cfg.BgmPath, p.boundaries[0], clips, opts.OutPath(cfg))
	result.Spec = s
	result.Stats.Clips = len(s.Clips)
	result.Stats.Layers = s.LayerCount()
	result.Stats.Duration = s.Duration()

	logger.Info("assembled clips",
		"clips", result.Stats.Clips,
		"layers", result.Stats.Layers,
		"seconds", fmt.Sprintf("%.2f", result.Stats.Duration),
		"duration", result.Stats.AssembleTime)

	if opts.DryRun {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 4: Write
	writeStart := time.Now()
	observability.Pipeline().OnWriteStart(ctx, opts.OutDir)
	paths, err := spec.WriteFiles(opts.OutDir, s)
	result.Stats.WriteTime = time.Since(writeStart)
	observability.Pipeline().OnWriteComplete(ctx, paths.All(), result.Stats.WriteTime, err)
	if err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	result.Paths = paths

	logger.Info("wrote spec", "yaml", paths.YAML, "json", paths.JSON)
	return result, nil
}

func (r *Runner) plan(cfg *config.Config) (plan, error) {
	if cfg.Mode() == config.ModeExplicit {
		return plan{
			boundaries: cfg.ExplicitBoundaries(),
			templates:  cfg.ExplicitTemplates(),
		}, nil
	}

	seq, err := beats.Load(cfg.BeatPath)
	if err != nil {
		return plan{}, err
	}
	p := plan{boundaries: seq}
	if len(cfg.BeatLayers) > 0 {
		p.templates = clip.RepeatTemplates(cfg.BeatLayers, len(seq)-1)
	} else {
		p.templates = clip.LabelTemplates(seq)
	}
	if cfg.WantFinClip() {
		fin := clip.FinClip()
		p.trailer = &fin
	}
	return p, nil
}

func (r *Runner) compiler(cfg *config.Config, opts Options, rng *rand.Rand) (*layer.Compiler, error) {
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	policy := cfg.Policy()
	if opts.AllowUnknown {
		policy = layer.UnknownPass
	}

	picker := resource.NewPicker(cfg.RandomImageBaseDir, rng,
		resource.WithExtensions(cfg.ImageExtensions...),
		resource.WithPickerLogger(opts.Logger))
	prober := resource.NewProber(r.Cache, opts.Logger)

	return layer.NewCompiler(rng,
		layer.WithCatalog(catalog),
		layer.WithPicker(picker),
		layer.WithProber(prober),
		layer.WithUnknownPolicy(policy),
		layer.WithNativeTypes(cfg.NativeTypes...),
		layer.WithLogger(opts.Logger),
	), nil
}

// checkAudio warns about clip boundaries past the end of a WAV track. Other
// formats are not decoded and produce no warnings.
func (r *Runner) checkAudio(path string, boundaries []float64) []string {
	if !audio.Supported(path) {
		return nil
	}
	dur, err := audio.Duration(path)
	if err != nil {
		return []string{fmt.Sprintf("could not read audio length: %v", err)}
	}
	if n := beats.Sequence(boundaries).After(dur.Seconds()); n > 0 {
		return []string{fmt.Sprintf("%d cut points fall after the end of the %.2fs audio track", n, dur.Seconds())}
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
