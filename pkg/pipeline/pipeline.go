// Package pipeline provides the spec generation pipeline for beatcut.
//
// This package ties configuration, beat loading, layer compilation and spec
// writing together so the CLI (and tests) run exactly the same steps.
//
// # Architecture
//
// One run has four stages:
//
//  1. Boundaries: read the beat file, or collect explicit cut points
//  2. Assemble: compile every clip's layer templates into concrete layers
//  3. Build: merge clips, audio track and output path into a Spec
//  4. Write: store spec.yml and spec.json atomically
//
// All randomness flows from one seeded generator, so a fixed seed with the
// same inputs reproduces the same document.
//
// # Usage
//
//	cfg, err := config.Load("gen.toml")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(cache, logger)
//	result, err := runner.Generate(ctx, cfg, pipeline.Options{OutDir: "."})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Paths.YAML, result.Seed)
package pipeline

import (
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/beatcut/pkg/config"
	"github.com/matzehuels/beatcut/pkg/spec"
)

// seedMix derives the second PCG word from the seed.
const seedMix = 0xdeadbeef

// NewRand returns the generator used for a run with the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^seedMix))
}

// Options contains the per-run settings that are not part of the
// configuration file.
type Options struct {
	// Seed overrides the configured seed when non-zero. When both are zero a
	// fresh seed is drawn and reported in Result.Seed.
	Seed uint64

	// OutDir is where spec.yml and spec.json are written (default: cwd).
	OutDir string

	// WorkDir is the directory the rendered video's outPath points into
	// (default: cwd).
	WorkDir string

	// AllowUnknown passes unknown layer types through regardless of the
	// configured policy.
	AllowUnknown bool

	// DryRun builds the spec without writing any file.
	DryRun bool

	// Logger receives progress output. Defaults to the runner's logger.
	Logger *log.Logger
}

// SetDefaults fills empty directories with the working directory.
func (o *Options) SetDefaults() error {
	if o.OutDir == "" || o.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		if o.OutDir == "" {
			o.OutDir = wd
		}
		if o.WorkDir == "" {
			o.WorkDir = wd
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// OutPath returns the absolute path of the rendered video.
func (o *Options) OutPath(cfg *config.Config) string {
	p := filepath.Join(o.WorkDir, cfg.OutputName)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Spec is the assembled document.
	Spec *spec.Spec

	// Paths lists the written files. Empty for dry runs.
	Paths spec.Paths

	// Seed is the seed actually used.
	Seed uint64

	// Mode is the boundary source of the run.
	Mode config.Mode

	// Warnings are non-fatal problems worth showing to the user.
	Warnings []string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Clips        int
	Layers       int
	Duration     float64
	AssembleTime time.Duration
	WriteTime    time.Duration
}
