// Package pkg provides the core libraries for beatcut edit-spec generation.
//
// # Overview
//
// beatcut turns a music track's beat timings and a set of reusable layer
// templates into a declarative edit spec for an editly-style renderer. The
// pkg directory is organized into four main areas:
//
//  1. [layer] - Layer model, template kinds and the recursive layer compiler
//  2. [resource] - Random image selection and image header probing
//  3. [clip], [spec] - Clip assembly and the spec document with its writers
//  4. [pipeline] - Orchestration (boundaries → assemble → build → write)
//
// # Architecture
//
// The typical data flow through beatcut:
//
//	config file + beat file
//	         ↓
//	    [config], [beats] packages (settings, clip boundaries)
//	         ↓
//	    [clip] package (one clip per boundary pair)
//	         ↓
//	    [layer] package (expand templates; [resource] picks and probes images)
//	         ↓
//	    [spec] package (spec.yml + spec.json)
//
// # Quick Start
//
// Compile a template layer by hand:
//
//	rng := rand.New(rand.NewPCG(7, 7^0xdeadbeef))
//	picker := resource.NewPicker("photos", rng)
//	c := layer.NewCompiler(rng,
//	    layer.WithPicker(picker),
//	    layer.WithProber(resource.NewProber(nil, nil)),
//	)
//	layers, err := c.Compile(ctx, layer.Layer{"type": "random-layer"})
//
// # Main Packages
//
// [layer] - The Layer map type, the Kind classification of template types,
// the immutable sample Catalog and the Compiler that expands random-layer,
// random-photo, linear-or-radial-gradient and image-overlay-left/right.
//
// [resource] - Picker draws a uniformly random image under a directory
// (shell-glob semantics); Prober reads image dimensions from file headers.
//
// [clip] - Assembler turns boundaries and per-clip templates into clips.
//
// [spec] - The Spec document, Build, and atomic YAML/JSON writers.
//
// [beats] - Beat file loading, validation and interval statistics.
//
// [audio] - WAV duration probing for beat sanity checks.
//
// [config] - TOML/YAML configuration with defaults and validation.
//
// [cache] - File cache for probed image dimensions.
//
// [observability] - Optional hooks for pipeline, layer and cache events.
//
// [errors] - Structured errors with machine-readable codes.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layer/...              # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [layer]: https://pkg.go.dev/github.com/matzehuels/beatcut/pkg/layer
// [resource]: https://pkg.go.dev/github.com/matzehuels/beatcut/pkg/resource
// [clip]: https://pkg.go.dev/github.com/matzehuels/beatcut/pkg/clip
// [spec]: https://pkg.go.dev/github.com/matzehuels/beatcut/pkg/spec
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/beatcut/pkg/pipeline
// [beats]: https://pkg.go.dev/github.com/matzehuels/beatcut/pkg/beats
// [audio]: https://pkg.go.dev/github.com/matzehuels/beatcut/pkg/audio
// [config]: https://pkg.go.dev/github.com/matzehuels/beatcut/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/beatcut/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/beatcut/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/beatcut/pkg/errors
package pkg
