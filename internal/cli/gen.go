package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/beatcut/pkg/config"
	"github.com/matzehuels/beatcut/pkg/observability"
	"github.com/matzehuels/beatcut/pkg/pipeline"
	"github.com/matzehuels/beatcut/pkg/spec"
)

// genOpts holds the command-line flags for the gen command.
type genOpts struct {
	seed         uint64 // overrides the configured seed when non-zero
	outDir       string // directory for spec.yml and spec.json
	allowUnknown bool   // pass unknown layer types through
	noCache      bool   // skip the image-probe cache
	dryRun       bool   // print spec.yml to stdout instead of writing files
}

// genCommand creates the gen command.
func (c *CLI) genCommand() *cobra.Command {
	var opts genOpts

	cmd := &cobra.Command{
		Use:   "gen <config>",
		Short: "Generate spec.yml and spec.json from a config file",
		Long: `Generate an edit spec from a TOML or YAML config file.

In beat mode (beat_path) every pair of adjacent beats becomes one clip; in
explicit mode (clips) each configured clip ends at its bgm_cut_to. Template
layers such as random-layer, random-photo, linear-or-radial-gradient and
image-overlay-left/right are expanded into renderer-native layers.

Examples:
  beatcut gen gen.toml                  # write spec.yml and spec.json here
  beatcut gen gen.yml --seed 7          # reproducible random choices
  beatcut gen gen.yml --dry-run         # print the YAML spec only`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeConfigFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGen(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 uses the config seed, or a fresh one)")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "output directory (default: current directory)")
	cmd.Flags().BoolVar(&opts.allowUnknown, "allow-unknown-layers", false, "pass unknown layer types through to the renderer")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the image-probe cache")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print spec.yml to stdout without writing files")

	return cmd
}

// runGen loads the config, runs the pipeline and reports the result.
func (c *CLI) runGen(ctx context.Context, path string, opts genOpts) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Loading beats...")
	observability.SetPipelineHooks(spinnerHooks{spinner: spinner})
	defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})
	if c.Logger.GetLevel() <= log.DebugLevel {
		counters := &runCounters{}
		defer counters.install()()
		defer counters.log(c.Logger)
	}
	spinner.Start()

	res, err := runner.Generate(ctx, cfg, pipeline.Options{
		Seed:         opts.seed,
		OutDir:       opts.outDir,
		AllowUnknown: opts.allowUnknown,
		DryRun:       opts.dryRun,
		Logger:       c.Logger,
	})
	if err != nil {
		if ctx.Err() != nil {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	if opts.dryRun {
		data, err := spec.EncodeYAML(res.Spec)
		if err != nil {
			return err
		}
		_, err = uiOut.Write(data)
		return err
	}

	prog.done(fmt.Sprintf("Generated %d clips", res.Stats.Clips))
	for _, w := range res.Warnings {
		printWarning("%s", w)
	}
	printSuccess("Spec written (%s mode)", res.Mode)
	for _, p := range res.Paths.All() {
		printFile(p)
	}
	printSpecStats(res.Stats.Clips, res.Stats.Layers, res.Stats.Duration)
	printKeyValue("seed", fmt.Sprintf("%d", res.Seed))
	printKeyValue("output", res.Spec.OutPath)
	fmt.Fprintln(uiOut)
	printNextStep("Render with", "editly "+res.Paths.JSON)
	return nil
}
