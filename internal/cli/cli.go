// Package cli implements the beatcut command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/beatcut/pkg/buildinfo"
	"github.com/matzehuels/beatcut/pkg/cache"
	"github.com/matzehuels/beatcut/pkg/errors"
	"github.com/matzehuels/beatcut/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "beatcut"

	// envLogLevel overrides the log level when set (debug, info, warn, error).
	envLogLevel = "BEATCUT_LOG_LEVEL"
)

// Process exit codes returned by Execute.
const (
	ExitOK        = 0
	ExitError     = 1
	ExitConfig    = 2
	ExitCancelled = 130
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger  *log.Logger
	verbose bool
}

// Execute builds the root command, runs it with args and maps the outcome
// to a process exit code. Failures are reported as status lines.
func Execute(ctx context.Context, args []string) int {
	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SilenceErrors = true

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	if ctx.Err() != nil || stderrors.Is(err, context.Canceled) {
		printWarning("Cancelled")
		return ExitCancelled
	}
	printError("%s", errors.UserMessage(err))
	if code := errors.GetCode(err); code != "" {
		c.Logger.Debug("command failed", "code", code, "err", err)
	}
	if errors.Is(err, errors.ErrCodeConfiguration) {
		return ExitConfig
	}
	return ExitError
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "beatcut turns beat timings into video edit specs",
		Long: `beatcut generates declarative edit specs (spec.yml and spec.json) for
editly-style video renderers from a music track's beat timings and a library
of reusable, partly random visual layer templates.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return c.configureLogging()
	}

	// Register all subcommands
	root.AddCommand(c.genCommand())
	root.AddCommand(c.beatsCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// configureLogging applies the -v flag, then the environment override.
func (c *CLI) configureLogging() error {
	level := LogInfo
	if c.verbose {
		level = LogDebug
	}
	if v := os.Getenv(envLogLevel); v != "" {
		l, err := parseLevel(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeConfiguration, err, "%s", envLogLevel)
		}
		level = l
	}
	c.SetLogLevel(level)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/beatcut/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
