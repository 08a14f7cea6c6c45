// Package resource locates and inspects the media files that layers point at.
//
// [Picker] draws a random image from a directory tree; [Prober] reads an
// image's pixel dimensions from its header. Both satisfy the interfaces the
// layer compiler consumes.
package resource

import (
	"context"
	"io"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/beatcut/pkg/errors"
	"github.com/matzehuels/beatcut/pkg/observability"
)

// DefaultExtensions are the image extensions matched when none are configured.
var DefaultExtensions = []string{".png", ".jpg"}

// Picker chooses image files under a base directory uniformly at random.
//
// Matching follows shell-glob rules: extensions are case-sensitive, hidden
// files and directories are skipped, and symbolic links are followed (each
// real directory is visited once, so link cycles terminate). The tree is
// scanned on first use and the candidate list is reused afterwards.
type Picker struct {
	baseDir    string
	exts       []string
	rng        *rand.Rand
	logger     *log.Logger
	candidates []string
	scanned    bool
}

// PickerOption configures a Picker.
type PickerOption func(*Picker)

// WithExtensions sets the matched file extensions (including the dot).
func WithExtensions(exts ...string) PickerOption {
	return func(p *Picker) { p.exts = slices.Clone(exts) }
}

// WithPickerLogger sets the picker's logger.
func WithPickerLogger(l *log.Logger) PickerOption {
	return func(p *Picker) { p.logger = l }
}

// NewPicker returns a picker over baseDir drawing from rng.
func NewPicker(baseDir string, rng *rand.Rand, opts ...PickerOption) *Picker {
	p := &Picker{
		baseDir: baseDir,
		exts:    slices.Clone(DefaultExtensions),
		rng:     rng,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return p
}

// BaseDir returns the directory the picker draws from.
func (p *Picker) BaseDir() string {
	return p.baseDir
}

// Pick returns one matching file path chosen uniformly at random.
//
// It fails with CONFIGURATION when the base directory does not exist or is
// not a directory, and with RESOURCE_NOT_FOUND when no file matches.
func (p *Picker) Pick(ctx context.Context) (string, error) {
	candidates, err := p.Candidates(ctx)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", errors.New(errors.ErrCodeResourceNotFound, "no %s files under %s", strings.Join(p.exts, "/"), p.baseDir)
	}

	path := candidates[p.rng.IntN(len(candidates))]
	observability.Layer().OnPick(ctx, p.baseDir, len(candidates))
	p.logger.Debug("picked image", "path", path, "candidates", len(candidates))
	return path, nil
}

// Candidates returns the sorted list of matching files.
func (p *Picker) Candidates(ctx context.Context) ([]string, error) {
	if p.scanned {
		return p.candidates, nil
	}

	info, err := os.Stat(p.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "image directory %s", p.baseDir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeConfiguration, "image directory %s is not a directory", p.baseDir)
	}

	var found []string
	if err := p.walk(ctx, p.baseDir, make(map[string]bool), &found); err != nil {
		return nil, err
	}
	slices.Sort(found)

	p.candidates = found
	p.scanned = true
	p.logger.Debug("scanned image directory", "dir", p.baseDir, "files", len(found))
	return found, nil
}

func (p *Picker) walk(ctx context.Context, dir string, visited map[string]bool, found *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil
	}
	if visited[real] {
		return nil
	}
	visited[real] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		if dir == p.baseDir {
			return errors.Wrap(errors.ErrCodeConfiguration, err, "read image directory %s", dir)
		}
		p.logger.Debug("skipping unreadable directory", "dir", dir, "err", err)
		return nil
	}

	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)

		mode := e.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				continue // dangling link
			}
			mode = info.Mode().Type()
		}

		switch {
		case mode.IsDir():
			if err := p.walk(ctx, path, visited, found); err != nil {
				return err
			}
		case mode.IsRegular() && p.matches(name):
			*found = append(*found, path)
		}
	}
	return nil
}

func (p *Picker) matches(name string) bool {
	return slices.Contains(p.exts, filepath.Ext(name))
}
