// Package config loads the generation settings for one edit spec.
//
// A configuration file is TOML (.toml) or YAML (.yml, .yaml). It selects one
// of two modes: beat mode reads clip boundaries from a beat file and applies
// the same layers to every clip, while explicit mode lists each clip with its
// own cut point and layers. Relative paths are resolved against the
// directory holding the configuration file.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/beatcut/pkg/errors"
	"github.com/matzehuels/beatcut/pkg/layer"
	"github.com/matzehuels/beatcut/pkg/resource"
	"github.com/matzehuels/beatcut/pkg/spec"
)

// Mode selects how clip boundaries are obtained.
type Mode string

const (
	// ModeBeats derives clip boundaries from a beat file.
	ModeBeats Mode = "beats"

	// ModeExplicit takes clip boundaries from the clips list.
	ModeExplicit Mode = "explicit"
)

// Format is a configuration file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Clip is one explicitly configured clip, ending at BgmCutTo seconds.
type Clip struct {
	BgmCutTo float64       `toml:"bgm_cut_to" yaml:"bgm_cut_to"`
	Layers   []layer.Layer `toml:"layers" yaml:"layers"`
}

// Config holds every setting of a generation run.
type Config struct {
	BgmPath            string        `toml:"bgm_path" yaml:"bgm_path"`
	RandomImageBaseDir string        `toml:"random_image_base_dir" yaml:"random_image_base_dir"`
	BaseSpec           spec.Skeleton `toml:"base_spec" yaml:"base_spec"`

	BeatPath   string        `toml:"beat_path" yaml:"beat_path"`
	BeatLayers []layer.Layer `toml:"beat_layers" yaml:"beat_layers"`
	FinClip    *bool         `toml:"fin_clip" yaml:"fin_clip"`

	StartBgmCutFrom float64 `toml:"start_bgm_cut_from" yaml:"start_bgm_cut_from"`
	Clips           []Clip  `toml:"clips" yaml:"clips"`

	SampleLayers    [][]layer.Layer `toml:"sample_layers" yaml:"sample_layers"`
	NativeTypes     []string        `toml:"native_types" yaml:"native_types"`
	UnknownLayers   string          `toml:"unknown_layers" yaml:"unknown_layers"`
	ImageExtensions []string        `toml:"image_extensions" yaml:"image_extensions"`
	OutputName      string          `toml:"output_name" yaml:"output_name"`
	Seed            uint64          `toml:"seed" yaml:"seed"`
}

// Load reads the configuration file at path, applies defaults, resolves
// relative paths against the file's directory and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ResolvePaths(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "config %s", path)
	}
	return cfg, nil
}

// ReadFile reads and decodes the configuration file at path with defaults
// applied. Paths are left as written and nothing is validated.
func ReadFile(path string) (*Config, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "read config %s", path)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "config %s", path)
	}
	return cfg, nil
}

// FormatFor picks the configuration syntax from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yml", ".yaml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeConfiguration, "unsupported config format %q (use .toml, .yml or .yaml)", filepath.Ext(path))
}

// Parse decodes data and applies defaults. It does not validate.
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "parse toml")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "parse yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeConfiguration, "unsupported config format %q", format)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills unset fields with their default values.
func (c *Config) ApplyDefaults() {
	if c.BaseSpec.Width == 0 {
		c.BaseSpec.Width = spec.DefaultWidth
	}
	if c.BaseSpec.Height == 0 {
		c.BaseSpec.Height = spec.DefaultHeight
	}
	if c.BaseSpec.Defaults == nil {
		c.BaseSpec.Defaults = map[string]any{"transition": nil}
	}
	if c.UnknownLayers == "" {
		c.UnknownLayers = layer.UnknownFail.String()
	}
	if len(c.ImageExtensions) == 0 {
		c.ImageExtensions = append([]string(nil), resource.DefaultExtensions...)
	}
	if c.OutputName == "" {
		c.OutputName = spec.DefaultOutputName
	}
	if c.FinClip == nil {
		fin := true
		c.FinClip = &fin
	}
}

// ResolvePaths makes relative file paths absolute against dir. This covers
// the audio, beat and image directory settings as well as the path field of
// every configured layer. The random sentinel and URLs are left alone.
func (c *Config) ResolvePaths(dir string) {
	resolve := func(p string) string {
		if p == "" {
			return p
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		return p
	}
	c.BgmPath = resolve(c.BgmPath)
	c.BeatPath = resolve(c.BeatPath)
	c.RandomImageBaseDir = resolve(c.RandomImageBaseDir)

	resolveLayers := func(layers []layer.Layer) {
		for _, l := range layers {
			p, ok := l.Path()
			if !ok || p == "" || p == layer.RandomSentinel || strings.Contains(p, "://") {
				continue
			}
			l["path"] = resolve(p)
		}
	}
	for _, cl := range c.Clips {
		resolveLayers(cl.Layers)
	}
	resolveLayers(c.BeatLayers)
	for _, entry := range c.SampleLayers {
		resolveLayers(entry)
	}
}

// Mode reports which boundary source the configuration uses.
func (c *Config) Mode() Mode {
	if c.BeatPath != "" {
		return ModeBeats
	}
	return ModeExplicit
}

// Policy returns the configured unknown-type policy, falling back to strict
// when the value is invalid.
func (c *Config) Policy() layer.UnknownPolicy {
	p, err := layer.ParseUnknownPolicy(c.UnknownLayers)
	if err != nil {
		return layer.UnknownFail
	}
	return p
}

// WantFinClip reports whether beat mode should end with the "Fin." clip.
func (c *Config) WantFinClip() bool {
	return c.FinClip == nil || *c.FinClip
}

// Catalog returns the sample layer catalog: the configured sample_layers, or
// the built-in catalog when none are set.
func (c *Config) Catalog() (*layer.Catalog, error) {
	if len(c.SampleLayers) == 0 {
		return layer.DefaultCatalog(), nil
	}
	return layer.NewCatalog(c.SampleLayers)
}

// ExplicitBoundaries returns [start_bgm_cut_from, clips[0].bgm_cut_to, ...].
func (c *Config) ExplicitBoundaries() []float64 {
	out := make([]float64, 0, len(c.Clips)+1)
	out = append(out, c.StartBgmCutFrom)
	for _, cl := range c.Clips {
		out = append(out, cl.BgmCutTo)
	}
	return out
}

// ExplicitTemplates returns a copy of each configured clip's layers.
func (c *Config) ExplicitTemplates() [][]layer.Layer {
	out := make([][]layer.Layer, len(c.Clips))
	for i, cl := range c.Clips {
		out[i] = layer.CloneAll(cl.Layers)
		if out[i] == nil {
			out[i] = []layer.Layer{}
		}
	}
	return out
}
