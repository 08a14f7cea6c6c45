package config

import (
	"os"

	"github.com/matzehuels/beatcut/pkg/errors"
	"github.com/matzehuels/beatcut/pkg/layer"
)

// Validate checks the configuration for consistency and verifies that the
// referenced files and directories exist. All failures have code
// CONFIGURATION.
func (c *Config) Validate() error {
	if c.BgmPath == "" {
		return errors.New(errors.ErrCodeConfiguration, "bgm_path is required")
	}
	if err := requireFile("bgm_path", c.BgmPath); err != nil {
		return err
	}

	hasBeats, hasClips := c.BeatPath != "", len(c.Clips) > 0
	switch {
	case hasBeats && hasClips:
		return errors.New(errors.ErrCodeConfiguration, "set either beat_path or clips, not both")
	case !hasBeats && !hasClips:
		return errors.New(errors.ErrCodeConfiguration, "one of beat_path or clips is required")
	}
	if hasBeats {
		if err := requireFile("beat_path", c.BeatPath); err != nil {
			return err
		}
	}
	if len(c.BeatLayers) > 0 && !hasBeats {
		return errors.New(errors.ErrCodeConfiguration, "beat_layers needs beat_path")
	}

	if c.RandomImageBaseDir != "" {
		info, err := os.Stat(c.RandomImageBaseDir)
		if err != nil {
			return errors.Wrap(errors.ErrCodeConfiguration, err, "random_image_base_dir")
		}
		if !info.IsDir() {
			return errors.New(errors.ErrCodeConfiguration, "random_image_base_dir %s is not a directory", c.RandomImageBaseDir)
		}
	}

	if c.BaseSpec.Width <= 0 || c.BaseSpec.Height <= 0 {
		return errors.New(errors.ErrCodeConfiguration, "base_spec size must be positive, got %dx%d", c.BaseSpec.Width, c.BaseSpec.Height)
	}
	if c.BaseSpec.Fps < 0 {
		return errors.New(errors.ErrCodeConfiguration, "base_spec.fps must not be negative")
	}

	if _, err := layer.ParseUnknownPolicy(c.UnknownLayers); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "unknown_layers")
	}
	for _, t := range c.NativeTypes {
		if t == "" {
			return errors.New(errors.ErrCodeConfiguration, "native_types contains an empty type")
		}
		if layer.Classify(t) != layer.KindUnknown && layer.Classify(t) != layer.KindNative {
			return errors.New(errors.ErrCodeConfiguration, "native_types cannot redefine template type %q", t)
		}
	}
	for _, ext := range c.ImageExtensions {
		if err := errors.ValidateExtension(ext); err != nil {
			return err
		}
	}
	if err := errors.ValidateOutputName(c.OutputName); err != nil {
		return err
	}

	if _, err := c.Catalog(); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "sample_layers")
	}
	for i, cl := range c.Clips {
		for j, l := range cl.Layers {
			if l.Type() == "" {
				return errors.New(errors.ErrCodeConfiguration, "clips[%d].layers[%d] has no type", i, j)
			}
		}
	}
	for j, l := range c.BeatLayers {
		if l.Type() == "" {
			return errors.New(errors.ErrCodeConfiguration, "beat_layers[%d] has no type", j)
		}
	}
	return nil
}

func requireFile(key, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "%s", key)
	}
	if info.IsDir() {
		return errors.New(errors.ErrCodeConfiguration, "%s %s is a directory", key, path)
	}
	return nil
}
