// Package spec defines the edit document handed to the video renderer and
// writes it to disk.
//
// A [Spec] is assembled once by [Build] and never modified afterwards. The
// same value is written twice, as spec.yml and spec.json; both parse back to
// equivalent documents (see [Equivalent]).
package spec

import (
	"maps"

	"github.com/matzehuels/beatcut/pkg/layer"
)

const (
	// DefaultWidth is the frame width used when the configuration sets none.
	DefaultWidth = 640

	// DefaultHeight is the frame height used when the configuration sets none.
	DefaultHeight = 480

	// DefaultOutputName is the basename of the rendered video.
	DefaultOutputName = "output.mp4"
)

// AudioTrack is one background audio source, played from CutFrom seconds.
type AudioTrack struct {
	Path    string  `yaml:"path" json:"path"`
	CutFrom float64 `yaml:"cutFrom" json:"cutFrom"`
}

// Clip is one segment of the video: a duration in seconds and its fully
// resolved layers, bottom to top.
type Clip struct {
	Duration float64       `yaml:"duration" json:"duration"`
	Layers   []layer.Layer `yaml:"layers" json:"layers"`
}

// Skeleton holds the parts of a Spec that come straight from configuration.
type Skeleton struct {
	Width    int            `yaml:"width" toml:"width" json:"width"`
	Height   int            `yaml:"height" toml:"height" json:"height"`
	Fps      float64        `yaml:"fps,omitempty" toml:"fps" json:"fps,omitempty"`
	Defaults map[string]any `yaml:"defaults" toml:"defaults" json:"defaults"`
}

// DefaultSkeleton returns a 640x480 skeleton with transitions disabled.
func DefaultSkeleton() Skeleton {
	return Skeleton{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Defaults: map[string]any{"transition": nil},
	}
}

// Spec is the complete edit document.
type Spec struct {
	Width       int            `yaml:"width" json:"width"`
	Height      int            `yaml:"height" json:"height"`
	Fps         float64        `yaml:"fps,omitempty" json:"fps,omitempty"`
	OutPath     string         `yaml:"outPath" json:"outPath"`
	AudioTracks []AudioTrack   `yaml:"audioTracks" json:"audioTracks"`
	Defaults    map[string]any `yaml:"defaults" json:"defaults"`
	Clips       []Clip         `yaml:"clips" json:"clips"`
}

// Build merges the skeleton with the audio track, the clips and the output
// path. The skeleton's defaults are copied so later edits to base do not
// reach the returned Spec.
func Build(base Skeleton, audioPath string, startCut float64, clips []Clip, outPath string) *Spec {
	defaults := maps.Clone(base.Defaults)
	if defaults == nil {
		defaults = map[string]any{}
	}
	return &Spec{
		Width:       base.Width,
		Height:      base.Height,
		Fps:         base.Fps,
		OutPath:     outPath,
		AudioTracks: []AudioTrack{{Path: audioPath, CutFrom: startCut}},
		Defaults:    defaults,
		Clips:       clips,
	}
}

// Duration returns the summed length of all clips in seconds.
func (s *Spec) Duration() float64 {
	var total float64
	for _, c := range s.Clips {
		total += c.Duration
	}
	return total
}

// LayerCount returns the number of layers across all clips.
func (s *Spec) LayerCount() int {
	n := 0
	for _, c := range s.Clips {
		n += len(c.Layers)
	}
	return n
}
