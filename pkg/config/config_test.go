package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/beatcut/pkg/errors"
	"github.com/matzehuels/beatcut/pkg/layer"
)

// fixture creates a project directory with a song, a beat file and an
// image directory, and returns its path.
func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range map[string]string{
		"song.mp3": "id3",
		"beat.yml": "[0.5, 1.0, 1.5]\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "images"), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const explicitTOML = `
bgm_path = "song.mp3"
random_image_base_dir = "images"
start_bgm_cut_from = 1.5
seed = 42

[base_spec]
width = 1280
height = 720
fps = 30.0

[[clips]]
bgm_cut_to = 3.0
layers = [{ type = "title-background", text = "Hello" }]

[[clips]]
bgm_cut_to = 4.5

  [[clips.layers]]
  type = "random-layer"

  [[clips.layers]]
  type = "image-overlay-left"
  path = "__RANDOM__"
`

const beatsYAML = `
bgm_path: song.mp3
beat_path: beat.yml
random_image_base_dir: images
beat_layers:
  - type: random-layer
fin_clip: false
unknown_layers: pass
native_types: [my-custom]
image_extensions: [".png", ".webp"]
output_name: final.mp4
base_spec:
  defaults:
    transition: null
    duration: 2
sample_layers:
  - - type: linear-or-radial-gradient
    - type: title
      text: hi
`

func TestLoadTOMLExplicit(t *testing.T) {
	dir := fixture(t)
	cfg, err := Load(writeConfig(t, dir, "gen.toml", explicitTOML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Mode() != ModeExplicit {
		t.Errorf("Mode() = %s, want %s", cfg.Mode(), ModeExplicit)
	}
	if cfg.BgmPath != filepath.Join(dir, "song.mp3") {
		t.Errorf("BgmPath = %q, want it resolved against the config dir", cfg.BgmPath)
	}
	if cfg.RandomImageBaseDir != filepath.Join(dir, "images") {
		t.Errorf("RandomImageBaseDir = %q", cfg.RandomImageBaseDir)
	}
	if cfg.BaseSpec.Width != 1280 || cfg.BaseSpec.Height != 720 || cfg.BaseSpec.Fps != 30 {
		t.Errorf("BaseSpec = %+v", cfg.BaseSpec)
	}
	if v, ok := cfg.BaseSpec.Defaults["transition"]; !ok || v != nil {
		t.Errorf("default transition = %v (present %v), want null", v, ok)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Seed)
	}
	if cfg.Policy() != layer.UnknownFail {
		t.Errorf("Policy() = %s, want fail", cfg.Policy())
	}
	if cfg.OutputName != "output.mp4" {
		t.Errorf("OutputName = %q, want output.mp4", cfg.OutputName)
	}
	if !slices.Equal(cfg.ImageExtensions, []string{".png", ".jpg"}) {
		t.Errorf("ImageExtensions = %v", cfg.ImageExtensions)
	}

	if got := cfg.ExplicitBoundaries(); !slices.Equal(got, []float64{1.5, 3, 4.5}) {
		t.Errorf("ExplicitBoundaries() = %v", got)
	}
	tmpls := cfg.ExplicitTemplates()
	if len(tmpls) != 2 || len(tmpls[0]) != 1 || len(tmpls[1]) != 2 {
		t.Fatalf("ExplicitTemplates() = %v", tmpls)
	}
	if tmpls[0][0]["text"] != "Hello" || tmpls[1][1].Type() != layer.TypeOverlayLeft {
		t.Errorf("ExplicitTemplates() = %v", tmpls)
	}

	tmpls[0][0]["text"] = "changed"
	if cfg.Clips[0].Layers[0]["text"] != "Hello" {
		t.Error("ExplicitTemplates shares layers with the config")
	}
}

func TestLoadYAMLBeats(t *testing.T) {
	dir := fixture(t)
	cfg, err := Load(writeConfig(t, dir, "gen.yml", beatsYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Mode() != ModeBeats {
		t.Errorf("Mode() = %s, want %s", cfg.Mode(), ModeBeats)
	}
	if cfg.BeatPath != filepath.Join(dir, "beat.yml") {
		t.Errorf("BeatPath = %q", cfg.BeatPath)
	}
	if cfg.WantFinClip() {
		t.Error("fin_clip: false should disable the Fin. clip")
	}
	if cfg.Policy() != layer.UnknownPass {
		t.Errorf("Policy() = %s, want pass", cfg.Policy())
	}
	if cfg.BaseSpec.Width != 640 || cfg.BaseSpec.Height != 480 {
		t.Errorf("default size = %dx%d, want 640x480", cfg.BaseSpec.Width, cfg.BaseSpec.Height)
	}
	if cfg.BaseSpec.Defaults["duration"] != 2 {
		t.Errorf("defaults = %v", cfg.BaseSpec.Defaults)
	}
	if len(cfg.BeatLayers) != 1 || cfg.BeatLayers[0].Type() != layer.TypeRandomLayer {
		t.Errorf("BeatLayers = %v", cfg.BeatLayers)
	}
	if cfg.OutputName != "final.mp4" {
		t.Errorf("OutputName = %q", cfg.OutputName)
	}

	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if cat.Len() != 1 || len(cat.Entry(0)) != 2 {
		t.Errorf("custom catalog has %d entries", cat.Len())
	}
}

func TestResolveLayerPaths(t *testing.T) {
	dir := fixture(t)
	body := `
bgm_path: song.mp3
random_image_base_dir: images
start_bgm_cut_from: 0
clips:
  - bgm_cut_to: 1.0
    layers:
      - type: image-overlay-left
        path: images/portrait.png
      - type: image
        path: /abs/cover.jpg
  - bgm_cut_to: 2.0
    layers:
      - type: image-overlay-right
        path: __RANDOM__
      - type: image
        path: https://example.com/a.png
sample_layers:
  - - type: image
      path: images/sample.png
`
	cfg, err := Load(writeConfig(t, dir, "gen.yml", body))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name string
		got  layer.Layer
		want string
	}{
		{"relative overlay", cfg.Clips[0].Layers[0], filepath.Join(dir, "images", "portrait.png")},
		{"absolute image", cfg.Clips[0].Layers[1], "/abs/cover.jpg"},
		{"random sentinel", cfg.Clips[1].Layers[0], layer.RandomSentinel},
		{"url", cfg.Clips[1].Layers[1], "https://example.com/a.png"},
		{"sample layer", cfg.SampleLayers[0][0], filepath.Join(dir, "images", "sample.png")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if p, _ := tt.got.Path(); p != tt.want {
				t.Errorf("path = %q, want %q", p, tt.want)
			}
		})
	}
}

func TestDefaultCatalog(t *testing.T) {
	cfg, err := Parse([]byte(`bgm_path = "x"`), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	if cat.Len() != layer.DefaultCatalog().Len() {
		t.Errorf("Catalog().Len() = %d, want the built-in catalog", cat.Len())
	}
	if !cfg.WantFinClip() {
		t.Error("fin clip should default to on")
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"gen.toml", FormatTOML, false},
		{"GEN.TOML", FormatTOML, false},
		{"gen.yml", FormatYAML, false},
		{"gen.yaml", FormatYAML, false},
		{"gen.json", "", true},
		{"gen", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFor(tt.path)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("FormatFor(%q) error = %v, want %s", tt.path, err, errors.ErrCodeConfiguration)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("FormatFor(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	dir := fixture(t)
	valid := func() *Config {
		cfg := &Config{
			BgmPath:            "song.mp3",
			BeatPath:           "beat.yml",
			RandomImageBaseDir: "images",
		}
		cfg.ApplyDefaults()
		cfg.ResolvePaths(dir)
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("baseline config invalid: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"missing bgm", func(c *Config) { c.BgmPath = "" }},
		{"bgm does not exist", func(c *Config) { c.BgmPath = filepath.Join(dir, "nope.mp3") }},
		{"bgm is a directory", func(c *Config) { c.BgmPath = dir }},
		{"no mode", func(c *Config) { c.BeatPath = "" }},
		{"both modes", func(c *Config) { c.Clips = []Clip{{BgmCutTo: 1}} }},
		{"beat file missing", func(c *Config) { c.BeatPath = filepath.Join(dir, "none.yml") }},
		{"beat layers without beats", func(c *Config) {
			c.BeatPath = ""
			c.Clips = []Clip{{BgmCutTo: 1, Layers: []layer.Layer{{"type": "title"}}}}
			c.BeatLayers = []layer.Layer{{"type": "title"}}
		}},
		{"image dir missing", func(c *Config) { c.RandomImageBaseDir = filepath.Join(dir, "gone") }},
		{"image dir is a file", func(c *Config) { c.RandomImageBaseDir = c.BgmPath }},
		{"negative width", func(c *Config) { c.BaseSpec.Width = -1 }},
		{"negative fps", func(c *Config) { c.BaseSpec.Fps = -1 }},
		{"bad policy", func(c *Config) { c.UnknownLayers = "ignore" }},
		{"empty native type", func(c *Config) { c.NativeTypes = []string{""} }},
		{"native redefines template", func(c *Config) { c.NativeTypes = []string{"random-layer"} }},
		{"bad extension", func(c *Config) { c.ImageExtensions = []string{"png"} }},
		{"output name with dir", func(c *Config) { c.OutputName = "../out.mp4" }},
		{"nested random-layer in catalog", func(c *Config) {
			c.SampleLayers = [][]layer.Layer{{{"type": "random-layer"}}}
		}},
		{"clip layer without type", func(c *Config) {
			c.BeatPath = ""
			c.Clips = []Clip{{BgmCutTo: 1, Layers: []layer.Layer{{"text": "x"}}}}
		}},
		{"beat layer without type", func(c *Config) { c.BeatLayers = []layer.Layer{{"path": "x"}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("Validate() = %v, want %s", err, errors.ErrCodeConfiguration)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := fixture(t)
	tests := []struct {
		name string
		file string
		body string
	}{
		{"bad toml", "a.toml", "bgm_path = "},
		{"bad yaml", "b.yml", "bgm_path: [unclosed"},
		{"unsupported extension", "c.ini", "bgm_path=x"},
		{"invalid content", "d.toml", `bgm_path = "song.mp3"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, dir, tt.file, tt.body))
			if !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("Load() = %v, want %s", err, errors.ErrCodeConfiguration)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("missing file error = %v", err)
	}
}
