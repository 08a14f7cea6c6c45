package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/matzehuels/beatcut/pkg/errors"
)

func writeWAV(t *testing.T, path string, sampleRate, samples int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, samples),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProbe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.wav")
	writeWAV(t, path, 8000, 2*8000)

	info, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.SampleRate != 8000 || info.Channels != 1 || info.BitDepth != 16 {
		t.Errorf("Probe() = %+v", info)
	}
	if info.Duration != 2*time.Second {
		t.Errorf("Duration = %v, want 2s", info.Duration)
	}

	d, err := Duration(path)
	if err != nil || d != info.Duration {
		t.Errorf("Duration() = %v, %v", d, err)
	}
}

func TestProbeDurationExcludesHeader(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate int
		samples    int
		want       time.Duration
	}{
		{"one and a half seconds", 8000, 12000, 1500 * time.Millisecond},
		{"quarter second", 44100, 11025, 250 * time.Millisecond},
		{"one second", 16000, 16000, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "track.wav")
			writeWAV(t, path, tt.sampleRate, tt.samples)
			got, err := Duration(path)
			if err != nil {
				t.Fatalf("Duration: %v", err)
			}
			if got != tt.want {
				t.Errorf("Duration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSupported(t *testing.T) {
	tests := map[string]bool{
		"a.wav":      true,
		"b.WAV":      true,
		"c.mp3":      false,
		"d.wav.flac": false,
		"noext":      false,
	}
	for path, want := range tests {
		if got := Supported(path); got != want {
			t.Errorf("Supported(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestProbeErrors(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "bogus.wav")
	if err := os.WriteFile(bogus, []byte("not a riff file"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Probe(filepath.Join(dir, "song.mp3")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("mp3 error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if _, err := Probe(bogus); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bogus wav error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if _, err := Probe(filepath.Join(dir, "missing.wav")); !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("missing wav error = %v, want %s", err, errors.ErrCodeIO)
	}
}
