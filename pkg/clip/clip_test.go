package clip

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/beatcut/pkg/errors"
	"github.com/matzehuels/beatcut/pkg/layer"
)

func newCompiler(seed uint64) *layer.Compiler {
	return layer.NewCompiler(rand.New(rand.NewPCG(seed, seed^0xdeadbeef)))
}

type failCompiler struct{ at, calls int }

func (f *failCompiler) CompileAll(ctx context.Context, tmpls []layer.Layer) ([]layer.Layer, error) {
	defer func() { f.calls++ }()
	if f.calls == f.at {
		return nil, errors.New(errors.ErrCodeInvalidLayer, "bad layer")
	}
	return layer.CloneAll(tmpls), nil
}

func TestAssembleDurations(t *testing.T) {
	templates := [][]layer.Layer{
		{{"type": "title", "text": "one"}},
		{{"type": "title", "text": "two"}, {"type": "subtitle", "text": "b"}},
		{{"type": "image", "path": "/a.png"}},
	}

	clips, err := NewAssembler(newCompiler(1)).Assemble(context.Background(), []float64{0, 1.5, 3, 6}, templates)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	wantDur := []float64{1.5, 1.5, 3}
	if len(clips) != len(wantDur) {
		t.Fatalf("got %d clips, want %d", len(clips), len(wantDur))
	}
	for i, c := range clips {
		if c.Duration != wantDur[i] {
			t.Errorf("clip %d duration = %v, want %v", i, c.Duration, wantDur[i])
		}
		if len(c.Layers) != len(templates[i]) {
			t.Fatalf("clip %d has %d layers, want %d", i, len(c.Layers), len(templates[i]))
		}
		for j := range c.Layers {
			if !layer.Equal(c.Layers[j], templates[i][j]) {
				t.Errorf("clip %d layer %d = %v, want %v", i, j, c.Layers[j], templates[i][j])
			}
		}
	}
}

func TestAssembleKeepsFloatDrift(t *testing.T) {
	b := []float64{0.1, 0.3}
	clips, err := NewAssembler(newCompiler(1)).Assemble(context.Background(), b, [][]layer.Layer{nil})
	if err != nil {
		t.Fatal(err)
	}
	if clips[0].Duration != b[1]-b[0] {
		t.Errorf("duration = %v, want plain difference %v", clips[0].Duration, b[1]-b[0])
	}
}

func TestAssembleClipCount(t *testing.T) {
	for n := 2; n <= 6; n++ {
		b := make([]float64, n)
		for i := range b {
			b[i] = float64(i) * 0.5
		}
		tmpls := RepeatTemplates([]layer.Layer{{"type": "title", "text": "x"}}, n-1)

		plain, err := NewAssembler(newCompiler(1)).Assemble(context.Background(), b, tmpls)
		if err != nil {
			t.Fatal(err)
		}
		if len(plain) != n-1 {
			t.Errorf("%d boundaries: got %d clips, want %d", n, len(plain), n-1)
		}

		trailed, err := NewAssembler(newCompiler(1), WithTrailer(FinClip())).Assemble(context.Background(), b, tmpls)
		if err != nil {
			t.Fatal(err)
		}
		if len(trailed) != n {
			t.Errorf("%d boundaries with trailer: got %d clips, want %d", n, len(trailed), n)
		}
		last := trailed[len(trailed)-1]
		if last.Duration != FinDuration || last.Layers[0]["text"] != "Fin." {
			t.Errorf("trailer = %+v, want the Fin. clip", last)
		}
	}
}

func TestAssembleInvalidInput(t *testing.T) {
	one := []layer.Layer{{"type": "title"}}
	tests := []struct {
		name       string
		boundaries []float64
		templates  [][]layer.Layer
	}{
		{"too few boundaries", []float64{1}, nil},
		{"no boundaries", nil, nil},
		{"too many templates", []float64{0, 1}, [][]layer.Layer{one, one}},
		{"too few templates", []float64{0, 1, 2}, [][]layer.Layer{one}},
		{"decreasing", []float64{0, 2, 1}, [][]layer.Layer{one, one}},
		{"nan boundary", []float64{0, math.NaN(), 2}, [][]layer.Layer{one, one}},
		{"infinite boundary", []float64{0, 1, math.Inf(1)}, [][]layer.Layer{one, one}},
		{"negative infinite start", []float64{math.Inf(-1), 1}, [][]layer.Layer{one}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAssembler(newCompiler(1)).Assemble(context.Background(), tt.boundaries, tt.templates)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestAssembleZeroLengthClip(t *testing.T) {
	one := []layer.Layer{{"type": "title"}}
	clips, err := NewAssembler(newCompiler(1)).Assemble(context.Background(), []float64{1, 1, 2}, [][]layer.Layer{one, one})
	if err != nil {
		t.Fatalf("equal boundaries should be accepted: %v", err)
	}
	if clips[0].Duration != 0 {
		t.Errorf("duration = %v, want 0", clips[0].Duration)
	}
}

func TestAssembleCompileError(t *testing.T) {
	one := []layer.Layer{{"type": "title"}}
	fc := &failCompiler{at: 1}
	_, err := NewAssembler(fc).Assemble(context.Background(), []float64{0, 1, 2, 3}, [][]layer.Layer{one, one, one})
	if !errors.Is(err, errors.ErrCodeInvalidLayer) {
		t.Fatalf("error = %v, want %s", err, errors.ErrCodeInvalidLayer)
	}
	if fc.calls != 2 {
		t.Errorf("compiler called %d times, want assembly to stop at the failing clip", fc.calls)
	}
}

func TestAssembleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	one := []layer.Layer{{"type": "title"}}
	_, err := NewAssembler(newCompiler(1)).Assemble(ctx, []float64{0, 1}, [][]layer.Layer{one})
	if err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestTrailerIsCopied(t *testing.T) {
	fin := FinClip()
	a := NewAssembler(newCompiler(1), WithTrailer(fin))
	fin.Layers[0]["text"] = "changed"

	one := []layer.Layer{{"type": "title"}}
	first, err := a.Assemble(context.Background(), []float64{0, 1}, [][]layer.Layer{one})
	if err != nil {
		t.Fatal(err)
	}
	first[1].Layers[0]["text"] = "edited"

	second, err := a.Assemble(context.Background(), []float64{0, 1}, [][]layer.Layer{one})
	if err != nil {
		t.Fatal(err)
	}
	if got := second[1].Layers[0]["text"]; got != "Fin." {
		t.Errorf("trailer text = %v, want Fin.", got)
	}
}

func TestLabelTemplates(t *testing.T) {
	got := LabelTemplates([]float64{0, 1.5, 3.125})
	want := []string{"0.00 ~ 1.50", "1.50 ~ 3.12"}
	if len(got) != len(want) {
		t.Fatalf("got %d templates, want %d", len(got), len(want))
	}
	for i, tmpl := range got {
		if tmpl[0].Type() != layer.TypeTitleBackground || tmpl[0]["text"] != want[i] {
			t.Errorf("template %d = %v, want label %q", i, tmpl, want[i])
		}
	}
	if LabelTemplates([]float64{1}) != nil {
		t.Error("a single boundary has no labels")
	}
}

func TestRepeatTemplatesIndependent(t *testing.T) {
	tmpl := []layer.Layer{{"type": "image", "path": layer.RandomSentinel}}
	reps := RepeatTemplates(tmpl, 3)
	reps[0][0]["path"] = "/a.png"
	if reps[1][0]["path"] != layer.RandomSentinel || tmpl[0]["path"] != layer.RandomSentinel {
		t.Error("repeated templates share state")
	}
}

func ExampleAssembler_Assemble() {
	a := NewAssembler(newCompiler(7), WithTrailer(FinClip()))
	boundaries := []float64{0.0, 1.5, 3.0, 6.0}
	clips, err := a.Assemble(context.Background(), boundaries, LabelTemplates(boundaries))
	if err != nil {
		panic(err)
	}
	for _, c := range clips {
		fmt.Println(c.Duration, c.Layers[0]["text"])
	}
	// Output:
	// 1.5 0.00 ~ 1.50
	// 1.5 1.50 ~ 3.00
	// 3 3.00 ~ 6.00
	// 5 Fin.
}
