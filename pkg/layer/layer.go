// Package layer compiles templated clip layers into renderer-native layers.
//
// A [Layer] is the loosely typed mapping the renderer consumes: a required
// "type" field plus type-specific parameters. Templates may use types the
// renderer does not know, which the [Compiler] expands:
//
//   - random-layer: one entry of the sample [Catalog], compiled recursively
//   - random-photo: an image layer with a randomly picked path
//   - linear-or-radial-gradient: one of the two gradient types
//   - image-overlay-left / image-overlay-right: an image-overlay positioned
//     at the left or right center and sized from the image aspect ratio
//
// Any image or image-overlay layer whose path is [RandomSentinel] gets a path
// drawn from the configured [Picker].
//
// Templates are never modified: every expansion works on a deep copy, and
// catalog entries are copied out on each draw.
package layer

import (
	"maps"
	"reflect"
	"slices"
)

// RandomSentinel in a path field requests a randomly picked resource.
const RandomSentinel = "__RANDOM__"

// Renderer-native layer types.
const (
	TypeTitleBackground = "title-background"
	TypeTitle           = "title"
	TypeSubtitle        = "subtitle"
	TypeNewsTitle       = "news-title"
	TypeSlideInText     = "slide-in-text"
	TypeImage           = "image"
	TypeImageOverlay    = "image-overlay"
	TypeLinearGradient  = "linear-gradient"
	TypeRadialGradient  = "radial-gradient"
)

// Template layer types expanded by the compiler.
const (
	TypeRandomLayer  = "random-layer"
	TypeRandomPhoto  = "random-photo"
	TypeGradient     = "linear-or-radial-gradient"
	TypeOverlayLeft  = "image-overlay-left"
	TypeOverlayRight = "image-overlay-right"
)

// Overlay placement and sizing, as fractions of the frame.
const (
	PositionCenterLeft  = "center-left"
	PositionCenterRight = "center-right"

	PortraitHeight = 0.9
	LandscapeWidth = 0.45
)

var nativeTypes = []string{
	TypeTitleBackground,
	TypeTitle,
	TypeSubtitle,
	TypeNewsTitle,
	TypeSlideInText,
	TypeImage,
	TypeImageOverlay,
	TypeLinearGradient,
	TypeRadialGradient,
}

// NativeTypes returns the built-in renderer vocabulary.
func NativeTypes() []string {
	return slices.Clone(nativeTypes)
}

// Layer is a single layer description.
type Layer map[string]any

// Type returns the layer's type field, or "" when it is missing or not a string.
func (l Layer) Type() string {
	t, _ := l["type"].(string)
	return t
}

// Path returns the layer's path field and whether it is a string.
func (l Layer) Path() (string, bool) {
	p, ok := l["path"].(string)
	return p, ok
}

// Clone returns a deep copy of l. Nested maps and slices are copied so that
// edits to the result never reach l.
func (l Layer) Clone() Layer {
	if l == nil {
		return nil
	}
	out := make(Layer, len(l))
	for k, v := range l {
		out[k] = cloneValue(v)
	}
	return out
}

// Equal reports whether a and b hold the same fields and values.
func Equal(a, b Layer) bool {
	return maps.EqualFunc(a, b, equalValue)
}

// CloneAll deep-copies a list of layers.
func CloneAll(ls []Layer) []Layer {
	if ls == nil {
		return nil
	}
	out := make([]Layer, len(ls))
	for i, l := range ls {
		out[i] = l.Clone()
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Layer:
		return t.Clone()
	case map[string]any:
		return map[string]any(Layer(t).Clone())
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = cloneValue(x)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, x := range t {
			out[i] = map[string]any(Layer(x).Clone())
		}
		return out
	case []string:
		return slices.Clone(t)
	case []float64:
		return slices.Clone(t)
	case []int:
		return slices.Clone(t)
	default:
		return v
	}
}

func equalValue(a, b any) bool {
	switch x := a.(type) {
	case map[string]any:
		y, ok := asMap(b)
		return ok && Equal(Layer(x), y)
	case Layer:
		y, ok := asMap(b)
		return ok && Equal(x, y)
	case []any:
		y, ok := b.([]any)
		return ok && slices.EqualFunc(x, y, equalValue)
	case []map[string]any:
		y, ok := b.([]map[string]any)
		return ok && slices.EqualFunc(x, y, func(p, q map[string]any) bool { return Equal(p, q) })
	case []string:
		y, ok := b.([]string)
		return ok && slices.Equal(x, y)
	case []float64:
		y, ok := b.([]float64)
		return ok && slices.Equal(x, y)
	case []int:
		y, ok := b.([]int)
		return ok && slices.Equal(x, y)
	default:
		return reflect.DeepEqual(a, b)
	}
}

func asMap(v any) (Layer, bool) {
	switch t := v.(type) {
	case Layer:
		return t, true
	case map[string]any:
		return Layer(t), true
	}
	return nil, false
}
