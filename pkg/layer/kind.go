package layer

import (
	"fmt"

	"github.com/matzehuels/beatcut/pkg/errors"
)

// Kind classifies a layer type into the expansion rule that handles it.
type Kind int

const (
	// KindUnknown is a type with no expansion rule and no native entry.
	// What happens to it is decided by the compiler's [UnknownPolicy].
	KindUnknown Kind = iota
	KindNative
	KindRandomLayer
	KindRandomPhoto
	KindGradient
	KindOverlayLeft
	KindOverlayRight
)

var kindNames = map[Kind]string{
	KindUnknown:      "unknown",
	KindNative:       "native",
	KindRandomLayer:  "random-layer",
	KindRandomPhoto:  "random-photo",
	KindGradient:     "gradient",
	KindOverlayLeft:  "overlay-left",
	KindOverlayRight: "overlay-right",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Classify returns the kind of typ against the built-in native vocabulary.
func Classify(typ string) Kind {
	return classify(typ, nil)
}

func classify(typ string, extraNative map[string]bool) Kind {
	switch typ {
	case TypeRandomLayer:
		return KindRandomLayer
	case TypeRandomPhoto:
		return KindRandomPhoto
	case TypeGradient:
		return KindGradient
	case TypeOverlayLeft:
		return KindOverlayLeft
	case TypeOverlayRight:
		return KindOverlayRight
	}
	for _, n := range nativeTypes {
		if n == typ {
			return KindNative
		}
	}
	if extraNative[typ] {
		return KindNative
	}
	return KindUnknown
}

// UnknownPolicy decides what the compiler does with a layer whose type is
// neither a template type nor part of the native vocabulary.
type UnknownPolicy int

const (
	// UnknownFail rejects the layer with UNSUPPORTED_LAYER_TYPE.
	UnknownFail UnknownPolicy = iota
	// UnknownPass emits the layer unchanged and leaves rejection to the renderer.
	UnknownPass
)

func (p UnknownPolicy) String() string {
	if p == UnknownPass {
		return "pass"
	}
	return "fail"
}

// ParseUnknownPolicy parses "fail" or "pass". The empty string means fail.
func ParseUnknownPolicy(s string) (UnknownPolicy, error) {
	switch s {
	case "", "fail":
		return UnknownFail, nil
	case "pass":
		return UnknownPass, nil
	default:
		return UnknownFail, errors.New(errors.ErrCodeConfiguration, "invalid unknown layer policy: %q (must be 'fail' or 'pass')", s)
	}
}
