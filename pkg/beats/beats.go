// Package beats loads, checks and summarises beat timestamp files.
//
// A beat file is a YAML list of seconds, for example:
//
//	[12.48, 12.97, 13.45]
//
// The first entry is where the audio track is cut in; each following entry
// ends one clip.
package beats

import (
	"bytes"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/beatcut/pkg/errors"
)

// Sequence is a list of non-decreasing timestamps in seconds.
type Sequence []float64

// Load reads and validates the beat file at path.
func Load(path string) (Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "beat file %s", path)
	}
	defer f.Close()

	seq, err := Parse(f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "beat file %s", path)
	}
	return seq, nil
}

// Parse decodes a YAML beat list from r and validates it.
func Parse(r io.Reader) (Sequence, error) {
	var seq Sequence
	if err := yaml.NewDecoder(r).Decode(&seq); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidBeats, "empty beat list")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidBeats, err, "parse beat list")
	}
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	return seq, nil
}

// Validate checks that s has at least two finite entries and never decreases.
func (s Sequence) Validate() error {
	if len(s) < 2 {
		return errors.New(errors.ErrCodeInvalidBeats, "need at least 2 beats, got %d", len(s))
	}
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidBeats, "beat %d is not a finite number (%g)", i, v)
		}
	}
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return errors.New(errors.ErrCodeInvalidBeats, "beat %d (%g) is before beat %d (%g)", i, s[i], i-1, s[i-1])
		}
	}
	return nil
}

// Start returns the first timestamp, or 0 for an empty sequence.
func (s Sequence) Start() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

// End returns the last timestamp, or 0 for an empty sequence.
func (s Sequence) End() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// Intervals returns the gaps between consecutive beats.
func (s Sequence) Intervals() []float64 {
	if len(s) < 2 {
		return nil
	}
	out := make([]float64, len(s)-1)
	for i := range out {
		out[i] = s[i+1] - s[i]
	}
	return out
}

// After counts the beats strictly later than limit seconds.
func (s Sequence) After(limit float64) int {
	n := 0
	for _, b := range s {
		if b > limit {
			n++
		}
	}
	return n
}

// Encode renders s as a YAML list.
func Encode(s Sequence) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode([]float64(s)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode beats")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode beats")
	}
	return buf.Bytes(), nil
}

// Save writes s to path as a YAML list.
func Save(path string, s Sequence) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write beat file %s", path)
	}
	return nil
}
