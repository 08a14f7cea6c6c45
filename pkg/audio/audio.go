// Package audio reads basic facts about background music files.
//
// Only WAV is decoded; other formats are reported as unsupported and callers
// skip the checks that need a duration.
package audio

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"

	"github.com/matzehuels/beatcut/pkg/errors"
)

// Info describes a decoded audio file.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// Supported reports whether Probe can read the file at path.
func Supported(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}

// Probe reads the header of the WAV file at path.
func Probe(path string) (Info, error) {
	if !Supported(path) {
		return Info{}, errors.New(errors.ErrCodeInvalidInput, "cannot read %s: only WAV files are supported", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return Info{}, errors.Wrap(errors.ErrCodeIO, err, "open audio %s", path)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return Info{}, errors.New(errors.ErrCodeInvalidInput, "%s is not a valid WAV file", path)
	}
	// Decoder.Duration counts the header bytes of the RIFF chunk as audio,
	// so the length is taken from the data chunk instead.
	if err := d.FwdToPCM(); err != nil {
		return Info{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read WAV data %s", path)
	}
	if d.AvgBytesPerSec == 0 {
		return Info{}, errors.New(errors.ErrCodeInvalidInput, "%s has a zero byte rate", path)
	}
	dur := time.Duration(float64(d.PCMLen()) / float64(d.AvgBytesPerSec) * float64(time.Second))
	return Info{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Duration:   dur,
	}, nil
}

// Duration returns the play length of the WAV file at path.
func Duration(path string) (time.Duration, error) {
	info, err := Probe(path)
	if err != nil {
		return 0, err
	}
	return info.Duration, nil
}
