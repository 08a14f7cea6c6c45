package beats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the spacing of a beat sequence.
type Stats struct {
	Count        int
	Start        float64
	End          float64
	Span         float64
	MeanInterval float64
	StdDev       float64
	MinInterval  float64
	MaxInterval  float64
	// BPM is 60 divided by the mean interval, or 0 when the mean is 0.
	BPM float64
}

// Summarize computes interval statistics for s. The sequence should be
// valid; fewer than two beats yield a Stats with only Count set.
func Summarize(s Sequence) Stats {
	st := Stats{Count: len(s)}
	iv := s.Intervals()
	if len(iv) == 0 {
		return st
	}

	st.Start, st.End = s.Start(), s.End()
	st.Span = st.End - st.Start
	st.MinInterval = floats.Min(iv)
	st.MaxInterval = floats.Max(iv)

	if len(iv) == 1 {
		st.MeanInterval = iv[0]
	} else {
		st.MeanInterval, st.StdDev = stat.MeanStdDev(iv, nil)
	}
	if st.MeanInterval > 0 {
		st.BPM = 60 / st.MeanInterval
	}
	return st
}
