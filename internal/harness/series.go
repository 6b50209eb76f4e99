package harness

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Series holds the timed durations of repeated runs in order.
type Series []time.Duration

type Stats struct {
	Count  int
	Mean   time.Duration
	StdDev time.Duration
	Min    time.Duration
	Max    time.Duration
}

// Stats summarizes the series. StdDev is the sample standard deviation and
// is zero for fewer than two samples.
func (s Series) Stats() Stats {
	if len(s) == 0 {
		return Stats{}
	}

	ns := s.nanos()
	mean, std := stat.MeanStdDev(ns, nil)
	st := Stats{
		Count: len(s),
		Mean:  round(mean),
		Min:   round(floats.Min(ns)),
		Max:   round(floats.Max(ns)),
	}
	if len(s) > 1 {
		st.StdDev = round(std)
	}
	return st
}

// Millis returns the series in fractional milliseconds.
func (s Series) Millis() []float64 {
	out := s.nanos()
	for i := range out {
		out[i] /= float64(time.Millisecond)
	}
	return out
}

func (s Series) nanos() []float64 {
	out := make([]float64, len(s))
	for i, d := range s {
		out[i] = float64(d)
	}
	return out
}

func round(ns float64) time.Duration {
	return time.Duration(math.Round(ns))
}
