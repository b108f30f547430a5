package process

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary compares one path against the process it was drawn from.
type Summary struct {
	Arrivals int
	Draws    int

	// Expected is λT.
	Expected float64
	// EmpiricalRate is n/T.
	EmpiricalRate float64

	// MeanInterarrival and StdDevInterarrival cover retained interarrivals
	// only. Both are NaN when fewer than one (mean) or two (stddev) exist.
	MeanInterarrival   float64
	StdDevInterarrival float64
	// TheoreticalMean is 1/λ, which is also the theoretical standard deviation.
	TheoreticalMean float64

	Truncated bool
}

func Summarize(p *Path) Summary {
	s := Summary{
		Arrivals:           p.Arrivals(),
		Draws:              p.Draws(),
		Expected:           p.Params.Expected(),
		EmpiricalRate:      float64(p.Arrivals()) / p.Params.Horizon,
		MeanInterarrival:   math.NaN(),
		StdDevInterarrival: math.NaN(),
		TheoreticalMean:    1 / p.Params.Rate,
		Truncated:          p.Truncated,
	}
	if len(p.Interarrivals) > 0 {
		s.MeanInterarrival = stat.Mean(p.Interarrivals, nil)
	}
	if len(p.Interarrivals) > 1 {
		s.StdDevInterarrival = stat.StdDev(p.Interarrivals, nil)
	}
	return s
}
