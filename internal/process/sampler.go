package process

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler yields successive interarrival durations.
type Sampler interface {
	Next() float64
}

// Exponential draws interarrivals from Exponential(rate), i.e. mean 1/rate.
type Exponential struct {
	dist distuv.Exponential
}

// NewExponential returns a sampler whose stream is fully determined by seed.
func NewExponential(rate float64, seed uint64) *Exponential {
	return &Exponential{
		dist: distuv.Exponential{
			Rate: rate,
			Src:  rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
		},
	}
}

func (e *Exponential) Next() float64 {
	return e.dist.Rand()
}

// Sequence replays a fixed list of draws. Once exhausted it returns +Inf, which
// always overshoots the horizon and ends generation.
type Sequence struct {
	draws []float64
	pos   int
}

func NewSequence(draws ...float64) *Sequence {
	return &Sequence{draws: append([]float64(nil), draws...)}
}

func (s *Sequence) Next() float64 {
	if s.pos >= len(s.draws) {
		return math.Inf(1)
	}
	d := s.draws[s.pos]
	s.pos++
	return d
}
