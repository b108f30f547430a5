// Package process generates sample paths of a homogeneous Poisson counting
// process.
//
// A path is built from exponentially distributed interarrival times whose
// running sum gives the arrival epochs. Generation is a pure function of the
// parameters and the Sampler passed in, so seeding the sampler identically
// reproduces the same path. Rendering lives elsewhere.
package process

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultRate    = 2.0
	DefaultHorizon = 5.0
	DefaultSeed    = 1

	// DefaultMaxEvents is the historical fixed draw budget. Params carry no
	// cap by default; pass this as MaxEvents to reproduce capped sampling.
	DefaultMaxEvents = 100
)

var (
	ErrInvalidRate      = errors.New("rate must be a positive finite number")
	ErrInvalidHorizon   = errors.New("horizon must be a positive finite number")
	ErrInvalidMaxEvents = errors.New("max events must not be negative")
	ErrNilSampler       = errors.New("nil sampler")
)

// Params describes one run of the generator.
type Params struct {
	// Rate is λ, the expected number of arrivals per unit time.
	Rate float64
	// Horizon is T, the right edge of the observation window [0, T].
	Horizon float64
	// MaxEvents bounds the number of interarrival draws. Zero means
	// sampling continues until the running sum passes the horizon.
	MaxEvents int
	// Seed selects the pseudo-random stream used by Build-style helpers.
	Seed uint64
}

// DefaultParams returns λ = 2, T = 5, no event cap and seed 1.
func DefaultParams() Params {
	return Params{
		Rate:    DefaultRate,
		Horizon: DefaultHorizon,
		Seed:    DefaultSeed,
	}
}

// Validate reports the first invalid field, wrapping one of the Err* sentinels.
func (p Params) Validate() error {
	if !(p.Rate > 0) || math.IsInf(p.Rate, 0) {
		return fmt.Errorf("%w (got %v)", ErrInvalidRate, p.Rate)
	}
	if !(p.Horizon > 0) || math.IsInf(p.Horizon, 0) {
		return fmt.Errorf("%w (got %v)", ErrInvalidHorizon, p.Horizon)
	}
	if p.MaxEvents < 0 {
		return fmt.Errorf("%w (got %d)", ErrInvalidMaxEvents, p.MaxEvents)
	}
	return nil
}

// Expected returns λT, the mean number of arrivals in the window.
func (p Params) Expected() float64 {
	return p.Rate * p.Horizon
}

func (p Params) String() string {
	s := fmt.Sprintf("λ=%g T=%g seed=%d", p.Rate, p.Horizon, p.Seed)
	if p.MaxEvents > 0 {
		s += fmt.Sprintf(" cap=%d", p.MaxEvents)
	}
	return s
}
