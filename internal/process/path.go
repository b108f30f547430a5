package process

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// maxRejects bounds consecutive unusable draws (zero, negative or NaN) before
// Generate gives up on the sampler.
const maxRejects = 1024

// maxCapHint bounds the initial slice capacity taken from λT.
const maxCapHint = 1 << 16

var ErrDegenerateSampler = errors.New("sampler keeps returning non-positive draws")

// Path is one realization of N(t) on [0, T].
type Path struct {
	Params Params

	// Interarrivals[i] is the duration that produced Epochs[i].
	Interarrivals []float64
	// Epochs are the arrival times, strictly increasing and all <= Horizon.
	Epochs []float64

	// Times and Counts are the breakpoints of the right-continuous step
	// function: [0, epochs..., T] paired with [0, 1, ..., n, n].
	Times  []float64
	Counts []int

	// Overshoot is the draw that carried the running sum past the horizon.
	// Zero when sampling stopped for another reason.
	Overshoot float64
	// Truncated is set when MaxEvents retained arrivals and the draw after
	// them still landed inside the horizon, so the path undercounts.
	Truncated bool

	draws int
}

// Generate draws interarrivals from s until their running sum passes
// p.Horizon and builds the resulting step function. Once p.MaxEvents arrivals
// are retained one more draw decides between an overshoot and truncation.
func Generate(p Params, s Sampler) (*Path, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNilSampler
	}

	// λT can be far beyond any sane allocation, or +Inf.
	capHint := int(math.Min(math.Ceil(p.Expected())+1, maxCapHint))
	if p.MaxEvents > 0 {
		capHint = min(capHint, p.MaxEvents)
	}
	path := &Path{
		Params:        p,
		Interarrivals: make([]float64, 0, capHint),
		Epochs:        make([]float64, 0, capHint),
	}

	var sum float64
	rejects := 0
	for {
		d := s.Next()
		if !(d > 0) {
			rejects++
			if rejects >= maxRejects {
				return nil, fmt.Errorf("%w after %d draws", ErrDegenerateSampler, path.draws+rejects)
			}
			continue
		}
		path.draws++

		next := sum + d
		if next > p.Horizon {
			path.Overshoot = d
			break
		}
		if p.MaxEvents > 0 && len(path.Epochs) == p.MaxEvents {
			path.Truncated = true
			break
		}
		if next <= sum {
			// d is below the resolution of sum; it cannot form a new epoch.
			rejects++
			if rejects >= maxRejects {
				return nil, fmt.Errorf("%w after %d draws", ErrDegenerateSampler, path.draws)
			}
			continue
		}
		rejects = 0
		sum = next
		path.Interarrivals = append(path.Interarrivals, d)
		path.Epochs = append(path.Epochs, sum)
	}

	path.buildSteps()
	return path, nil
}

func (p *Path) buildSteps() {
	n := len(p.Epochs)
	p.Times = make([]float64, 0, n+2)
	p.Times = append(p.Times, 0)
	p.Times = append(p.Times, p.Epochs...)
	p.Times = append(p.Times, p.Params.Horizon)

	p.Counts = make([]int, n+2)
	for i := 0; i <= n; i++ {
		p.Counts[i] = i
	}
	p.Counts[n+1] = n
}

// Arrivals returns the number of retained arrivals.
func (p *Path) Arrivals() int {
	return len(p.Epochs)
}

// FinalCount returns N(T).
func (p *Path) FinalCount() int {
	return p.Counts[len(p.Counts)-1]
}

// Draws returns how many usable interarrivals were taken, including the
// overshoot.
func (p *Path) Draws() int {
	return p.draws
}

// CountAt evaluates N(t). The step takes its new value at the arrival instant.
func (p *Path) CountAt(t float64) int {
	if t < 0 {
		return 0
	}
	// Number of epochs <= t.
	return sort.Search(len(p.Epochs), func(i int) bool { return p.Epochs[i] > t })
}

// Step is one constant run of the step function on [Start, End).
type Step struct {
	Start, End float64
	Count      int
}

// Steps returns the constant runs of N(t) covering [0, T].
func (p *Path) Steps() []Step {
	steps := make([]Step, 0, len(p.Times)-1)
	for i := 0; i+1 < len(p.Times); i++ {
		steps = append(steps, Step{Start: p.Times[i], End: p.Times[i+1], Count: p.Counts[i]})
	}
	return steps
}
