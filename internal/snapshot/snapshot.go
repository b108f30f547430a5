// Package snapshot builds immutable sample-path snapshots for the viewer.
//
// A DataSnapshot captures one generated path together with its summary and
// the parameters that produced it. Snapshots are rebuilt on resample or
// parameter change and swapped atomically into the UI model.
package snapshot

import (
	"fmt"
	"time"

	"github.com/daviddao/poisson_viewer/internal/process"
)

// SourceSeeded marks snapshots drawn from the seeded exponential sampler.
const SourceSeeded = "seeded"

// DataSnapshot is an immutable, self-contained view of one sample path.
type DataSnapshot struct {
	Params  process.Params
	Path    *process.Path
	Summary process.Summary

	// Where the interarrivals came from ("seeded", a file name, ...).
	Source string

	// Timestamp of snapshot creation.
	BuiltAt time.Time
}

// Build generates a path from the seeded exponential sampler for p.
func Build(p process.Params) (*DataSnapshot, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return BuildFrom(p, process.NewExponential(p.Rate, p.Seed), SourceSeeded)
}

// BuildFrom generates a path from an arbitrary sampler.
func BuildFrom(p process.Params, s process.Sampler, source string) (*DataSnapshot, error) {
	path, err := process.Generate(p, s)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", p, err)
	}
	return &DataSnapshot{
		Params:  p,
		Path:    path,
		Summary: process.Summarize(path),
		Source:  source,
		BuiltAt: time.Now(),
	}, nil
}

// Next returns the parameters for the following resample: same process,
// next seed.
func (s *DataSnapshot) Next() process.Params {
	p := s.Params
	p.Seed++
	return p
}
