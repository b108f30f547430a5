package chart

import (
	"github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"

	"github.com/daviddao/poisson_viewer/internal/process"
)

// Sample evaluates N(t) at points evenly spaced over [0, T], both ends
// included.
func Sample(path *process.Path, points int) []float64 {
	if points < 2 {
		points = 2
	}
	out := make([]float64, points)
	step := path.Params.Horizon / float64(points-1)
	for i := range out {
		out[i] = float64(path.CountAt(float64(i) * step))
	}
	return out
}

// Braille draws N(t) as a braille line plot of width x height cells.
// It returns "" when the area is too small or the path has no arrivals,
// since a flat series has no vertical range to scale.
func Braille(path *process.Path, width, height int) string {
	if width < 2 || height < 2 || path.Arrivals() == 0 {
		return ""
	}

	c := plot.NewCanvas(width, height)
	// Two braille dots per cell horizontally.
	series := Sample(path, width*2)
	c.NumDataPoints = len(series)
	c.ShowAxis = false

	var line plot.Color = plot.Red
	if !lipgloss.DefaultRenderer().HasDarkBackground() {
		line = plot.Black
	}
	c.LineColors = []plot.Color{line}
	c.Fill([][]float64{series})
	return c.String()
}
