package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/daviddao/poisson_viewer/internal/process"
)

// Default figure size, 10in x 5in.
const (
	FigureWidth  = 10 * vg.Inch
	FigureHeight = 5 * vg.Inch
)

var (
	guideColor = color.NRGBA{R: 128, G: 128, B: 128, A: 102}
	stepColor  = color.NRGBA{R: 31, G: 119, B: 180, A: 255}
)

// Figure builds the sample path as a gonum/plot figure: post-step line,
// dotted guides from 0 to N(T) at each arrival, and rotated interarrival
// labels just above each step.
func Figure(path *process.Path) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = Title(path.Params)
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Number of Events N_t"
	p.Add(plotter.NewGrid())

	n := path.Arrivals()
	final := float64(path.FinalCount())

	for _, e := range path.Epochs {
		guide, err := plotter.NewLine(plotter.XYs{{X: e, Y: 0}, {X: e, Y: final}})
		if err != nil {
			return nil, fmt.Errorf("guide at %v: %w", e, err)
		}
		guide.LineStyle.Color = guideColor
		guide.LineStyle.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
		p.Add(guide)
	}

	xys := make(plotter.XYs, len(path.Times))
	for i, t := range path.Times {
		xys[i] = plotter.XY{X: t, Y: float64(path.Counts[i])}
	}
	step, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("step line: %w", err)
	}
	step.StepStyle = plotter.PostStep
	step.LineStyle.Width = vg.Points(2)
	step.LineStyle.Color = stepColor
	p.Add(step)
	p.Legend.Add("Poisson Process N_t", step)
	p.Legend.Top = true
	p.Legend.Left = true

	if n > 0 {
		pts := make(plotter.XYs, n)
		strs := make([]string, n)
		for i, e := range path.Epochs {
			pts[i] = plotter.XY{X: e, Y: float64(path.Counts[i]) + 0.3}
			strs[i] = Label(path.Interarrivals[i])
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: strs})
		if err != nil {
			return nil, fmt.Errorf("labels: %w", err)
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Rotation = math.Pi / 2
			labels.TextStyle[i].XAlign = text.XLeft
			labels.TextStyle[i].YAlign = text.YCenter
			labels.TextStyle[i].Font.Size = vg.Points(8)
		}
		p.Add(labels)
	}

	p.X.Min = 0
	p.X.Max = path.Params.Horizon
	p.Y.Min = 0
	// Room for the rotated labels above the last step.
	p.Y.Max = final + 1.5
	return p, nil
}

// Export writes the figure to file; the format follows the extension
// (png, svg, pdf, eps, jpg, tif).
func Export(path *process.Path, file string, width, height vg.Length) error {
	fig, err := Figure(path)
	if err != nil {
		return err
	}
	if err := fig.Save(width, height, file); err != nil {
		return fmt.Errorf("save %s: %w", file, err)
	}
	return nil
}

// WriteTo renders the figure in the given format to w.
func WriteTo(w io.Writer, path *process.Path, format string, width, height vg.Length) error {
	fig, err := Figure(path)
	if err != nil {
		return err
	}
	wt, err := fig.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("%s writer: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// FormatOf returns the image format implied by file's extension.
func FormatOf(file string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(file), "."))
}
