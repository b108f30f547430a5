// Package chart renders Poisson sample paths.
//
// Render draws the step function N(t) on a terminal cell grid with dotted
// guides at each arrival and the generating interarrival written vertically
// above its step. Braille draws a compact overview and Figure builds the
// same chart as a gonum/plot figure for image export.
package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/daviddao/poisson_viewer/internal/process"
)

const (
	minPlotWidth  = 10
	minPlotHeight = 3
)

// Options controls what Render draws.
type Options struct {
	Labels bool // interarrival labels above each step
	Guides bool // dotted vertical guides at each arrival
	Color  bool // lipgloss styling; plain runes otherwise
}

// DefaultOptions enables everything.
func DefaultOptions() Options {
	return Options{Labels: true, Guides: true, Color: true}
}

var (
	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89B4FA")).
			Bold(true)

	guideStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF"))

	axisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))
)

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellGuide
	cellLabel
	cellStep
)

type cell struct {
	r    rune
	kind cellKind
}

func (k cellKind) style() *lipgloss.Style {
	switch k {
	case cellStep:
		return &stepStyle
	case cellGuide:
		return &guideStyle
	case cellLabel:
		return &labelStyle
	}
	return nil
}

// Title returns the chart title for p. Integral rates keep one decimal, so
// λ = 2 prints as "2.0".
func Title(p process.Params) string {
	rate := strconv.FormatFloat(p.Rate, 'f', -1, 64)
	if !strings.Contains(rate, ".") {
		rate += ".0"
	}
	return fmt.Sprintf("Sample Path of Poisson Process (λ = %s)", rate)
}

// Label formats an interarrival duration the way the chart prints it.
func Label(d float64) string {
	return strconv.FormatFloat(d, 'f', 2, 64)
}

// Render draws path into a width x height block of text: y-axis on the left,
// x-axis and tick labels on the last two lines. Sizes below the minimum are
// clamped up.
func Render(path *process.Path, width, height int, opts Options) string {
	n := path.Arrivals()
	horizon := path.Params.Horizon

	yw := len(strconv.Itoa(n))
	plotW := max(minPlotWidth, width-yw-1)
	plotH := max(minPlotHeight, height-2)

	labels := make([]string, n)
	labelLen := 0
	if opts.Labels {
		for i, d := range path.Interarrivals {
			labels[i] = Label(d)
			labelLen = max(labelLen, len(labels[i]))
		}
	}

	g := newGrid(plotW, plotH)

	// Vertical scale: count c sits on row rowOf(c); labels need labelLen
	// free rows above the final level when there is room for them.
	usable := plotH - 1 - labelLen
	if usable < plotH/2 {
		usable = plotH - 1
	}
	rowsPerUnit := float64(usable)
	if n > 0 {
		rowsPerUnit = float64(usable) / float64(n)
	}
	rowOf := func(c int) int {
		return plotH - 1 - int(math.Round(float64(c)*rowsPerUnit))
	}
	colOf := func(t float64) int {
		x := int(math.Round(t / horizon * float64(plotW-1)))
		return min(max(x, 0), plotW-1)
	}

	// Arrivals grouped by column: first and last arrival index per column.
	type jump struct{ col, from, to int }
	var jumps []jump
	for i, e := range path.Epochs {
		x := colOf(e)
		if len(jumps) > 0 && jumps[len(jumps)-1].col == x {
			jumps[len(jumps)-1].to = i + 1
			continue
		}
		jumps = append(jumps, jump{col: x, from: i, to: i + 1})
	}

	if opts.Guides {
		top, bottom := rowOf(n), rowOf(0)
		for _, j := range jumps {
			for r := top; r <= bottom; r++ {
				g.set(r, j.col, '┊', cellGuide)
			}
		}
	}

	for _, s := range path.Steps() {
		r := rowOf(s.Count)
		for x := colOf(s.Start); x <= colOf(s.End); x++ {
			g.set(r, x, '─', cellStep)
		}
	}
	for _, j := range jumps {
		r0, r1 := rowOf(j.from), rowOf(j.to)
		if r1 == r0 {
			continue
		}
		g.set(r0, j.col, '┘', cellStep)
		for r := r1 + 1; r < r0; r++ {
			g.set(r, j.col, '│', cellStep)
		}
		g.set(r1, j.col, '┌', cellStep)
	}

	if opts.Labels {
		// One label per column; arrivals sharing a column keep the first.
		for _, j := range jumps {
			label := labels[j.from]
			start := rowOf(j.from+1) - 1
			for k, ch := range label {
				r := start - k
				if r < 0 {
					break
				}
				if g.at(r, j.col).kind == cellStep {
					break
				}
				g.set(r, j.col, ch, cellLabel)
			}
		}
	}

	yStep := max(1, int(niceStep(float64(n)/math.Max(1, float64(plotH/2)))))
	yLabels := make(map[int]string, n/yStep+2)
	for c := 0; c < n; c += yStep {
		r := rowOf(c)
		if _, ok := yLabels[r]; !ok {
			yLabels[r] = strconv.Itoa(c)
		}
	}
	yLabels[rowOf(n)] = strconv.Itoa(n)

	var b strings.Builder
	for r := 0; r < plotH; r++ {
		if lbl, ok := yLabels[r]; ok {
			b.WriteString(paint(fmt.Sprintf("%*s┤", yw, lbl), axisStyle, opts.Color))
		} else {
			b.WriteString(paint(strings.Repeat(" ", yw)+"│", axisStyle, opts.Color))
		}
		b.WriteString(g.renderRow(r, opts.Color))
		b.WriteRune('\n')
	}

	axis, tickLine := xAxis(horizon, plotW)
	b.WriteString(paint(strings.Repeat(" ", yw)+"└"+axis, axisStyle, opts.Color))
	b.WriteRune('\n')
	b.WriteString(paint(strings.Repeat(" ", yw+1)+tickLine, axisStyle, opts.Color))

	return b.String()
}

func paint(s string, style lipgloss.Style, color bool) string {
	if !color {
		return s
	}
	return style.Render(s)
}

type grid struct {
	w, h  int
	cells [][]cell
}

func newGrid(w, h int) *grid {
	cells := make([][]cell, h)
	for r := range cells {
		cells[r] = make([]cell, w)
		for x := range cells[r] {
			cells[r][x] = cell{r: ' '}
		}
	}
	return &grid{w: w, h: h, cells: cells}
}

func (g *grid) at(r, x int) cell {
	return g.cells[r][x]
}

func (g *grid) set(r, x int, ch rune, kind cellKind) {
	if r < 0 || r >= g.h || x < 0 || x >= g.w {
		return
	}
	g.cells[r][x] = cell{r: ch, kind: kind}
}

// renderRow styles runs of same-kind cells together.
func (g *grid) renderRow(r int, color bool) string {
	var b strings.Builder
	row := g.cells[r]
	for i := 0; i < len(row); {
		j := i
		var run strings.Builder
		for j < len(row) && row[j].kind == row[i].kind {
			run.WriteRune(row[j].r)
			j++
		}
		if style := row[i].kind.style(); color && style != nil {
			b.WriteString(style.Render(run.String()))
		} else {
			b.WriteString(run.String())
		}
		i = j
	}
	return b.String()
}

// xAxis returns the axis line and the tick label line for [0, horizon]
// spread over w columns.
func xAxis(horizon float64, w int) (string, string) {
	axis := []rune(strings.Repeat("─", w))
	labels := []rune(strings.Repeat(" ", w))

	step := niceStep(horizon / math.Max(1, float64(w/10)))
	next := 0 // first free label column
	for i := 0; ; i++ {
		t := float64(i) * step
		if t > horizon*(1+1e-9) {
			break
		}
		x := int(math.Round(t / horizon * float64(w-1)))
		if x >= w {
			break
		}
		axis[x] = '┬'
		lbl := strconv.FormatFloat(t, 'g', 4, 64)
		start := x - len(lbl)/2
		if start < next || start+len(lbl) > w {
			continue
		}
		copy(labels[start:], []rune(lbl))
		next = start + len(lbl) + 1
	}
	return string(axis), strings.TrimRight(string(labels), " ")
}

// niceStep rounds raw up to 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if !(raw > 0) || math.IsInf(raw, 0) {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(raw)))
	f := raw / exp
	switch {
	case f <= 1:
		return exp
	case f <= 2:
		return 2 * exp
	case f <= 5:
		return 5 * exp
	}
	return 10 * exp
}
