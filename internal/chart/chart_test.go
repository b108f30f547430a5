package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviddao/poisson_viewer/internal/process"
)

var plain = Options{Labels: true, Guides: true}

// testPath is the five-arrival path 0.3, 0.8, 1.2, 2.2, 4.2 on [0, 5].
func testPath(t *testing.T) *process.Path {
	t.Helper()
	path, err := process.Generate(process.Params{Rate: 2, Horizon: 5}, process.NewSequence(0.3, 0.5, 0.4, 1.0, 2.0, 1.5))
	require.NoError(t, err)
	return path
}

func emptyPath(t *testing.T) *process.Path {
	t.Helper()
	path, err := process.Generate(process.Params{Rate: 0.5, Horizon: 5}, process.NewSequence(9))
	require.NoError(t, err)
	return path
}

// hasVertical reports whether s reads bottom-to-top in some column of out.
func hasVertical(out, s string) bool {
	var rows [][]rune
	for _, line := range strings.Split(out, "\n") {
		rows = append(rows, []rune(line))
	}
	want := []rune(s)
	for r := range rows {
		for x := range rows[r] {
			ok := true
			for k, ch := range want {
				rr := r - k
				if rr < 0 || x >= len(rows[rr]) || rows[rr][x] != ch {
					ok = false
					break
				}
			}
			if ok {
				return true
			}
		}
	}
	return false
}

func TestRenderDimensions(t *testing.T) {
	out := Render(testPath(t), 60, 20, plain)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 20)

	for i, line := range lines[:19] {
		assert.Equal(t, 60, len([]rune(line)), "line %d width", i)
	}
}

func TestRenderLabelsVertical(t *testing.T) {
	path := testPath(t)
	out := Render(path, 60, 20, plain)

	for _, d := range path.Interarrivals {
		assert.True(t, hasVertical(out, Label(d)), "label %s not found in\n%s", Label(d), out)
	}
}

func TestRenderStepGlyphs(t *testing.T) {
	out := Render(testPath(t), 60, 20, plain)

	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "┘")
	assert.Contains(t, out, "─")
	assert.Contains(t, out, "┊")
	assert.Contains(t, out, "5┤")
	assert.Contains(t, out, "0┤")
}

func TestRenderToggles(t *testing.T) {
	path := testPath(t)

	out := Render(path, 60, 20, Options{})
	assert.NotContains(t, out, "┊")
	for _, d := range path.Interarrivals {
		assert.False(t, hasVertical(out, Label(d)), "label %s drawn with labels off", Label(d))
	}

	out = Render(path, 60, 20, Options{Guides: true})
	assert.Contains(t, out, "┊")
}

func TestRenderEmptyPath(t *testing.T) {
	out := Render(emptyPath(t), 40, 10, plain)

	assert.Contains(t, out, "0┤")
	assert.NotContains(t, out, "┌")
	assert.NotContains(t, out, "┊")
	assert.Contains(t, out, "─")
}

func TestRenderClampsTinySizes(t *testing.T) {
	out := Render(testPath(t), 1, 1, plain)
	assert.Len(t, strings.Split(out, "\n"), minPlotHeight+2)
}

func TestRenderManyArrivals(t *testing.T) {
	path, err := process.Generate(process.Params{Rate: 80, Horizon: 5, Seed: 3}, process.NewExponential(80, 3))
	require.NoError(t, err)

	out := Render(path, 80, 24, DefaultOptions())
	assert.Len(t, strings.Split(out, "\n"), 24)
	assert.Contains(t, ansi.Strip(out), "┤")
}

func TestRenderColorMatchesPlain(t *testing.T) {
	path := testPath(t)
	colored := Render(path, 60, 20, DefaultOptions())
	assert.Equal(t, Render(path, 60, 20, plain), ansi.Strip(colored))
}

func TestTitleAndLabel(t *testing.T) {
	assert.Equal(t, "Sample Path of Poisson Process (λ = 2.0)", Title(process.DefaultParams()))
	assert.Equal(t, "Sample Path of Poisson Process (λ = 0.25)", Title(process.Params{Rate: 0.25}))
	assert.Equal(t, "Sample Path of Poisson Process (λ = 100.0)", Title(process.Params{Rate: 100}))
	assert.Equal(t, "Sample Path of Poisson Process (λ = 0.0000001)", Title(process.Params{Rate: 1e-7}))
	assert.Equal(t, "0.30", Label(0.3))
	assert.Equal(t, "12.35", Label(12.345678))
}

func TestNiceStep(t *testing.T) {
	tests := []struct {
		raw, want float64
	}{
		{0, 1},
		{-3, 1},
		{0.3, 0.5},
		{0.714, 1},
		{1, 1},
		{1.5, 2},
		{3, 5},
		{7, 10},
		{25, 50},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, niceStep(tt.raw), 1e-12, "niceStep(%v)", tt.raw)
	}
}

func TestXAxis(t *testing.T) {
	axis, ticks := xAxis(5, 58)
	assert.Equal(t, 58, len([]rune(axis)))
	assert.True(t, strings.HasPrefix(axis, "┬"))
	assert.True(t, strings.HasSuffix(axis, "┬"))
	assert.True(t, strings.HasPrefix(ticks, "0"))
	assert.True(t, strings.HasSuffix(ticks, "5"))
}

func TestSample(t *testing.T) {
	assert.Equal(t, []float64{0, 2, 3, 4, 4, 5}, Sample(testPath(t), 6))
	assert.Len(t, Sample(testPath(t), 0), 2)
}

func TestBraille(t *testing.T) {
	assert.Empty(t, Braille(testPath(t), 1, 10))
	assert.Empty(t, Braille(testPath(t), 10, 1))
	assert.Empty(t, Braille(emptyPath(t), 40, 10))
	assert.NotPanics(t, func() { Braille(testPath(t), 40, 10) })
}

func TestWriteToSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, testPath(t), "svg", FigureWidth, FigureHeight))
	assert.Contains(t, buf.String(), "<svg")
}

func TestWriteToPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, emptyPath(t), "pdf", FigureWidth, FigureHeight))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWriteToUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteTo(&buf, testPath(t), "bogus", FigureWidth, FigureHeight))
}

func TestExportPNG(t *testing.T) {
	file := filepath.Join(t.TempDir(), "path.png")
	require.NoError(t, Export(emptyPath(t), file, FigureWidth, FigureHeight))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestFigureAxes(t *testing.T) {
	fig, err := Figure(testPath(t))
	require.NoError(t, err)

	assert.Equal(t, "Time", fig.X.Label.Text)
	assert.Equal(t, 5.0, fig.X.Max)
	assert.Equal(t, 6.5, fig.Y.Max)
	assert.Equal(t, Title(process.Params{Rate: 2}), fig.Title.Text)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, "png", FormatOf("out/path.PNG"))
	assert.Equal(t, "svg", FormatOf("x.svg"))
	assert.Equal(t, "", FormatOf("noext"))
}
