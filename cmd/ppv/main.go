// ppv draws sample paths of a homogeneous Poisson counting process.
//
// It samples exponential interarrival times until their running sum passes the
// horizon T and shows the resulting step function N(t), with every arrival's
// interarrival duration written above its step.
//
// Usage:
//
//	ppv                          # Interactive viewer, λ=2 T=5 seed=1
//	ppv --rate 4 --horizon 10    # Different process
//	ppv --seed 0                 # Time-derived seed
//	ppv --params <path>          # Load .ppv/params.yaml style overrides
//	ppv --params <path> --watch  # Rebuild when the file changes
//	ppv --plain                  # Print the chart without a TUI and exit
//	ppv --out path.png           # Export the figure (png, svg, pdf, eps)
//	ppv --out - --format pdf     # Stream the figure to stdout
//	ppv --json                   # Dump the path as JSON and exit
//	ppv --view table             # Start in a specific view
//	ppv --version                # Print version and exit
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/daviddao/poisson_viewer/internal/chart"
	"github.com/daviddao/poisson_viewer/internal/paramsource"
	"github.com/daviddao/poisson_viewer/internal/process"
	"github.com/daviddao/poisson_viewer/internal/snapshot"
)

// Version is set via ldflags at build time (e.g. -X main.Version=v0.1.0).
var Version = "dev"

// Headless output size when stdout is not a terminal.
const (
	plainWidth  = 80
	plainHeight = 24
)

// parseViewFlag maps a --view flag string to a viewID.
func parseViewFlag(s string) (viewID, error) {
	switch strings.ToLower(s) {
	case "chart", "c":
		return viewChart, nil
	case "braille", "b":
		return viewBraille, nil
	case "table", "t":
		return viewTable, nil
	case "stats", "s":
		return viewStats, nil
	default:
		return 0, fmt.Errorf("unknown view %q (valid: chart, braille, table, stats)", s)
	}
}

// overrides holds the parameter flags and which of them were set explicitly.
// Explicit flags win over the parameter file.
type overrides struct {
	rate      float64
	horizon   float64
	maxEvents int
	seed      uint64
	set       map[string]bool
}

func (o overrides) apply(p process.Params) process.Params {
	if o.set["rate"] {
		p.Rate = o.rate
	}
	if o.set["horizon"] {
		p.Horizon = o.horizon
	}
	if o.set["max-events"] {
		p.MaxEvents = o.maxEvents
	}
	if o.set["seed"] {
		p.Seed = o.seed
	}
	return p
}

// resolve builds the effective parameters: defaults, then the parameter file
// (paramsPath, or the discovered one when empty), then explicit flags. A zero
// seed is replaced by a time-derived one. It also returns the file it read.
func (o overrides) resolve(paramsPath string) (process.Params, string, error) {
	p, path, err := paramsource.Open(paramsPath, process.DefaultParams())
	if err != nil {
		return p, "", err
	}
	p = o.apply(p)
	if p.Seed == 0 {
		p.Seed = uint64(time.Now().UnixNano())
	}
	if err := p.Validate(); err != nil {
		return p, path, err
	}
	return p, path, nil
}

// newLogger returns a logger for the given mode. The TUI owns the terminal, so
// without a log file interactive runs discard logs; the other modes write
// warnings and above to stderr.
func newLogger(file, level string, interactive bool) (*zap.Logger, error) {
	if file == "" && interactive {
		return zap.NewNop(), nil
	}

	lvl := zapcore.InfoLevel
	if file == "" {
		lvl = zapcore.WarnLevel
	}
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		lvl = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	if file != "" {
		cfg.OutputPaths = []string{file}
		cfg.ErrorOutputPaths = []string{file}
	} else {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stderr"}
	}
	return cfg.Build()
}

// jsonOutput is the structure for --json mode. Non-finite values (a missing
// overshoot, statistics over too few interarrivals) are omitted.
type jsonOutput struct {
	Params        jsonParams  `json:"params"`
	Interarrivals []float64   `json:"interarrivals"`
	Epochs        []float64   `json:"epochs"`
	Times         []float64   `json:"times"`
	Counts        []int       `json:"counts"`
	Overshoot     *float64    `json:"overshoot,omitempty"`
	Truncated     bool        `json:"truncated"`
	Summary       jsonSummary `json:"summary"`
	Source        string      `json:"source"`
	BuiltAt       string      `json:"built_at"`
}

type jsonParams struct {
	Rate      float64 `json:"rate"`
	Horizon   float64 `json:"horizon"`
	MaxEvents int     `json:"max_events"`
	Seed      uint64  `json:"seed"`
}

type jsonSummary struct {
	Arrivals           int      `json:"arrivals"`
	Draws              int      `json:"draws"`
	Expected           float64  `json:"expected"`
	EmpiricalRate      float64  `json:"empirical_rate"`
	MeanInterarrival   *float64 `json:"mean_interarrival,omitempty"`
	StdDevInterarrival *float64 `json:"stddev_interarrival,omitempty"`
	TheoreticalMean    float64  `json:"theoretical_mean"`
}

func main() {
	rate := flag.Float64("rate", process.DefaultRate, "arrival rate λ (events per unit time)")
	horizon := flag.Float64("horizon", process.DefaultHorizon, "time horizon T")
	maxEvents := flag.Int("max-events", 0, "cap on retained arrivals (0 = sample until the horizon)")
	seed := flag.Uint64("seed", process.DefaultSeed, "random seed (0 = derive from the clock)")
	paramsFlag := flag.String("params", "", "path to a YAML parameter file (default: auto-discover)")
	watchFlag := flag.Bool("watch", false, "rebuild the path when the parameter file changes")
	jsonMode := flag.Bool("json", false, "dump the sample path as JSON and exit (no TUI)")
	plainMode := flag.Bool("plain", false, "print the chart without colour or TUI and exit")
	outFile := flag.String("out", "", "export the figure to this file and exit (png|svg|pdf|eps); - writes to stdout")
	formatFlag := flag.String("format", "svg", "figure format when --out is -")
	viewFlag := flag.String("view", "", "start in specific view (chart|braille|table|stats)")
	noLabels := flag.Bool("no-labels", false, "hide interarrival labels")
	noGuides := flag.Bool("no-guides", false, "hide arrival guide lines")
	logFile := flag.String("log-file", "", "write JSON logs to this file")
	logLevel := flag.String("log-level", "", "log level (debug|info|warn|error)")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("ppv %s\n", Version)
		os.Exit(0)
	}

	interactive := !*jsonMode && !*plainMode && *outFile == "" && term.IsTerminal(os.Stdout.Fd())
	log, err := newLogger(*logFile, *logLevel, interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ppv: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	fl := overrides{rate: *rate, horizon: *horizon, maxEvents: *maxEvents, seed: *seed, set: map[string]bool{}}
	flag.Visit(func(f *flag.Flag) { fl.set[f.Name] = true })

	p, paramsPath, err := fl.resolve(*paramsFlag)
	if err != nil {
		fail(log, err)
	}
	log.Info("parameters resolved",
		zap.Float64("rate", p.Rate),
		zap.Float64("horizon", p.Horizon),
		zap.Int("max_events", p.MaxEvents),
		zap.Uint64("seed", p.Seed),
		zap.String("path", paramsPath))

	view := viewChart
	if *viewFlag != "" {
		if view, err = parseViewFlag(*viewFlag); err != nil {
			fail(log, err)
		}
	}
	opts := chart.Options{Labels: !*noLabels, Guides: !*noGuides, Color: true}

	snap, err := snapshot.Build(p)
	if err != nil {
		fail(log, fmt.Errorf("snapshot: %w", err))
	}
	logSnapshot(log, snap)

	// --json mode: print the path, exit.
	if *jsonMode {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(buildJSONOutput(snap)); err != nil {
			fail(log, fmt.Errorf("json: %w", err))
		}
		os.Exit(0)
	}

	if *outFile != "" {
		format, err := exportFigure(os.Stdout, snap, *outFile, *formatFlag)
		if err != nil {
			fail(log, err)
		}
		log.Info("figure written", zap.String("file", *outFile), zap.String("format", format))
		os.Exit(0)
	}

	// Headless: nothing to interact with, print once and return.
	if !interactive {
		width, height := plainWidth, plainHeight
		if w, h, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 && h > 0 {
			width, height = w, h
		}
		opts.Color = false
		if err := printStatic(os.Stdout, snap, width, height, opts); err != nil {
			fail(log, err)
		}
		os.Exit(0)
	}

	var w *paramsource.Watcher
	if *watchFlag {
		if paramsPath == "" {
			fail(log, errors.New("--watch needs a parameter file (--params or .ppv/params.yaml)"))
		}
		if w, err = paramsource.NewWatcher(paramsPath, log); err != nil {
			fail(log, fmt.Errorf("watch: %w", err))
		}
	}

	m := newModel(snap, w, paramsPath, fl, log)
	m.activeView = view
	m.opts = opts

	prog := tea.NewProgram(m, tea.WithAltScreen())

	// Feed parameter file changes into the TUI.
	if w != nil {
		go func() {
			for range w.Changes() {
				prog.Send(paramsChangedMsg{})
			}
		}()
	}

	if _, err := prog.Run(); err != nil {
		if w != nil {
			w.Close()
		}
		fail(log, err)
	}
}

func fail(log *zap.Logger, err error) {
	log.Error("exiting", zap.Error(err))
	_ = log.Sync()
	fmt.Fprintf(os.Stderr, "ppv: %v\n", err)
	os.Exit(1)
}

func logSnapshot(log *zap.Logger, snap *snapshot.DataSnapshot) {
	log.Info("path generated",
		zap.Stringer("params", snap.Params),
		zap.Int("arrivals", snap.Summary.Arrivals),
		zap.Int("draws", snap.Summary.Draws),
		zap.Bool("truncated", snap.Path.Truncated))
	if snap.Path.Truncated {
		log.Warn("event cap reached before the horizon; path undercounts",
			zap.Int("max_events", snap.Params.MaxEvents),
			zap.Float64("last_epoch", lastEpoch(snap.Path)),
			zap.Float64("horizon", snap.Params.Horizon))
	}
}

func lastEpoch(p *process.Path) float64 {
	if len(p.Epochs) == 0 {
		return 0
	}
	return p.Epochs[len(p.Epochs)-1]
}

// exportFigure saves the figure to out, or streams it to stdout in format
// when out is "-". It returns the format written.
func exportFigure(stdout io.Writer, snap *snapshot.DataSnapshot, out, format string) (string, error) {
	if out == "-" {
		if err := chart.WriteTo(stdout, snap.Path, format, chart.FigureWidth, chart.FigureHeight); err != nil {
			return format, err
		}
		return format, nil
	}
	if err := chart.Export(snap.Path, out, chart.FigureWidth, chart.FigureHeight); err != nil {
		return "", err
	}
	return chart.FormatOf(out), nil
}

// printStatic writes the title, the uncoloured chart and a one-line summary.
func printStatic(w io.Writer, snap *snapshot.DataSnapshot, width, height int, opts chart.Options) error {
	var b strings.Builder
	b.WriteString(chart.Title(snap.Params))
	b.WriteRune('\n')
	b.WriteString(chart.Render(snap.Path, width, height-2, opts))
	b.WriteRune('\n')
	b.WriteString(summaryLine(snap))
	b.WriteRune('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func summaryLine(snap *snapshot.DataSnapshot) string {
	s := fmt.Sprintf("N(T) = %s arrivals (expected %.2f), %s",
		humanize.Comma(int64(snap.Summary.Arrivals)), snap.Summary.Expected, snap.Params)
	if snap.Path.Truncated {
		s += ", truncated by event cap"
	}
	return s
}

// buildJSONOutput converts a snapshot into the JSON output structure.
func buildJSONOutput(snap *snapshot.DataSnapshot) jsonOutput {
	path := snap.Path
	return jsonOutput{
		Params: jsonParams{
			Rate:      snap.Params.Rate,
			Horizon:   snap.Params.Horizon,
			MaxEvents: snap.Params.MaxEvents,
			Seed:      snap.Params.Seed,
		},
		Interarrivals: nonNil(path.Interarrivals),
		Epochs:        nonNil(path.Epochs),
		Times:         path.Times,
		Counts:        path.Counts,
		Overshoot:     finite(path.Overshoot),
		Truncated:     path.Truncated,
		Summary: jsonSummary{
			Arrivals:           snap.Summary.Arrivals,
			Draws:              snap.Summary.Draws,
			Expected:           snap.Summary.Expected,
			EmpiricalRate:      snap.Summary.EmpiricalRate,
			MeanInterarrival:   finite(snap.Summary.MeanInterarrival),
			StdDevInterarrival: finite(snap.Summary.StdDevInterarrival),
			TheoreticalMean:    snap.Summary.TheoreticalMean,
		},
		Source:  snap.Source,
		BuiltAt: snap.BuiltAt.Format(time.RFC3339),
	}
}

// finite returns a pointer to x, or nil when x is zero, NaN or infinite.
func finite(x float64) *float64 {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

func nonNil(xs []float64) []float64 {
	if xs == nil {
		return []float64{}
	}
	return xs
}

// --- Messages ---

type paramsChangedMsg struct{}

type snapshotReadyMsg struct {
	snap *snapshot.DataSnapshot
	err  error
}

type tickMsg struct{}

// --- Key bindings ---

type keyMap struct {
	Quit     key.Binding
	Tab      key.Binding
	Resample key.Binding
	Labels   key.Binding
	Guides   key.Binding
	Up       key.Binding
	Down     key.Binding
	Help     key.Binding
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
	Resample: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resample")),
	Labels:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "labels")),
	Guides:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "guides")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// viewKeys maps single keys to views for fast navigation.
var viewKeys = map[string]viewID{
	"c": viewChart,
	"b": viewBraille,
	"t": viewTable,
	"s": viewStats,
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Resample, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Resample, k.Labels, k.Guides},
		{k.Up, k.Down, k.Help, k.Quit},
	}
}

// contextHelp returns help text appropriate for the current view.
func contextHelp(v viewID) string {
	switch v {
	case viewChart:
		return "r: resample | l: labels | g: guides | c/b/t/s: views | tab: next | ?: help | q: quit"
	case viewTable, viewStats:
		return "j/k: scroll | r: resample | c/b/t/s: views | tab: next | ?: help | q: quit"
	default:
		return "r: resample | c/b/t/s: views | tab: next | ?: help | q: quit"
	}
}

// --- Views ---

type viewID int

const (
	viewChart viewID = iota
	viewBraille
	viewTable
	viewStats
	viewCount // sentinel
)

func (v viewID) String() string {
	switch v {
	case viewChart:
		return "Chart"
	case viewBraille:
		return "Braille"
	case viewTable:
		return "Table"
	case viewStats:
		return "Stats"
	}
	return "?"
}

// --- Model ---

type uiModel struct {
	snap       *snapshot.DataSnapshot
	watcher    *paramsource.Watcher
	paramsPath string
	flags      overrides
	log        *zap.Logger

	activeView viewID
	opts       chart.Options
	width      int
	height     int
	scrollPos  int

	help     help.Model
	showHelp bool

	lastRefresh time.Time
	lastErr     error
}

func newModel(snap *snapshot.DataSnapshot, w *paramsource.Watcher, paramsPath string, fl overrides, log *zap.Logger) uiModel {
	return uiModel{
		snap:        snap,
		watcher:     w,
		paramsPath:  paramsPath,
		flags:       fl,
		log:         log,
		opts:        chart.DefaultOptions(),
		help:        help.New(),
		lastRefresh: time.Now(),
	}
}

func (m uiModel) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m uiModel) logger() *zap.Logger {
	if m.log == nil {
		return zap.NewNop()
	}
	return m.log
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Check single-key view shortcuts first (always available).
		if v, ok := viewKeys[msg.String()]; ok {
			m.activeView = v
			m.scrollPos = 0
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Quit):
			if m.watcher != nil {
				m.watcher.Close()
			}
			return m, tea.Quit

		case key.Matches(msg, keys.Tab):
			m.activeView = (m.activeView + 1) % viewCount
			m.scrollPos = 0

		case key.Matches(msg, keys.Resample):
			return m, m.rebuild(m.snap.Next())

		case key.Matches(msg, keys.Labels):
			m.opts.Labels = !m.opts.Labels

		case key.Matches(msg, keys.Guides):
			m.opts.Guides = !m.opts.Guides

		case key.Matches(msg, keys.Up):
			if m.scrollPos > 0 {
				m.scrollPos--
			}

		case key.Matches(msg, keys.Down):
			// One line per arrival plus headers; View() clamps if we overshoot.
			maxScroll := m.snap.Path.Arrivals() + 20
			if m.scrollPos < maxScroll {
				m.scrollPos++
			}

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case paramsChangedMsg:
		return m, m.reload()

	case snapshotReadyMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			m.logger().Warn("rebuild failed", zap.Error(msg.err))
			break
		}
		if msg.snap != nil {
			m.snap = msg.snap
			m.lastErr = nil
			m.lastRefresh = time.Now()
			logSnapshot(m.logger(), msg.snap)
		}

	case tickMsg:
		return m, tickEvery()
	}

	return m, nil
}

// rebuild generates a new snapshot for p off the event loop.
func (m uiModel) rebuild(p process.Params) tea.Cmd {
	return func() tea.Msg {
		snap, err := snapshot.Build(p)
		return snapshotReadyMsg{snap: snap, err: err}
	}
}

// reload re-reads the parameter file, reapplies explicit flags and rebuilds.
func (m uiModel) reload() tea.Cmd {
	path, fl := m.paramsPath, m.flags
	return func() tea.Msg {
		p, _, err := fl.resolve(path)
		if err != nil {
			return snapshotReadyMsg{err: err}
		}
		snap, err := snapshot.Build(p)
		return snapshotReadyMsg{snap: snap, err: err}
	}
}

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Background(lipgloss.Color("#1E1E2E")).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6C7086")).
				Background(lipgloss.Color("#313244")).
				Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89B4FA"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#1E1E2E"))
)

// --- View rendering ---

func (m uiModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderTitleBar())
	b.WriteRune('\n')

	b.WriteString(m.renderTabBar())
	b.WriteRune('\n')
	b.WriteRune('\n')

	// Content area.
	contentHeight := m.height - 5 // title + tabs + status + padding
	if m.showHelp {
		contentHeight -= 3
	}

	var content string
	switch m.activeView {
	case viewChart:
		content = m.renderChart(contentHeight)
	case viewBraille:
		content = m.renderBraille(contentHeight)
	case viewTable:
		content = m.renderTable()
	case viewStats:
		content = m.renderStats()
	}

	// Apply scroll using a local variable; View() has a value receiver.
	lines := strings.Split(content, "\n")
	scrollPos := m.scrollPos
	if scrollPos >= len(lines) {
		scrollPos = max(0, len(lines)-1)
	}
	if scrollPos > 0 && scrollPos < len(lines) {
		lines = lines[scrollPos:]
	}
	if len(lines) > contentHeight {
		lines = lines[:max(0, contentHeight)]
	}
	content = strings.Join(lines, "\n")

	// Truncate each line to terminal width so content doesn't wrap
	// on resize. Uses ANSI-aware width measurement.
	content = truncateLines(content, m.width)

	b.WriteString(content)

	// Pad to fill screen.
	rendered := strings.Count(b.String(), "\n")
	for rendered < m.height-2 {
		b.WriteRune('\n')
		rendered++
	}

	if m.showHelp {
		b.WriteString(m.help.View(keys))
	} else {
		b.WriteString(m.renderStatusBar())
	}

	return b.String()
}

func (m uiModel) renderTitleBar() string {
	title := titleStyle.Render("poisson viewer")
	stats := dimStyle.Render(fmt.Sprintf(
		"%s | %s arrivals | expected %.1f",
		m.snap.Params,
		humanize.Comma(int64(m.snap.Summary.Arrivals)),
		m.snap.Summary.Expected,
	))
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(title)-lipgloss.Width(stats)-2))
	return title + gap + stats
}

func (m uiModel) renderTabBar() string {
	var tabs []string
	for i := viewID(0); i < viewCount; i++ {
		if i == m.activeView {
			tabs = append(tabs, tabActiveStyle.Render(i.String()))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(i.String()))
		}
	}
	return strings.Join(tabs, " ")
}

func (m uiModel) renderStatusBar() string {
	left := fmt.Sprintf(" %s", contextHelp(m.activeView))
	right := fmt.Sprintf("seed %d | built %s ", m.snap.Params.Seed, humanize.Time(m.lastRefresh))
	if m.lastErr != nil {
		right = fmt.Sprintf("error: %v ", m.lastErr)
	}
	gap := strings.Repeat(" ", max(0, m.width-len(left)-len(right)))
	return statusBarStyle.Render(left + gap + right)
}

// --- Chart view ---

func (m uiModel) renderChart(height int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(chart.Title(m.snap.Params)))
	if m.snap.Path.Truncated {
		b.WriteString(" ")
		b.WriteString(warnStyle.Render("[truncated]"))
	}
	b.WriteRune('\n')
	b.WriteString(chart.Render(m.snap.Path, m.width, height-1, m.opts))
	return b.String()
}

// --- Braille view ---

func (m uiModel) renderBraille(height int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Overview"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  N(t) on [0, %g], %d arrivals",
		m.snap.Params.Horizon, m.snap.Path.Arrivals())))
	b.WriteRune('\n')

	plot := chart.Braille(m.snap.Path, m.width-2, height-2)
	if plot == "" {
		b.WriteString(dimStyle.Render("  (nothing to draw)"))
		b.WriteRune('\n')
		return b.String()
	}
	b.WriteString(plot)
	return b.String()
}

// --- Table view ---

func (m uiModel) renderTable() string {
	var b strings.Builder
	path := m.snap.Path

	b.WriteString(headerStyle.Render("Arrivals"))
	b.WriteRune('\n')

	if path.Arrivals() == 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  (no arrivals in [0, %g])", m.snap.Params.Horizon)))
		b.WriteRune('\n')
	} else {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %6s  %12s  %12s  %6s", "#", "interarrival", "epoch", "N(t)")))
		b.WriteRune('\n')
		for i, d := range path.Interarrivals {
			b.WriteString(fmt.Sprintf("  %6d  %12s  %12s  %6d\n",
				i+1, chart.Label(d), formatFloat(path.Epochs[i], 4), path.Counts[i+1]))
		}
	}

	b.WriteRune('\n')
	if o := finite(path.Overshoot); o != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  overshoot %s (sum %s > T = %g)",
			chart.Label(*o), formatFloat(lastEpoch(path)+*o, 4), m.snap.Params.Horizon)))
		b.WriteRune('\n')
	}
	if path.Truncated {
		b.WriteString(warnStyle.Render(fmt.Sprintf("  truncated: event cap %d reached before T", m.snap.Params.MaxEvents)))
		b.WriteRune('\n')
	}
	return b.String()
}

// --- Stats view ---

func (m uiModel) renderStats() string {
	var b strings.Builder
	s := m.snap.Summary
	p := m.snap.Params

	row := func(name, value string) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %-22s", name)))
		b.WriteString(valueStyle.Render(value))
		b.WriteRune('\n')
	}

	b.WriteString(headerStyle.Render("Process"))
	b.WriteRune('\n')
	row("rate λ", formatFloat(p.Rate, -1))
	row("horizon T", formatFloat(p.Horizon, -1))
	row("seed", fmt.Sprintf("%d", p.Seed))
	if p.MaxEvents > 0 {
		row("event cap", humanize.Comma(int64(p.MaxEvents)))
	} else {
		row("event cap", "none")
	}
	row("source", m.snap.Source)

	b.WriteRune('\n')
	b.WriteString(headerStyle.Render("Sample"))
	b.WriteRune('\n')
	row("arrivals N(T)", humanize.Comma(int64(s.Arrivals)))
	row("expected λT", formatFloat(s.Expected, 2))
	row("draws", humanize.Comma(int64(s.Draws)))
	row("empirical rate N(T)/T", formatFloat(s.EmpiricalRate, 3))
	row("mean interarrival", fmt.Sprintf("%s (1/λ = %s)", formatFloat(s.MeanInterarrival, 3), formatFloat(s.TheoreticalMean, 3)))
	row("stddev interarrival", fmt.Sprintf("%s (1/λ = %s)", formatFloat(s.StdDevInterarrival, 3), formatFloat(s.TheoreticalMean, 3)))
	if s.Truncated {
		b.WriteString(warnStyle.Render("  truncated by event cap; N(T) may undercount"))
		b.WriteRune('\n')
	}
	row("built", humanize.Time(m.snap.BuiltAt))

	return b.String()
}

// --- Helpers ---

// formatFloat prints x with prec decimals (-1 for the shortest form) and
// "n/a" for NaN.
func formatFloat(x float64, prec int) string {
	if math.IsNaN(x) {
		return "n/a"
	}
	if prec < 0 {
		return fmt.Sprintf("%g", x)
	}
	return fmt.Sprintf("%.*f", prec, x)
}

// truncateLines truncates each line in content to at most width visible
// characters, preserving ANSI escape codes. This prevents terminal line
// wrapping when the window is resized narrower.
func truncateLines(content string, width int) string {
	if width <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}
