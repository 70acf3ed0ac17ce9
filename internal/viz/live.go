package viz

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/rain"
	"github.com/san-kum/wavesim/internal/sim"
	"github.com/san-kum/wavesim/internal/waves"
)

const (
	width           = 72
	height          = 30
	historyCapacity = 300
	minScale        = 0.05
)

type viewMode int

const (
	viewHeightmap viewMode = iota
	viewProfile
	viewSurface
)

func (v viewMode) String() string {
	switch v {
	case viewProfile:
		return "profile"
	case viewSurface:
		return "surface"
	default:
		return "heightmap"
	}
}

type TickMsg time.Time

// Model drives one field at a fixed frame rate: rain, then update, then draw.
type Model struct {
	name      string
	cfg       *config.Config
	field     *waves.Field
	source    rain.Source
	frameDt   float64
	t         float64
	frames    int
	running   bool
	splashes  int
	width     int
	height    int
	mode      viewMode
	canvas    *Canvas
	camera    *Camera
	paramKeys []string
	selected  int
	energy    []float64
	probe     []float64
	showHelp  bool
	err       error
}

// NewModel builds a live view over a fresh field described by cfg.
func NewModel(cfg *config.Config, name string) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	f, err := cfg.NewField()
	if err != nil {
		return Model{}, err
	}
	src, err := cfg.RainSource(cfg.Run.Seed)
	if err != nil {
		return Model{}, err
	}

	return Model{
		name:      name,
		cfg:       cfg.Clone(),
		field:     f,
		source:    src,
		frameDt:   cfg.Run.FrameDt,
		running:   true,
		width:     width,
		height:    height,
		canvas:    NewCanvas(width, height),
		camera:    NewCamera(),
		paramKeys: []string{"speed", "damping"},
		energy:    make([]float64, 0, historyCapacity),
		probe:     make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) Field() *waves.Field { return m.field }
func (m Model) Time() float64       { return m.t }
func (m Model) Running() bool       { return m.running }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.frameDt*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "d":
			m.disturbCentre()
		case "r":
			m.reset()
		case "tab":
			m.selected = (m.selected + 1) % len(m.paramKeys)
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "v":
			m.mode = (m.mode + 1) % 3
		case "t":
			NextTheme()
		case "left", "h":
			m.camera.Orbit(-0.1)
		case "right", "l":
			m.camera.Orbit(0.1)
		case "[":
			m.camera.Tilt(-0.05)
		case "]":
			m.camera.Tilt(0.05)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.width = max(20, min(msg.Width-52, 160))
		m.height = max(10, msg.Height-4)
		m.canvas = NewCanvas(m.width, m.height)
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.splashes += m.source.Emit(m.field, m.frameDt)
	m.field.Update(m.frameDt)
	m.t += m.frameDt
	m.frames++

	if !m.field.IsValid() {
		m.running = false
		m.err = sim.SimError{Time: m.t, Frame: m.frames, Message: "field diverged (NaN/Inf height)"}
		slog.Warn("live view paused", slog.Any("err", m.err))
		return
	}

	m.energy = appendCapped(m.energy, m.field.Energy())
	pi, pj := m.probeCell()
	m.probe = appendCapped(m.probe, float64(m.field.Height(pi, pj)))
}

func appendCapped(xs []float64, v float64) []float64 {
	if len(xs) >= historyCapacity {
		copy(xs, xs[1:])
		xs = xs[:len(xs)-1]
	}
	return append(xs, v)
}

func (m *Model) probeCell() (int, int) {
	i, j := m.cfg.Run.ProbeRow, m.cfg.Run.ProbeCol
	if i < 0 {
		i = m.field.RowCount() / 2
	}
	if j < 0 {
		j = m.field.ColumnCount() / 2
	}
	return i, j
}

func (m *Model) disturbCentre() {
	mag := m.cfg.Run.Splash
	if mag == 0 {
		mag = 1
	}
	m.field.Disturb(m.field.RowCount()/2, m.field.ColumnCount()/2, float32(mag))
}

func (m *Model) reset() {
	m.field.Reset()
	m.t = 0
	m.frames = 0
	m.splashes = 0
	m.energy = m.energy[:0]
	m.probe = m.probe[:0]
	m.err = nil
}

// adjustParam scales the selected parameter and re-initializes the field,
// which discards the current surface.
func (m *Model) adjustParam(factor float64) {
	next := m.cfg.Clone()
	switch m.paramKeys[m.selected] {
	case "speed":
		next.Physics.Speed *= factor
	case "damping":
		if next.Physics.Damping == 0 && factor > 1 {
			next.Physics.Damping = 0.05
		} else {
			next.Physics.Damping *= factor
		}
	}

	if err := m.field.Init(next.Params()); err != nil {
		m.err = err
		return
	}
	m.cfg = next
	m.err = nil
	slog.Debug("field re-initialized",
		slog.String("param", m.paramKeys[m.selected]),
		slog.Float64("speed", next.Physics.Speed),
		slog.Float64("damping", next.Physics.Damping),
		slog.Bool("stable", next.Params().Stable()),
	)
}

func (m Model) param(key string) float64 {
	switch key {
	case "speed":
		return m.cfg.Physics.Speed
	case "damping":
		return m.cfg.Physics.Damping
	}
	return 0
}

func (m *Model) scale() float64 {
	return finiteScale(m.field.MaxAbsHeight())
}

func finiteScale(s float64) float64 {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return minScale
	}
	return math.Max(s, minScale)
}

func (m *Model) draw() string {
	switch m.mode {
	case viewProfile:
		m.canvas.Clear()
		pi, _ := m.probeCell()
		row := make([]float32, m.field.ColumnCount())
		for j := range row {
			row[j] = m.field.Height(pi, j)
		}
		m.canvas.Profile(row, m.scale())
		return m.canvas.String()
	case viewSurface:
		m.canvas.Clear()
		RenderSurface(m.canvas, m.field, m.camera)
		return m.canvas.String()
	default:
		return Heightmap(m.field.Heights(), m.field.RowCount(), m.field.ColumnCount(), m.width, m.height, m.scale())
	}
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.draw())

	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.name)) + "\n")
	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING"))
	} else {
		s.WriteString(StatusPaused.Render("PAUSED"))
	}
	s.WriteString("  " + labelStyle.Render(m.mode.String()) + "\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(5), asciigraph.Width(26), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle().Render(chart) + "\n")
	}
	if len(m.probe) > 0 {
		s.WriteString(labelStyle.Render("Probe") + valueStyle.Render(SparklineChart(m.probe, 28)) + "\n")
	}

	energy := 0.0
	if len(m.energy) > 0 {
		energy = m.energy[len(m.energy)-1]
	}
	p := m.cfg.Params()
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", m.field.Steps())) + "\n")
	s.WriteString(labelStyle.Render("Splashes") + valueStyle.Render(fmt.Sprintf("%d (%s)", m.splashes, m.source.Name())) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.4f", energy)) + "\n")
	s.WriteString(labelStyle.Render("Grid") + valueStyle.Render(fmt.Sprintf("%dx%d", p.Rows, p.Cols)) + "\n")
	courant := fmt.Sprintf("%.3f", p.Courant())
	if p.Stable() {
		s.WriteString(labelStyle.Render("Courant") + valueStyle.Render(courant) + "\n")
	} else {
		s.WriteString(labelStyle.Render("Courant") + warningStyle().Render(courant+" UNSTABLE") + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-10s %.3f", k, m.param(k))
		if i == m.selected {
			s.WriteString(activeParamStyle().Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}
	if m.err != nil {
		s.WriteString(warningStyle().Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause D:Drop R:Reset Q:Quit\nTab/↑↓:Tune V:View T:Theme ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space    pause / resume
  D        drop a splash in the centre
  R        flatten the surface
  Tab      select speed or damping
  Up/K     increase selected (+5%, re-init)
  Down/J   decrease selected (-5%, re-init)
  V        heightmap / profile / surface
  H/L      orbit the surface camera
  [/]      tilt the surface camera
  +/-      zoom the surface camera
  T        cycle themes
  Q        quit
`
