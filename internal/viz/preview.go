package viz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/lumitree/internal/animation"
	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/render"
	"github.com/san-kum/lumitree/internal/topology"
)

const (
	refreshRate   = time.Second / 30
	historyLength = 60
	fadeDuration  = 2 * time.Second
	rotateStep    = math.Pi / 24
)

// Status is what the preview shows under the sculpture. It is captured on
// the animation goroutine.
type Status struct {
	Playlist string
	Target   string
	Routine  string
	Sample   string
}

type Options struct {
	// Submit sends renderer commands from key presses. Nil disables them.
	Submit    func(render.Command) error
	Playlists []string
	// StatusFunc is called from the animation goroutine after each frame.
	StatusFunc func() Status
	TargetFPS  float64
}

// Preview is a pixel sink that draws frames in the terminal. PutPixels and
// ObserveFrame are called by the animation loop; the Bubble Tea program
// reads the latest state on its own ticks.
type Preview struct {
	model *topology.Model
	opts  Options

	mu      sync.Mutex
	pixels  []lumen.Color
	status  Status
	fps     []float64
	frames  int
	sinkErr error
}

func NewPreview(m *topology.Model, opts Options) *Preview {
	if opts.TargetFPS <= 0 {
		opts.TargetFPS = lumen.DefaultFrameRate
	}
	return &Preview{model: m, opts: opts, pixels: make([]lumen.Color, m.NumLEDs())}
}

// PutPixels stores a copy of the frame. Pixels are in 0-255.
func (p *Preview) PutPixels(_ int, pixels []lumen.Color) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pixels) != len(pixels) {
		p.pixels = make([]lumen.Color, len(pixels))
	}
	copy(p.pixels, pixels)
	return nil
}

func (p *Preview) ObserveFrame(s animation.FrameStats) {
	var st Status
	if p.opts.StatusFunc != nil {
		st = p.opts.StatusFunc()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = st
	p.frames = s.Index + 1
	p.sinkErr = s.SinkErr
	if s.FPS > 0 && s.Index%15 == 0 {
		p.fps = append(p.fps, s.FPS)
		if len(p.fps) > historyLength {
			p.fps = p.fps[1:]
		}
	}
}

type snapshot struct {
	pixels  []lumen.Color
	status  Status
	fps     []float64
	frames  int
	sinkErr error
}

func (p *Preview) snapshot(dst []lumen.Color) snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(dst) != len(p.pixels) {
		dst = make([]lumen.Color, len(p.pixels))
	}
	copy(dst, p.pixels)
	return snapshot{
		pixels:  dst,
		status:  p.status,
		fps:     append([]float64(nil), p.fps...),
		frames:  p.frames,
		sinkErr: p.sinkErr,
	}
}

// Run shows the preview until the user quits or ctx ends.
func (p *Preview) Run(ctx context.Context) error {
	prog := tea.NewProgram(newViewModel(p), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := prog.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refreshRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type viewModel struct {
	p      *Preview
	cam    *Camera
	canvas *Canvas
	snap   snapshot
	note   string
}

func newViewModel(p *Preview) *viewModel {
	return &viewModel{
		p:      p,
		cam:    NewCamera(Centroid(p.model)),
		canvas: NewCanvas(80, 24),
	}
}

func (m *viewModel) Init() tea.Cmd { return tick() }

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.canvas.Resize(msg.Width, msg.Height-5)
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.cam.Rotate(-rotateStep)
		case "right", "l":
			m.cam.Rotate(rotateStep)
		case "up", "k":
			m.cam.Tilt(rotateStep)
		case "down", "j":
			m.cam.Tilt(-rotateStep)
		case "+", "=":
			m.cam.ZoomIn()
		case "-", "_":
			m.cam.ZoomOut()
		case "n":
			m.submit(render.Advance{})
		default:
			if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
				if i := int(key[0] - '1'); i < len(m.p.opts.Playlists) {
					m.submit(render.FadeTo{Playlist: m.p.opts.Playlists[i], Duration: fadeDuration})
				}
			}
		}
	case tickMsg:
		m.draw()
		return m, tick()
	}
	return m, nil
}

func (m *viewModel) submit(cmd render.Command) {
	if m.p.opts.Submit == nil {
		return
	}
	if err := m.p.opts.Submit(cmd); err != nil {
		m.note = err.Error()
		return
	}
	m.note = cmd.String()
}

func (m *viewModel) draw() {
	m.snap = m.p.snapshot(m.snap.pixels)
	m.canvas.Clear()
	w, h := m.canvas.Width, m.canvas.Height
	for i, px := range m.snap.pixels {
		if i >= m.p.model.NumLEDs() {
			break
		}
		x, y, depth, ok := m.cam.Project(m.p.model.Center(i), w, h)
		if !ok {
			continue
		}
		m.canvas.Set(x, y, px.Scale(1/animation.HardwareScale), depth)
	}
}

func (m *viewModel) View() string {
	var b strings.Builder
	b.WriteString(m.canvas.String())

	st := m.snap.status
	fps := 0.0
	if n := len(m.snap.fps); n > 0 {
		fps = m.snap.fps[n-1]
	}
	line := []string{
		MetricLabel.Render("playlist ") + MetricValue.Render(orDash(st.Playlist)),
		MetricLabel.Render("routine ") + MetricValue.Render(orDash(st.Routine)),
		MetricLabel.Render("fps ") + MetricValue.Render(fmt.Sprintf("%.1f", fps)),
		MetricLabel.Render("frames ") + MetricValue.Render(fmt.Sprintf("%d", m.snap.frames)),
	}
	if st.Target != "" {
		line = append(line, StatusFading.Render("fading to "+st.Target))
	}
	b.WriteString(strings.Join(line, "  "))
	b.WriteByte('\n')
	b.WriteString(MetricLabel.Render("signal ") + orDash(st.Sample) + "  ")
	b.WriteString(Sparkline(m.snap.fps, 30, m.p.opts.TargetFPS))
	b.WriteByte('\n')
	if m.snap.sinkErr != nil {
		b.WriteString(StatusWarn.Render(m.snap.sinkErr.Error()))
	} else if m.note != "" {
		b.WriteString(Subtle.Render(m.note))
	}
	b.WriteByte('\n')
	b.WriteString(KeyHint.Render("←→↑↓ rotate  +/- zoom  n next  1-9 fade to playlist  q quit"))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
