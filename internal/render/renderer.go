package render

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/san-kum/lumitree/internal/layers"
	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/playlist"
	"github.com/san-kum/lumitree/internal/topology"
)

const (
	DefaultGamma     = 2.2
	DefaultQueueSize = 16
)

// Playlist is a playlist of routines as the renderer consumes it.
type Playlist = playlist.Playlist[*layers.Routine]

// Options configure a Renderer.
type Options struct {
	Gamma     float64
	QueueSize int
	Clock     lumen.Clock
	Logger    *slog.Logger
}

// Renderer draws the active playlist's selected routine, or the active fade,
// and applies gamma correction last. All state is owned by the goroutine
// calling Render; other goroutines change it only through Submit.
type Renderer struct {
	playlists map[string]*Playlist
	scenes    map[string]lumen.Layer
	active    string

	fade       Fade
	fadeTarget string

	// frameNo counts Render calls; scenes cache their output per value.
	frameNo uint64

	gamma    *lumen.Gamma
	commands chan Command
	clock    lumen.Clock
	logger   *slog.Logger
}

func New(playlists map[string]*Playlist, active string, opts Options) (*Renderer, error) {
	if len(playlists) == 0 {
		return nil, ErrNoPlaylists
	}
	if _, ok := playlists[active]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlaylist, active)
	}
	if opts.Gamma <= 0 {
		opts.Gamma = DefaultGamma
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Clock == nil {
		opts.Clock = lumen.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := &Renderer{
		playlists: playlists,
		scenes:    make(map[string]lumen.Layer, len(playlists)),
		active:    active,
		gamma:     lumen.NewGamma(opts.Gamma),
		commands:  make(chan Command, opts.QueueSize),
		clock:     opts.Clock,
		logger:    opts.Logger.With("component", "render"),
	}
	for name, pl := range playlists {
		r.scenes[name] = &playlistScene{pl: pl, frame: &r.frameNo}
	}
	return r, nil
}

// Submit queues cmd for the render goroutine. It never blocks.
func (r *Renderer) Submit(cmd Command) error {
	select {
	case r.commands <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// Render draws one frame. Queued commands are applied first. A frame whose
// length differs from the model's LED count is rejected untouched.
func (r *Renderer) Render(m *topology.Model, p *lumen.Params, frame lumen.Frame) error {
	if m != nil && len(frame) != m.NumLEDs() {
		return fmt.Errorf("%w: %d pixels for %d leds", lumen.ErrFrameSize, len(frame), m.NumLEDs())
	}
	r.drain()
	r.frameNo++

	var err error
	if r.fade != nil {
		err = r.fade.Render(m, p, frame)
		if r.fade.Done() {
			r.logger.Debug("fade complete", "playlist", r.fadeTarget)
			r.active = r.fadeTarget
			r.fade = nil
			r.fadeTarget = ""
		}
	} else {
		err = r.scenes[r.active].Render(m, p, frame)
	}

	r.gamma.Apply(frame)
	return err
}

func (r *Renderer) drain() {
	for {
		select {
		case cmd := <-r.commands:
			if err := cmd.apply(r); err != nil {
				r.logger.Warn("command rejected", "command", cmd.String(), "error", err)
			}
		default:
			return
		}
	}
}

// Active returns the canonical playlist name. While fading it is the
// playlist the fade started from.
func (r *Renderer) Active() string { return r.active }

// Target returns the playlist being faded to, or "" when no fade runs.
func (r *Renderer) Target() string { return r.fadeTarget }

func (r *Renderer) Fading() bool { return r.fade != nil }

func (r *Renderer) Gamma() *lumen.Gamma { return r.gamma }

// Playlist returns the named playlist.
func (r *Renderer) Playlist(name string) (*Playlist, bool) {
	pl, ok := r.playlists[name]
	return pl, ok
}

// Names lists playlist names in order.
func (r *Renderer) Names() []string {
	names := make([]string, 0, len(r.playlists))
	for n := range r.playlists {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Selection returns the routine currently shown by the named playlist.
func (r *Renderer) Selection(name string) *layers.Routine {
	if pl, ok := r.playlists[name]; ok {
		return pl.Selection()
	}
	return nil
}

func (r *Renderer) scene(name string) (lumen.Layer, error) {
	s, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlaylist, name)
	}
	return s, nil
}

// fadeOrigin picks the start scene for a new fade. An in-progress fade is
// replaced but keeps rendering underneath as the new start, unless it is
// itself already blending from a fade; then its end scene is used so nesting
// stays one level deep.
func (r *Renderer) fadeOrigin() lumen.Layer {
	if r.fade == nil {
		return r.scenes[r.active]
	}
	if _, nested := r.fade.Start().(Fade); nested {
		return r.fade.End()
	}
	return r.fade
}

func (r *Renderer) startFade(target, via string, d time.Duration) error {
	end, err := r.scene(target)
	if err != nil {
		return err
	}
	start := r.fadeOrigin()

	if via == "" {
		r.fade = NewLinearFade(start, end, d, r.clock)
	} else {
		mid, err := r.scene(via)
		if err != nil {
			return err
		}
		r.fade = NewTwoStepFade(start, mid, end, d, r.clock)
	}
	r.fadeTarget = target
	r.logger.Info("fade started", "from", r.active, "to", target, "via", via, "duration", d)
	return nil
}

// playlistScene renders whatever routine its playlist currently selects, at
// most once per frame. A replacement fade keeps the old fade as its start, so
// the same playlist can be reached twice in one frame; later calls reuse the
// first result and stateful layers advance once.
type playlistScene struct {
	pl    *Playlist
	frame *uint64
	drawn uint64
	buf   lumen.Frame
	err   error
}

func (s *playlistScene) Render(m *topology.Model, p *lumen.Params, frame lumen.Frame) error {
	if s.drawn != *s.frame || len(s.buf) != len(frame) {
		if len(s.buf) != len(frame) {
			s.buf = lumen.NewFrame(len(frame))
		}
		s.buf.Clear()
		s.err = s.pl.Selection().Render(m, p, s.buf)
		s.drawn = *s.frame
	}
	for i, c := range s.buf {
		frame[i] = frame[i].Add(c)
	}
	return s.err
}
