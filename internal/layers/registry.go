package layers

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/playlist"
)

// ResponseDefaults are the response options a responsive type uses when the
// spec leaves them out.
type ResponseDefaults struct {
	Channel lumen.Channel
	Smooth  float64
	Inverse bool
}

type (
	LayerFactory      func(r *Registry, s Spec) (lumen.Layer, error)
	ResponsiveFactory func(r *Registry, s Spec) (ResponsiveRenderer, error)
)

type entry struct {
	doc        string
	layer      LayerFactory
	responsive ResponsiveFactory
	defaults   ResponseDefaults
}

// Options configure a Registry.
type Options struct {
	// MaxErrors is the consecutive failure count that disables a layer.
	MaxErrors int
	// Seed seeds every layer's random source. Zero picks one from the clock.
	Seed   int64
	Clock  lumen.Clock
	Logger *slog.Logger
}

// Registry builds layers, routines and playlists from specs.
type Registry struct {
	entries map[string]entry
	opts    Options
	seeds   *rand.Rand
}

func NewRegistry(opts Options) *Registry {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Clock == nil {
		opts.Clock = lumen.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Registry{
		entries: make(map[string]entry),
		opts:    opts,
		seeds:   rand.New(rand.NewSource(opts.Seed)),
	}
	registerBuiltins(r)
	return r
}

func (r *Registry) Register(name, doc string, fn LayerFactory) {
	r.entries[name] = entry{doc: doc, layer: fn}
}

func (r *Registry) RegisterResponsive(name, doc string, def ResponseDefaults, fn ResponsiveFactory) {
	r.entries[name] = entry{doc: doc, responsive: fn, defaults: def}
}

// Types lists registered layer types in name order.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Describe returns the one-line description of a type and whether it
// responds to the headset.
func (r *Registry) Describe(name string) (doc string, responsive bool, ok bool) {
	e, ok := r.entries[name]
	return e.doc, e.responsive != nil, ok
}

// Rand returns a new random source seeded from the registry.
func (r *Registry) Rand() *rand.Rand {
	return rand.New(rand.NewSource(r.seeds.Int63()))
}

func (r *Registry) Seed() int64 { return r.seeds.Int63() }

// Build constructs the bare layer described by s.
func (r *Registry) Build(s Spec) (lumen.Layer, error) {
	e, ok := r.entries[s.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, s.Type)
	}
	if e.layer != nil {
		return e.layer(r, s)
	}

	inner, err := e.responsive(r, s)
	if err != nil {
		return nil, err
	}
	opts := ResponsiveOptions{
		Channel:  e.defaults.Channel,
		Smooth:   seconds(e.defaults.Smooth),
		Inverse:  e.defaults.Inverse,
		MinLevel: s.MinLevel,
		Clock:    r.opts.Clock,
	}
	if s.RespondTo != "" {
		ch, err := lumen.ParseChannel(s.RespondTo)
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", s.label(), err)
		}
		opts.Channel = ch
	}
	if s.Smooth != nil {
		opts.Smooth = seconds(*s.Smooth)
	}
	if s.Inverse != nil {
		opts.Inverse = *s.Inverse
	}
	return NewResponsive(inner, opts), nil
}

// BuildSafe constructs s wrapped in failure isolation.
func (r *Registry) BuildSafe(s Spec) (*Safe, error) {
	l, err := r.Build(s)
	if err != nil {
		return nil, err
	}
	return NewSafe(s.label(), l, r.opts.MaxErrors, r.opts.Logger), nil
}

func (r *Registry) BuildRoutine(rs RoutineSpec) (*Routine, error) {
	if len(rs.Layers) == 0 {
		return nil, fmt.Errorf("%w: routine %q has no layers", ErrInvalidSpec, rs.Name)
	}
	name := rs.Name
	if name == "" {
		name = rs.Layers[0].label()
	}
	rt := &Routine{Name: name, Layers: make([]*Safe, 0, len(rs.Layers))}
	for _, s := range rs.Layers {
		l, err := r.BuildSafe(s)
		if err != nil {
			return nil, fmt.Errorf("routine %s: %w", name, err)
		}
		rt.Layers = append(rt.Layers, l)
	}
	return rt, nil
}

func (r *Registry) BuildPlaylist(ps PlaylistSpec) (*playlist.Playlist[*Routine], error) {
	routines := make([]*Routine, 0, len(ps.Routines))
	for _, rs := range ps.Routines {
		rt, err := r.BuildRoutine(rs)
		if err != nil {
			return nil, err
		}
		routines = append(routines, rt)
	}
	return playlist.New(routines, playlist.WithShuffle(ps.Shuffle), playlist.WithRand(r.Rand()))
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
