// Package playlist holds an ordered set of items with one active selection.
//
// Advancing walks the items in traversal order and wraps to the start. With
// shuffle enabled the traversal order is a random permutation that is
// redrawn only when the walk wraps, so every item is visited once per cycle.
package playlist

import (
	"errors"
	"math/rand"
	"time"
)

var ErrEmpty = errors.New("playlist: no items")

type options struct {
	shuffle bool
	start   int
	rng     *rand.Rand
}

type Option func(*options)

// WithShuffle enables shuffled traversal.
func WithShuffle(on bool) Option { return func(o *options) { o.shuffle = on } }

// WithStart selects the initial traversal position.
func WithStart(i int) Option { return func(o *options) { o.start = i } }

// WithRand sets the source used for shuffling.
func WithRand(r *rand.Rand) Option { return func(o *options) { o.rng = r } }

// Playlist is not safe for concurrent use; it is owned by the render loop.
type Playlist[T any] struct {
	items   []T
	order   []int
	pos     int
	shuffle bool
	rng     *rand.Rand
}

func New[T any](items []T, opts ...Option) (*Playlist[T], error) {
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	p := &Playlist[T]{
		items:   items,
		order:   make([]int, len(items)),
		shuffle: o.shuffle,
		rng:     o.rng,
	}
	for i := range p.order {
		p.order[i] = i
	}
	if p.shuffle {
		p.reshuffle()
	}
	if o.start > 0 && o.start < len(items) {
		p.pos = o.start
	}
	return p, nil
}

// Selection returns the active item.
func (p *Playlist[T]) Selection() T { return p.items[p.order[p.pos]] }

// Index returns the active item's index into Items.
func (p *Playlist[T]) Index() int { return p.order[p.pos] }

// Position returns how far through the current traversal cycle the walk is.
func (p *Playlist[T]) Position() int { return p.pos }

func (p *Playlist[T]) Len() int       { return len(p.items) }
func (p *Playlist[T]) Items() []T     { return p.items }
func (p *Playlist[T]) Shuffled() bool { return p.shuffle }

// Order returns a copy of the traversal permutation.
func (p *Playlist[T]) Order() []int {
	out := make([]int, len(p.order))
	copy(out, p.order)
	return out
}

// Advance moves to the next item. A single-item playlist does not move.
func (p *Playlist[T]) Advance() {
	if len(p.items) < 2 {
		return
	}
	next := p.pos + 1
	if next >= len(p.items) {
		if p.shuffle {
			p.reshuffle()
		}
		next = 0
	}
	p.pos = next
}

func (p *Playlist[T]) reshuffle() {
	p.rng.Shuffle(len(p.order), func(i, j int) {
		p.order[i], p.order[j] = p.order[j], p.order[i]
	})
}
