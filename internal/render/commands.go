package render

import (
	"fmt"
	"time"
)

// Command is a request to change renderer state, applied on the render
// goroutine at the start of the next frame.
type Command interface {
	apply(r *Renderer) error
	String() string
}

// SwapTo switches to a playlist immediately, cancelling any fade.
type SwapTo struct {
	Playlist string
}

func (c SwapTo) apply(r *Renderer) error {
	if _, err := r.scene(c.Playlist); err != nil {
		return err
	}
	r.active = c.Playlist
	r.fade = nil
	r.fadeTarget = ""
	return nil
}

func (c SwapTo) String() string { return "swap to " + c.Playlist }

// FadeTo blends into a playlist over Duration. With Via set, it passes
// through that playlist at the midpoint.
type FadeTo struct {
	Playlist string
	Via      string
	Duration time.Duration
}

func (c FadeTo) apply(r *Renderer) error {
	return r.startFade(c.Playlist, c.Via, c.Duration)
}

func (c FadeTo) String() string {
	if c.Via != "" {
		return fmt.Sprintf("fade to %s via %s over %s", c.Playlist, c.Via, c.Duration)
	}
	return fmt.Sprintf("fade to %s over %s", c.Playlist, c.Duration)
}

// Advance moves a playlist to its next routine. An empty name means the
// active playlist.
type Advance struct {
	Playlist string
}

func (c Advance) apply(r *Renderer) error {
	name := c.Playlist
	if name == "" {
		name = r.active
	}
	pl, ok := r.playlists[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlaylist, name)
	}
	pl.Advance()
	return nil
}

func (c Advance) String() string {
	if c.Playlist == "" {
		return "advance active"
	}
	return "advance " + c.Playlist
}
