// Package render turns playlists of routines into finished frames.
//
// A [Renderer] holds named playlists and draws the selected routine of the
// active one, or an in-progress [Fade] between playlists, then applies gamma
// correction. Other goroutines steer it by submitting [Command] values; the
// queue is drained at the start of each Render call so state never changes
// mid-frame.
//
// # Overlapping fades
//
// A fade requested while another is running replaces it. The running fade
// becomes the start scene of the new one and keeps evolving underneath, so
// the switch has no visible jump. If the running fade was itself started
// from a fade, its end scene is used instead to keep nesting bounded.
package render
