package render

import "errors"

var (
	// ErrQueueFull indicates the command queue is full and the command was dropped.
	ErrQueueFull = errors.New("render: command queue full")

	// ErrUnknownPlaylist indicates a command naming a playlist the renderer lacks.
	ErrUnknownPlaylist = errors.New("render: unknown playlist")

	// ErrNoPlaylists indicates a renderer constructed without any playlist.
	ErrNoPlaylists = errors.New("render: no playlists")
)
