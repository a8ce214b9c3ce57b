// Package config loads the YAML configuration for the lumitree binary.
//
// Missing keys keep their DefaultConfig values. Playlists may be given
// inline; otherwise the named built-in preset is used.
package config
