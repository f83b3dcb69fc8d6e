package library

import (
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// MusicExtensions lists the file extensions recognised as music, without the dot.
var MusicExtensions = []string{
	"aac", "ac3", "dta", "flac", "m4a", "m4p", "mka",
	"mod", "mp1", "mp2", "mp3", "ogg", "oma", "pls", "raw",
	"spx", "wav", "wma",
}

// PlaylistExtensions lists the file extensions recognised as playlists, without the dot.
var PlaylistExtensions = []string{"b4s", "cue", "m3u", "xspf"}

// IsMusic reports whether path has a music file extension (case-insensitive).
func IsMusic(path string) bool {
	return lo.Contains(MusicExtensions, extension(path))
}

// IsPlaylist reports whether path has a playlist file extension (case-insensitive).
func IsPlaylist(path string) bool {
	return lo.Contains(PlaylistExtensions, extension(path))
}

// extension returns the lower-cased extension of path without the dot.
func extension(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
