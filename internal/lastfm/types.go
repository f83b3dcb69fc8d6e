package lastfm

import (
	"time"

	"github.com/llehouerou/moosack/internal/tags"
)

// ScrobbleTrack contains track metadata for scrobbling.
type ScrobbleTrack struct {
	Artist      string
	Track       string
	Album       string
	AlbumArtist string
	Duration    time.Duration
	Timestamp   time.Time // When playback started
}

// TrackFromTag builds the scrobble metadata of a tagged file.
func TrackFromTag(t *tags.Tag, duration time.Duration) ScrobbleTrack {
	return ScrobbleTrack{
		Artist:      t.Artist,
		Track:       t.Title,
		Album:       t.Album,
		AlbumArtist: t.AlbumArtist,
		Duration:    duration,
	}
}

// Scrobbleable reports whether Last.fm accepts the track at all.
func (t ScrobbleTrack) Scrobbleable() bool {
	return t.Artist != "" && t.Track != ""
}
