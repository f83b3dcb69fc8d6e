// Package library indexes the music found in the configured directories.
package library

import (
	"database/sql"

	"github.com/samber/lo"

	"github.com/llehouerou/moosack/internal/db"
	"github.com/llehouerou/moosack/internal/source"
)

// Track is an indexed music file.
type Track struct {
	Path        string
	Mtime       int64
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	TrackNumber int
}

// Library is the track index stored in the state database.
type Library struct {
	db *sql.DB
}

func New(db *sql.DB) *Library {
	return &Library{db: db}
}

// Tracks returns every indexed track ordered by album artist, album and track number.
func (l *Library) Tracks() ([]Track, error) {
	rows, err := l.db.Query(`
		SELECT path, mtime, title, artist, album_artist, album, track_number
		FROM library_tracks
		ORDER BY album_artist COLLATE NOCASE, album COLLATE NOCASE, track_number, path
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		var t Track
		var artist, albumArtist, album sql.NullString
		var trackNumber sql.NullInt64
		if err := rows.Scan(&t.Path, &t.Mtime, &t.Title, &artist, &albumArtist, &album, &trackNumber); err != nil {
			return nil, err
		}
		t.Artist = db.NullStringValue(artist)
		t.AlbumArtist = db.NullStringValue(albumArtist)
		t.Album = db.NullStringValue(album)
		t.TrackNumber = int(db.NullInt64Value(trackNumber))
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// Count returns the number of indexed tracks.
func (l *Library) Count() (int, error) {
	var n int
	err := l.db.QueryRow(`SELECT COUNT(*) FROM library_tracks`).Scan(&n)
	return n, err
}

// Sources turns tracks into playable sources, keeping their order.
func Sources(tracks []Track) []source.Source {
	return lo.Map(tracks, func(t Track, _ int) source.Source {
		return source.File(t.Path)
	})
}
