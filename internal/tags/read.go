package tags

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/dhowden/tag"

	"github.com/llehouerou/moosack/internal/source"
)

// Read reads tag metadata from a music file. A file without tags is not an
// error: its title falls back to the file name.
func Read(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return &Tag{Path: path, Title: filepath.Base(path)}, nil
	}
	if err != nil {
		return nil, err
	}

	title := m.Title()
	if title == "" {
		title = filepath.Base(path)
	}

	track, totalTracks := m.Track()
	disc, _ := m.Disc()

	albumArtist := m.AlbumArtist()
	if albumArtist == "" {
		albumArtist = m.Artist()
	}

	return &Tag{
		Path:        path,
		Title:       title,
		Artist:      m.Artist(),
		AlbumArtist: albumArtist,
		Album:       m.Album(),
		Genre:       m.Genre(),
		TrackNumber: track,
		TotalTracks: totalTracks,
		DiscNumber:  disc,
		Date:        yearToDate(m.Year()),
	}, nil
}

// ForSource returns the metadata to display for src. local is the file the
// source was loaded from, such as the fetched copy of a URL; when empty the
// source's own path is used. Sources with no readable file fall back to the
// source's display name.
func ForSource(src source.Source, local string) *Tag {
	path := local
	if path == "" {
		p, ok := src.Normalize().Path()
		if !ok {
			return &Tag{Title: src.DisplayName()}
		}
		path = p
	}
	t, err := Read(path)
	if err != nil {
		return &Tag{Path: path, Title: src.DisplayName()}
	}
	// An untitled fetched copy is named after the source, not the cache file.
	if t.Title == filepath.Base(path) {
		t.Title = src.DisplayName()
	}
	return t
}
