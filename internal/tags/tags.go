// Package tags reads the metadata shown for a playing source.
package tags

import (
	"strconv"
)

// Tag contains the metadata of a music file.
type Tag struct {
	Path        string
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Genre       string

	TrackNumber int
	TotalTracks int
	DiscNumber  int

	// Release date (YYYY-MM-DD or YYYY)
	Date string
}

// Year derives the year from the Date field.
// Returns 0 if Date is empty or cannot be parsed.
func (t *Tag) Year() int {
	if t.Date == "" {
		return 0
	}
	// Date may be YYYY-MM-DD or just YYYY
	year := t.Date
	if len(year) > 4 {
		year = year[:4]
	}
	y, _ := strconv.Atoi(year)
	return y
}

// Label returns "Artist - Title", or just the title when the artist is unknown.
func (t *Tag) Label() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}

func yearToDate(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year)
}
