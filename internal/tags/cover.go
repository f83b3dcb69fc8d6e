package tags

import (
	"os"
	"path/filepath"
	"strings"
)

// Common cover art filenames to look for in album folders, in priority order.
var coverArtFilenames = []string{
	"cover.jpg", "cover.jpeg", "cover.png",
	"folder.jpg", "folder.jpeg", "folder.png",
	"album.jpg", "album.jpeg", "album.png",
	"front.jpg", "front.jpeg", "front.png",
	"artwork.jpg", "artwork.jpeg", "artwork.png",
}

// CoverArtPath looks for a cover image next to the track.
// Returns the image path, or "" if none is found.
func CoverArtPath(trackPath string) string {
	dir := filepath.Dir(trackPath)
	for _, name := range coverArtFilenames {
		for _, candidate := range []string{name, strings.ToUpper(name)} {
			path := filepath.Join(dir, candidate)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}
