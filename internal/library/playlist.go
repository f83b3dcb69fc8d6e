package library

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/llehouerou/moosack/internal/source"
)

// ErrUnsupportedPlaylist is returned for playlist formats that are recognised but cannot be expanded.
var ErrUnsupportedPlaylist = errors.New("unsupported playlist format")

// ExpandPlaylist reads the playlist at path and returns its entries in order.
// Relative entries are resolved against the playlist's directory.
// M3U/M3U8, PLS and XSPF are supported.
func ExpandPlaylist(path string) ([]source.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []string
	switch extension(path) {
	case "m3u", "m3u8":
		entries, err = parseM3U(f)
	case "pls":
		entries, err = parsePLS(f)
	case "xspf":
		entries, err = parseXSPF(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlaylist, filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("read playlist %s: %w", filepath.Base(path), err)
	}

	dir := filepath.Dir(path)
	return lo.Map(entries, func(entry string, _ int) source.Source {
		return resolveEntry(dir, entry)
	}), nil
}

// isExpandable reports whether ExpandPlaylist can read path.
func isExpandable(path string) bool {
	switch extension(path) {
	case "m3u", "m3u8", "pls", "xspf":
		return true
	}
	return false
}

func resolveEntry(dir, entry string) source.Source {
	src := source.Parse(entry)
	if src.Kind() == source.KindFile && !filepath.IsAbs(entry) {
		return source.File(filepath.Join(dir, filepath.FromSlash(entry)))
	}
	return src
}

// parseM3U returns the non-comment lines of an M3U playlist.
func parseM3U(r io.Reader) ([]string, error) {
	var entries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	return entries, scanner.Err()
}

// parsePLS returns the FileN= entries of a PLS playlist in file order.
func parsePLS(r io.Reader) ([]string, error) {
	var entries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok || !strings.HasPrefix(strings.ToLower(key), "file") {
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			entries = append(entries, value)
		}
	}
	return entries, scanner.Err()
}

type xspfPlaylist struct {
	Tracks []struct {
		Location string `xml:"location"`
	} `xml:"trackList>track"`
}

// parseXSPF returns the track locations of an XSPF playlist.
func parseXSPF(r io.Reader) ([]string, error) {
	var pl xspfPlaylist
	if err := xml.NewDecoder(r).Decode(&pl); err != nil {
		return nil, err
	}
	var entries []string
	for _, t := range pl.Tracks {
		if loc := strings.TrimSpace(t.Location); loc != "" {
			entries = append(entries, loc)
		}
	}
	return entries, nil
}
