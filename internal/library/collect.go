package library

import (
	"errors"
	"os"

	"github.com/samber/lo"

	"github.com/llehouerou/moosack/internal/source"
)

// Collect turns command-line arguments into sources to queue, in order.
// Directories contribute the music files they contain, readable playlists
// their entries. Anything else, including paths that do not exist yet, is
// passed through for the loader to judge. Playlists that cannot be expanded
// are skipped and reported in the returned error.
func Collect(args []string) ([]source.Source, error) {
	var (
		sources []source.Source
		errs    []error
	)
	for _, arg := range args {
		src := source.Parse(arg)
		path, ok := src.Normalize().Path()
		if !ok {
			sources = append(sources, src)
			continue
		}

		if info, err := os.Stat(path); err == nil && info.IsDir() {
			files := discoverFiles([]string{path})
			sources = append(sources, lo.Map(files, func(f fileInfo, _ int) source.Source {
				return source.File(f.path)
			})...)
			continue
		}

		if IsPlaylist(path) || isExpandable(path) {
			entries, err := ExpandPlaylist(path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			sources = append(sources, entries...)
			continue
		}

		sources = append(sources, src)
	}
	return sources, errors.Join(errs...)
}
