// Package loader resolves sources into backend handles and caches them.
package loader

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/moosack/internal/backend"
	"github.com/llehouerou/moosack/internal/source"
)

// ErrNoFetcher is returned when a remote source is resolved without a Fetcher.
var ErrNoFetcher = errors.New("remote sources not supported")

// LoadError reports a source that could not be resolved.
type LoadError struct {
	Source source.Source
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Opener turns a local file into a backend handle.
type Opener interface {
	Open(path string) (backend.Handle, error)
}

// Fetcher makes a local copy of a remote URL and returns its path.
type Fetcher interface {
	Fetch(url string) (string, error)
}

// Loader resolves sources into handles. Successful resolutions are cached for
// the lifetime of the Loader; failures are not.
//
// Loader is not safe for concurrent use.
type Loader struct {
	opener  Opener
	fetcher Fetcher
	handles map[source.Source]backend.Handle
}

// New creates a Loader. fetcher may be nil, in which case remote sources fail to load.
func New(opener Opener, fetcher Fetcher) *Loader {
	return &Loader{
		opener:  opener,
		fetcher: fetcher,
		handles: make(map[source.Source]backend.Handle),
	}
}

// Resolve returns the handle for src, opening (and for remote sources,
// fetching) it on first use. It may block on file or network I/O.
// Errors are *LoadError.
func (l *Loader) Resolve(src source.Source) (backend.Handle, error) {
	key := src.Normalize()
	if h, ok := l.handles[key]; ok {
		return h, nil
	}

	h, err := l.load(key)
	if err != nil {
		return nil, &LoadError{Source: src, Err: err}
	}
	l.handles[key] = h
	logrus.WithField("source", src.String()).Debug("source loaded")
	return h, nil
}

func (l *Loader) load(src source.Source) (backend.Handle, error) {
	if src.IsZero() {
		return nil, errors.New("empty source")
	}

	path, ok := src.Path()
	if !ok {
		if l.fetcher == nil {
			return nil, ErrNoFetcher
		}
		fetched, err := l.fetcher.Fetch(src.Value())
		if err != nil {
			return nil, err
		}
		path = fetched
	}
	return l.opener.Open(path)
}

// Cached returns the cached handle for src without doing any I/O.
func (l *Loader) Cached(src source.Source) (backend.Handle, bool) {
	h, ok := l.handles[src.Normalize()]
	return h, ok
}

// LocalPath returns the local file behind a resolved source.
func (l *Loader) LocalPath(src source.Source) (string, bool) {
	if h, ok := l.Cached(src); ok {
		return h.Path(), true
	}
	return src.Path()
}
