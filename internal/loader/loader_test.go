package loader

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/moosack/internal/backend"
	"github.com/llehouerou/moosack/internal/source"
)

type fakeFetcher struct {
	paths map[string]string
	err   error
	calls []string
}

func (f *fakeFetcher) Fetch(url string) (string, error) {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return "", f.err
	}
	return f.paths[url], nil
}

func TestResolve_CachesHandles(t *testing.T) {
	b := backend.NewMock()
	l := New(b, nil)

	h1, err := l.Resolve(source.File("/a.mp3"))
	require.NoError(t, err)
	h2, err := l.Resolve(source.File("/a.mp3"))
	require.NoError(t, err)

	assert.Same(t, h1, h2)
	assert.Equal(t, []string{"/a.mp3"}, b.OpenCalls(), "second resolve must not do I/O")
	cached, ok := l.Cached(source.File("/a.mp3"))
	assert.True(t, ok)
	assert.Same(t, h1, cached)
}

func TestResolve_FileURLIsLocal(t *testing.T) {
	b := backend.NewMock()
	f := &fakeFetcher{}
	l := New(b, f)

	h, err := l.Resolve(source.URL("file:///music/a.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "/music/a.mp3", h.Path())
	assert.Empty(t, f.calls, "file:// URLs are never fetched")

	_, err = l.Resolve(source.File("/music/a.mp3"))
	require.NoError(t, err)
	assert.Len(t, b.OpenCalls(), 1, "file URL and path share a cache entry")
}

func TestResolve_RemoteFetchesOnce(t *testing.T) {
	b := backend.NewMock()
	f := &fakeFetcher{paths: map[string]string{"http://x/a.mp3": "/cache/fetch-1.mp3"}}
	l := New(b, f)

	for range 3 {
		h, err := l.Resolve(source.URL("http://x/a.mp3"))
		require.NoError(t, err)
		assert.Equal(t, "/cache/fetch-1.mp3", h.Path())
	}
	assert.Equal(t, []string{"http://x/a.mp3"}, f.calls)

	p, ok := l.LocalPath(source.URL("http://x/a.mp3"))
	assert.True(t, ok)
	assert.Equal(t, "/cache/fetch-1.mp3", p)
}

func TestResolve_Errors(t *testing.T) {
	b := backend.NewMock()
	b.FailMissingFiles("/missing.mp3")
	l := New(b, nil)

	_, err := l.Resolve(source.File("/missing.mp3"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, source.File("/missing.mp3"), loadErr.Source)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, cached := l.Cached(source.File("/missing.mp3"))
	assert.False(t, cached, "failures are not cached")

	_, err = l.Resolve(source.URL("http://x/a.mp3"))
	assert.ErrorIs(t, err, ErrNoFetcher)

	_, err = l.Resolve(source.Source{})
	assert.ErrorAs(t, err, &loadErr)
}

func TestResolve_FetchError(t *testing.T) {
	unreachable := errors.New("connection refused")
	l := New(backend.NewMock(), &fakeFetcher{err: unreachable})

	_, err := l.Resolve(source.URL("http://x/a.mp3"))
	assert.ErrorIs(t, err, unreachable)
	assert.Contains(t, err.Error(), "Url(http://x/a.mp3)")
}

func TestResolve_RetriesAfterFailure(t *testing.T) {
	b := backend.NewMock()
	b.FailMissingFiles("/late.mp3")
	l := New(b, nil)

	_, err := l.Resolve(source.File("/late.mp3"))
	require.Error(t, err)

	b.AllowOpen("/late.mp3")
	h, err := l.Resolve(source.File("/late.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "/late.mp3", h.Path())
}

func TestCached(t *testing.T) {
	l := New(backend.NewMock(), nil)

	_, ok := l.Cached(source.File("/a.mp3"))
	assert.False(t, ok)

	_, err := l.Resolve(source.File("/a.mp3"))
	require.NoError(t, err)

	_, ok = l.Cached(source.File("/a.mp3"))
	assert.True(t, ok)
	_, ok = l.Cached(source.URL("file:///a.mp3"))
	assert.True(t, ok)
}
