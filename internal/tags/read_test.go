package tags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/moosack/internal/source"
)

// writeID3v1File creates a file whose only metadata is a trailing ID3v1 tag.
func writeID3v1File(t *testing.T, dir, name, title, artist, album, year string) string {
	t.Helper()

	field := func(s string, n int) []byte {
		b := make([]byte, n)
		copy(b, s)
		return b
	}

	data := make([]byte, 512) // stand-in audio payload
	data = append(data, "TAG"...)
	data = append(data, field(title, 30)...)
	data = append(data, field(artist, 30)...)
	data = append(data, field(album, 30)...)
	data = append(data, field(year, 4)...)
	data = append(data, field("", 30)...)
	data = append(data, 0) // genre

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestRead_ID3v1(t *testing.T) {
	path := writeID3v1File(t, t.TempDir(), "song.mp3", "My Song", "Artist Name", "Album Name", "1999")

	tag, err := Read(path)

	require.NoError(t, err)
	assert.Equal(t, path, tag.Path)
	assert.Equal(t, "My Song", tag.Title)
	assert.Equal(t, "Artist Name", tag.Artist)
	assert.Equal(t, "Artist Name", tag.AlbumArtist, "album artist falls back to artist")
	assert.Equal(t, "Album Name", tag.Album)
	assert.Equal(t, 1999, tag.Year())
}

func TestRead_EmptyTitleFallsBackToFileName(t *testing.T) {
	path := writeID3v1File(t, t.TempDir(), "untitled.mp3", "", "Someone", "", "")

	tag, err := Read(path)

	require.NoError(t, err)
	assert.Equal(t, "untitled.mp3", tag.Title)
	assert.Equal(t, "Someone - untitled.mp3", tag.Label())
}

func TestRead_NoTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.wav")
	require.NoError(t, os.WriteFile(path, make([]byte, 1024), 0o600))

	tag, err := Read(path)

	require.NoError(t, err)
	assert.Equal(t, "raw.wav", tag.Title)
	assert.Empty(t, tag.Artist)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.mp3"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestForSource(t *testing.T) {
	dir := t.TempDir()
	path := writeID3v1File(t, dir, "song.mp3", "Tagged", "Band", "", "")

	t.Run("file", func(t *testing.T) {
		assert.Equal(t, "Band - Tagged", ForSource(source.File(path), "").Label())
	})

	t.Run("file url", func(t *testing.T) {
		assert.Equal(t, "Tagged", ForSource(source.URL("file://"+filepath.ToSlash(path)), "").Title)
	})

	t.Run("remote", func(t *testing.T) {
		tag := ForSource(source.URL("http://example.com/music/track.ogg"), "")
		assert.Equal(t, "track.ogg", tag.Title)
		assert.Empty(t, tag.Path)
	})

	t.Run("remote with fetched copy", func(t *testing.T) {
		tag := ForSource(source.URL("http://example.com/music/track.mp3"), path)
		assert.Equal(t, "Band - Tagged", tag.Label())
		assert.Equal(t, path, tag.Path)
	})

	t.Run("fetched copy without tags", func(t *testing.T) {
		fetched := filepath.Join(dir, "fetch-1.mp3")
		require.NoError(t, os.WriteFile(fetched, make([]byte, 256), 0o600))

		tag := ForSource(source.URL("http://example.com/music/track.mp3"), fetched)
		assert.Equal(t, "track.mp3", tag.Title)
		assert.Equal(t, fetched, tag.Path)
	})

	t.Run("unreadable", func(t *testing.T) {
		tag := ForSource(source.File(filepath.Join(dir, "gone.mp3")), "")
		assert.Equal(t, "gone.mp3", tag.Title)
	})
}

func TestCoverArtPath(t *testing.T) {
	dir := t.TempDir()
	track := filepath.Join(dir, "01.flac")

	assert.Empty(t, CoverArtPath(track))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "folder.png"), []byte("png"), 0o600))
	assert.Equal(t, filepath.Join(dir, "folder.png"), CoverArtPath(track))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.jpg"), []byte("jpg"), 0o600))
	assert.Equal(t, filepath.Join(dir, "cover.jpg"), CoverArtPath(track), "cover.jpg has priority")
}
