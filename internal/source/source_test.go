package source

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		arg  string
		want Source
	}{
		{"a.mp3", File("a.mp3")},
		{"/music/a b.flac", File("/music/a b.flac")},
		{"http://example.com/a.mp3", URL("http://example.com/a.mp3")},
		{"file:///music/a.mp3", URL("file:///music/a.mp3")},
		{"dir/with://colon.mp3", File("dir/with://colon.mp3")},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.arg))
		})
	}
}

func TestEqualityIsByVariantAndPayload(t *testing.T) {
	assert.Equal(t, File("a.mp3"), File("a.mp3"))
	assert.NotEqual(t, File("a.mp3"), URL("a.mp3"))
	assert.NotEqual(t, File("a.mp3"), File("b.mp3"))

	m := map[Source]int{File("a.mp3"): 1, URL("a.mp3"): 2}
	assert.Equal(t, 1, m[File("a.mp3")])
	assert.Equal(t, 2, m[URL("a.mp3")])
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, File(filepath.FromSlash("/music/a b.mp3")), URL("file:///music/a%20b.mp3").Normalize())
	assert.Equal(t, URL("http://x/a.mp3"), URL("http://x/a.mp3").Normalize())
	assert.Equal(t, File("a.mp3"), File("a.mp3").Normalize())
}

func TestIsRemote(t *testing.T) {
	assert.False(t, File("a.mp3").IsRemote())
	assert.False(t, URL("file:///a.mp3").IsRemote())
	assert.True(t, URL("https://example.com/a.mp3").IsRemote())
}

func TestPath(t *testing.T) {
	p, ok := URL("file:///tmp/a.mp3").Path()
	assert.True(t, ok)
	assert.Equal(t, filepath.FromSlash("/tmp/a.mp3"), p)

	_, ok = URL("http://example.com/a.mp3").Path()
	assert.False(t, ok)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "a.mp3", File("/music/a.mp3").DisplayName())
	assert.Equal(t, "my song.ogg", URL("http://example.com/x/my%20song.ogg").DisplayName())
	assert.Equal(t, "http://example.com", URL("http://example.com").DisplayName())
}

func TestString(t *testing.T) {
	assert.Equal(t, "File(a.mp3)", File("a.mp3").String())
	assert.Equal(t, "Url(http://x)", URL("http://x").String())
	assert.True(t, Source{}.IsZero())
}
