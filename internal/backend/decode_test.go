package backend

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV writes a silent WAV file of the given duration.
func writeWAV(t *testing.T, dir, name string, d time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	format := beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(format.SampleRate.N(d)), format))
	return path
}

func TestCanDecode(t *testing.T) {
	assert.True(t, CanDecode("a.mp3"))
	assert.True(t, CanDecode("A.FLAC"))
	assert.True(t, CanDecode("a.wav"))
	assert.True(t, CanDecode("a.ogg"))
	assert.False(t, CanDecode("a.wma"))
	assert.False(t, CanDecode("noext"))
}

func TestOpen_WAV(t *testing.T) {
	path := writeWAV(t, t.TempDir(), "tone.wav", time.Second)

	h, err := NewSpeaker().Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, h.Path())
	assert.InDelta(t, time.Second.Seconds(), h.Duration().Seconds(), 0.01)
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewSpeaker().Open(filepath.Join(dir, "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewSpeaker().Open(filepath.Join(dir, "a.wma"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	garbage := filepath.Join(dir, "garbage.wav")
	require.NoError(t, os.WriteFile(garbage, []byte("not a wav file"), 0o600))
	_, err = NewSpeaker().Open(garbage)
	assert.Error(t, err)
}

func TestSpeaker_PrepareWithoutPlaying(t *testing.T) {
	path := writeWAV(t, t.TempDir(), "tone.wav", 500*time.Millisecond)
	s := NewSpeaker()

	assert.ErrorIs(t, s.Prepare(&MockHandle{path: path}), ErrForeignHandle)

	h, err := s.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Prepare(h))
	assert.Equal(t, NothingSpecial, s.State())

	pos, ok := s.Position()
	assert.True(t, ok)
	assert.Zero(t, pos)

	assert.ErrorIs(t, s.Pause(), ErrNotPlaying)
	assert.ErrorIs(t, s.Resume(), ErrNotPaused)

	require.NoError(t, s.Stop())
	_, ok = s.Position()
	assert.False(t, ok)
	require.NoError(t, s.Close())
}

func TestSpeaker_StaleCallbackIgnored(t *testing.T) {
	s := NewSpeaker()
	calls := 0
	s.OnEndOfTrack(func() { calls++ })

	s.setState(Playing)
	gen := s.gen.Add(1)
	s.gen.Add(1) // superseded
	s.finished(gen)
	assert.Equal(t, 0, calls)
	assert.Equal(t, Playing, s.State())

	s.finished(s.gen.Load())
	assert.Equal(t, 1, calls)
	assert.Equal(t, Stopped, s.State())
}
