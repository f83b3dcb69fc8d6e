package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
	extOGA  = ".oga"
)

// fileHandle is the Handle the Speaker backend opens.
type fileHandle struct {
	path   string
	ext    string
	format beep.Format
	length int
}

func (h *fileHandle) Path() string { return h.path }

func (h *fileHandle) Duration() time.Duration {
	return h.format.SampleRate.D(h.length)
}

// CanDecode reports whether the Speaker backend has a decoder for path.
func CanDecode(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3, extFLAC, extWAV, extOGG, extOGA:
		return true
	}
	return false
}

// openFile inspects path by decoding its header. The returned handle records the
// stream format and length; no decoder is kept open.
func openFile(path string) (*fileHandle, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !CanDecode(path) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	streamer, format, f, err := decodeFile(path, ext)
	if err != nil {
		return nil, err
	}
	length := streamer.Len()
	streamer.Close()
	f.Close()

	return &fileHandle{path: path, ext: ext, format: format, length: length}, nil
}

// decodeFile opens path and starts a decoder on it. Both the streamer and the
// file must be closed by the caller.
func decodeFile(path, ext string) (beep.StreamSeekCloser, beep.Format, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, nil, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case extMP3:
		streamer, format, err = mp3.Decode(f)
	case extFLAC:
		streamer, format, err = flac.Decode(f)
	case extWAV:
		streamer, format, err = wav.Decode(f)
	case extOGG, extOGA:
		streamer, format, err = vorbis.Decode(f)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return streamer, format, f, nil
}
