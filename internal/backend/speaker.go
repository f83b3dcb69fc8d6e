package backend

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

const resampleQuality = 4

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerRate        beep.SampleRate
)

// Speaker plays handles through the system audio output with beep.
type Speaker struct {
	mu       sync.Mutex
	prepared *fileHandle
	file     *os.File
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl

	// Read by the end-of-track callback, which runs under the speaker lock.
	state atomic.Int32
	gen   atomic.Uint64
	onEnd atomic.Pointer[func()]
}

// Verify Speaker implements Backend at compile time.
var _ Backend = (*Speaker)(nil)

// NewSpeaker creates a backend. The audio device is initialized on first Play.
func NewSpeaker() *Speaker {
	return &Speaker{}
}

// Open reads the header of a local audio file.
func (s *Speaker) Open(path string) (Handle, error) {
	return openFile(path)
}

// Prepare halts current playback and loads h for the next Play.
func (s *Speaker) Prepare(h Handle) error {
	fh, ok := h.(*fileHandle)
	if !ok {
		return ErrForeignHandle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLocked()
	if err := s.openLocked(fh); err != nil {
		return err
	}
	s.prepared = fh
	if s.State() != NothingSpecial {
		s.setState(Stopped)
	}
	return nil
}

// Play starts the prepared media from the beginning, or unpauses it.
func (s *Speaker) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.State() {
	case Playing:
		return nil
	case Paused:
		s.setPausedLocked(false)
		s.setState(Playing)
		return nil
	case NothingSpecial, Stopped:
	}

	if s.prepared == nil {
		return ErrNothingPrepared
	}
	if s.streamer == nil {
		if err := s.openLocked(s.prepared); err != nil {
			return err
		}
	} else if err := s.rewindLocked(); err != nil {
		return err
	}

	if err := ensureSpeaker(s.prepared.format.SampleRate); err != nil {
		return err
	}

	s.ctrl = &beep.Ctrl{Streamer: s.streamer, Paused: false}
	var out beep.Streamer = s.ctrl
	if rate := s.prepared.format.SampleRate; rate != speakerRate {
		out = beep.Resample(resampleQuality, rate, speakerRate, s.ctrl)
	}

	gen := s.gen.Add(1)
	s.setState(Playing)
	speaker.Play(beep.Seq(out, beep.Callback(func() {
		s.finished(gen)
	})))
	return nil
}

// Pause pauses playback.
func (s *Speaker) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.State().CanPause() || s.ctrl == nil {
		return ErrNotPlaying
	}
	s.setPausedLocked(true)
	s.setState(Paused)
	return nil
}

// Resume resumes paused playback.
func (s *Speaker) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.State().CanResume() || s.ctrl == nil {
		return ErrNotPaused
	}
	s.setPausedLocked(false)
	s.setState(Playing)
	return nil
}

// Stop halts playback and closes the decoder. The prepared handle is kept,
// so a later Play starts it again from the beginning.
func (s *Speaker) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLocked()
	if s.State() != NothingSpecial {
		s.setState(Stopped)
	}
	return nil
}

// Close stops playback and forgets the prepared handle.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLocked()
	s.prepared = nil
	return nil
}

func (s *Speaker) State() State { return State(s.state.Load()) }

func (s *Speaker) IsPlaying() bool { return s.State() == Playing }

func (s *Speaker) IsPaused() bool { return s.State() == Paused }

// Position returns the fraction of the prepared track already played.
func (s *Speaker) Position() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamer == nil || s.streamer.Len() == 0 {
		return 0, false
	}
	speaker.Lock()
	pos := s.streamer.Position()
	speaker.Unlock()
	return float64(pos) / float64(s.streamer.Len()), true
}

func (s *Speaker) OnEndOfTrack(fn func()) {
	s.onEnd.Store(&fn)
}

// finished runs on the speaker goroutine with the speaker lock held.
// Callbacks of superseded playbacks are ignored.
func (s *Speaker) finished(gen uint64) {
	if s.gen.Load() != gen {
		return
	}
	if !s.state.CompareAndSwap(int32(Playing), int32(Stopped)) {
		return
	}
	if fn := s.onEnd.Load(); fn != nil && *fn != nil {
		(*fn)()
	}
}

func (s *Speaker) setState(st State) { s.state.Store(int32(st)) }

func (s *Speaker) setPausedLocked(paused bool) {
	if s.ctrl == nil {
		return
	}
	speaker.Lock()
	s.ctrl.Paused = paused
	speaker.Unlock()
}

func (s *Speaker) openLocked(fh *fileHandle) error {
	streamer, _, f, err := decodeFile(fh.path, fh.ext)
	if err != nil {
		return err
	}
	s.streamer = streamer
	s.file = f
	return nil
}

func (s *Speaker) rewindLocked() error {
	speaker.Lock()
	defer speaker.Unlock()
	return s.streamer.Seek(0)
}

// releaseLocked clears the speaker and closes the decoder. Bumping the
// generation invalidates any end-of-track callback still queued.
func (s *Speaker) releaseLocked() {
	s.gen.Add(1)
	if s.ctrl != nil {
		speaker.Clear()
		s.ctrl = nil
	}
	if s.streamer != nil {
		s.streamer.Close()
		s.streamer = nil
	}
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
}

// ensureSpeaker initializes the audio device once, at the rate of the first track played.
func ensureSpeaker(rate beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()

	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return err
	}
	speakerRate = rate
	speakerInitialized = true
	return nil
}
