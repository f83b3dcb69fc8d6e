// internal/backend/mock.go
package backend

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// MockHandle is the Handle the Mock opens.
type MockHandle struct {
	path     string
	duration time.Duration
}

func (h *MockHandle) Path() string { return h.path }

func (h *MockHandle) Duration() time.Duration { return h.duration }

// Mock is a test double for Backend. It is safe for concurrent use so that
// end-of-track can be simulated from another goroutine.
type Mock struct {
	mu       sync.Mutex
	state    State
	prepared Handle
	position float64
	onEnd    func()

	openErrs   map[string]error
	prepareErr error
	playErr    error
	pauseErr   error
	resumeErr  error
	stopErr    error

	openCalls    []string
	prepareCalls []string
	calls        []string
}

// Verify Mock implements Backend at compile time.
var _ Backend = (*Mock)(nil)

// NewMock creates a new mock backend for testing.
func NewMock() *Mock {
	return &Mock{
		state:    NothingSpecial,
		openErrs: make(map[string]error),
	}
}

func (m *Mock) Open(path string) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.openCalls = append(m.openCalls, path)
	if err, ok := m.openErrs[path]; ok {
		return nil, err
	}
	return &MockHandle{path: path, duration: 3 * time.Minute}, nil
}

func (m *Mock) Prepare(h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("prepare")
	if m.prepareErr != nil {
		return m.prepareErr
	}
	m.prepareCalls = append(m.prepareCalls, h.Path())
	m.prepared = h
	m.position = 0
	if m.state != NothingSpecial {
		m.state = Stopped
	}
	return nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("play")
	if m.playErr != nil {
		return m.playErr
	}
	if m.prepared == nil {
		return ErrNothingPrepared
	}
	if m.state.IsIdle() {
		m.position = 0
	}
	m.state = Playing
	return nil
}

func (m *Mock) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("pause")
	if m.pauseErr != nil {
		return m.pauseErr
	}
	if !m.state.CanPause() {
		return ErrNotPlaying
	}
	m.state = Paused
	return nil
}

func (m *Mock) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("resume")
	if m.resumeErr != nil {
		return m.resumeErr
	}
	if !m.state.CanResume() {
		return ErrNotPaused
	}
	m.state = Playing
	return nil
}

func (m *Mock) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("stop")
	if m.stopErr != nil {
		return m.stopErr
	}
	if m.state != NothingSpecial {
		m.state = Stopped
	}
	return nil
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) IsPlaying() bool { return m.State() == Playing }

func (m *Mock) IsPaused() bool { return m.State() == Paused }

func (m *Mock) Position() (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prepared == nil {
		return 0, false
	}
	return m.position, true
}

func (m *Mock) OnEndOfTrack(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEnd = fn
}

func (m *Mock) record(call string) {
	m.calls = append(m.calls, call)
}

// Test helpers

// FailOpen makes Open fail for path with err.
func (m *Mock) FailOpen(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErrs[path] = err
}

// AllowOpen removes a failure set with FailOpen.
func (m *Mock) AllowOpen(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.openErrs, path)
}

// FailMissingFiles makes Open fail like a real backend for paths that do not exist.
func (m *Mock) FailMissingFiles(paths ...string) {
	for _, p := range paths {
		m.FailOpen(p, fmt.Errorf("open %s: %w", p, os.ErrNotExist))
	}
}

func (m *Mock) SetPrepareError(err error) { m.withLock(func() { m.prepareErr = err }) }

func (m *Mock) SetPlayError(err error) { m.withLock(func() { m.playErr = err }) }

func (m *Mock) SetPauseError(err error) { m.withLock(func() { m.pauseErr = err }) }

func (m *Mock) SetResumeError(err error) { m.withLock(func() { m.resumeErr = err }) }

func (m *Mock) SetStopError(err error) { m.withLock(func() { m.stopErr = err }) }

func (m *Mock) SetState(s State) { m.withLock(func() { m.state = s }) }

func (m *Mock) SetPosition(p float64) { m.withLock(func() { m.position = p }) }

// OpenCalls returns the paths passed to Open.
func (m *Mock) OpenCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.openCalls...)
}

// PrepareCalls returns the paths of successfully prepared handles.
func (m *Mock) PrepareCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prepareCalls...)
}

// Calls returns every control call in order ("prepare", "play", "pause", "resume", "stop").
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Prepared returns the path of the prepared handle, or "" if none.
func (m *Mock) Prepared() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prepared == nil {
		return ""
	}
	return m.prepared.Path()
}

// SimulateEndOfTrack ends the playing track and invokes the registered handler
// the way a real backend does from its own goroutine.
func (m *Mock) SimulateEndOfTrack() {
	m.mu.Lock()
	if m.state != Playing {
		m.mu.Unlock()
		return
	}
	m.state = Stopped
	m.position = 1
	fn := m.onEnd
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// FireEndOfTrack invokes the handler regardless of state, as a late
// notification racing with a stop would.
func (m *Mock) FireEndOfTrack() {
	m.mu.Lock()
	fn := m.onEnd
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (m *Mock) withLock(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
}
