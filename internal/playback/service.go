package playback

import (
	"sync"

	"github.com/llehouerou/moosack/internal/source"
)

// Service is the Player behind a mutex, for callers on different goroutines
// (UI loop, MPRIS, background loading).
type Service interface {
	Queue(src source.Source) error
	Play() error
	Pause() error
	TogglePlaying() error
	PlayNow(src source.Source) error
	Skip() error
	Stop() error
	Poll() (Event, bool, error)
	Drain() ([]Event, error)

	QueueLength() int
	Queued() []source.Source
	Current() (source.Source, bool)
	State() State
	Position() (float64, bool)

	// Do runs fn with exclusive access to the player, for compound operations.
	Do(fn func(p *Player) error) error
}

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	mu     sync.Mutex
	player *Player
}

// NewService wraps p. p must not be used directly afterwards.
func NewService(p *Player) Service {
	return &serviceImpl{player: p}
}

func (s *serviceImpl) Do(fn func(p *Player) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.player)
}

func (s *serviceImpl) Queue(src source.Source) error {
	return s.Do(func(p *Player) error { return p.Queue(src) })
}

func (s *serviceImpl) Play() error {
	return s.Do((*Player).Play)
}

func (s *serviceImpl) Pause() error {
	return s.Do((*Player).Pause)
}

func (s *serviceImpl) TogglePlaying() error {
	return s.Do((*Player).TogglePlaying)
}

func (s *serviceImpl) PlayNow(src source.Source) error {
	return s.Do(func(p *Player) error { return p.PlayNow(src) })
}

func (s *serviceImpl) Skip() error {
	return s.Do((*Player).Skip)
}

func (s *serviceImpl) Stop() error {
	return s.Do((*Player).Stop)
}

func (s *serviceImpl) Poll() (Event, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.Poll()
}

func (s *serviceImpl) Drain() ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.Drain()
}

func (s *serviceImpl) QueueLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.QueueLength()
}

func (s *serviceImpl) Queued() []source.Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.Queued()
}

func (s *serviceImpl) Current() (source.Source, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.Current()
}

func (s *serviceImpl) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.State()
}

func (s *serviceImpl) Position() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.Position()
}
