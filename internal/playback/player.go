// Package playback implements the play queue and playback state machine.
package playback

import (
	"errors"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/moosack/internal/backend"
	"github.com/llehouerou/moosack/internal/source"
)

// Resolver turns a source into a backend handle, typically through a caching loader.
type Resolver interface {
	Resolve(src source.Source) (backend.Handle, error)
}

// LoadedItem is the source currently loaded into the backend.
type LoadedItem struct {
	Source source.Source
	Handle backend.Handle
}

// Player owns the queue, the current item and the event log, and drives the
// backend. At most one item is current and it is never also queued.
//
// Player is not safe for concurrent use: every method must be called from one
// exclusive-access region (see Service). The only exception is the backend's
// end-of-track notification, which is recorded in an atomic flag and acted
// upon by the next Poll.
type Player struct {
	backend backend.Backend
	loader  Resolver

	current *LoadedItem
	queue   Queue
	events  []Event

	ended atomic.Bool
}

// New creates a Player and registers it for the backend's end-of-track notifications.
func New(b backend.Backend, r Resolver) *Player {
	p := &Player{
		backend: b,
		loader:  r,
	}
	b.OnEndOfTrack(p.signalEnded)
	return p
}

// signalEnded may run on any goroutine.
func (p *Player) signalEnded() {
	p.ended.Store(true)
}

// Queue plays src right away when nothing is current, otherwise appends it to
// the queue. Only immediate promotion can fail; a queued source that cannot
// be loaded is reported when it is reached.
func (p *Player) Queue(src source.Source) error {
	if p.current == nil {
		return p.promote(src)
	}
	p.queue.Push(src)
	return nil
}

// Play starts or resumes the current item. With nothing current it pulls the
// next queued item. Calling Play while playing does nothing.
func (p *Player) Play() error {
	if p.current == nil {
		return p.Skip()
	}

	switch p.backend.State() {
	case backend.Playing:
		return nil
	case backend.Paused:
		if err := p.backend.Resume(); err != nil {
			return p.backendErr(OpResume, err)
		}
		p.emit(EventResume, p.current.Source)
	case backend.NothingSpecial, backend.Stopped:
		// A track that ended but was not polled yet is done: move on instead of replaying it.
		if p.ended.Swap(false) {
			return p.Skip()
		}
		if err := p.backend.Play(); err != nil {
			return p.backendErr(OpPlay, err)
		}
		p.emit(EventPlay, p.current.Source)
	}
	return nil
}

// Pause pauses the current item. It does nothing unless the item is playing.
func (p *Player) Pause() error {
	if p.current == nil || !p.backend.State().CanPause() {
		return nil
	}
	if err := p.backend.Pause(); err != nil {
		return p.backendErr(OpPause, err)
	}
	p.emit(EventPause, p.current.Source)
	return nil
}

// TogglePlaying pauses when playing and plays otherwise.
func (p *Player) TogglePlaying() error {
	if p.current != nil && p.backend.IsPlaying() {
		return p.Pause()
	}
	return p.Play()
}

// PlayNow preempts the current item, which gets a Stop event and is discarded,
// and promotes src in its place.
func (p *Player) PlayNow(src source.Source) error {
	if p.current != nil {
		if err := p.backend.Stop(); err != nil {
			return p.backendErr(OpStop, err)
		}
		p.emit(EventStop, p.current.Source)
		p.current = nil
	}
	return p.promote(src)
}

// Skip drops the current item without a Stop event and promotes the queue
// head. Queued sources that fail to load are passed over: Skip keeps going
// until one plays or the queue is empty, and returns the load errors it met
// joined together. An empty queue leaves the player Idle.
func (p *Player) Skip() error {
	if p.current != nil {
		if err := p.backend.Stop(); err != nil {
			return p.backendErr(OpStop, err)
		}
		p.current = nil
	}
	p.ended.Store(false)

	var errs []error
	for {
		next, ok := p.queue.Pop()
		if !ok {
			return errors.Join(errs...)
		}
		err := p.promote(next)
		if err == nil {
			return errors.Join(errs...)
		}
		errs = append(errs, err)

		var backendErr *BackendError
		if errors.As(err, &backendErr) {
			return errors.Join(errs...)
		}
		logrus.WithField("source", next.String()).Warnf("Skipping unloadable source: %v", err)
	}
}

// Stop emits Stop for the current item, halts it and clears the queue.
// If halting fails nothing changes.
func (p *Player) Stop() error {
	if p.current != nil {
		if err := p.backend.Stop(); err != nil {
			return p.backendErr(OpStop, err)
		}
		p.emit(EventStop, p.current.Source)
		p.current = nil
	}
	p.queue.Clear()
	p.ended.Store(false)
	return nil
}

// Poll advances the queue if the backend reported the end of the current
// track since the last Poll, then returns the oldest pending event.
// The error is non-nil only when that advance failed.
func (p *Player) Poll() (Event, bool, error) {
	var err error
	if p.ended.Swap(false) && p.current != nil {
		logrus.WithField("source", p.current.Source.String()).Debug("track ended")
		err = p.Skip()
	}

	if len(p.events) == 0 {
		return Event{}, false, err
	}
	ev := p.events[0]
	p.events[0] = Event{}
	p.events = p.events[1:]
	if len(p.events) == 0 {
		p.events = nil
	}
	return ev, true, err
}

// Drain polls until no event is left.
func (p *Player) Drain() ([]Event, error) {
	var (
		events []Event
		errs   []error
	)
	for {
		ev, ok, err := p.Poll()
		if err != nil {
			errs = append(errs, err)
		}
		if !ok {
			return events, errors.Join(errs...)
		}
		events = append(events, ev)
	}
}

// QueueLength returns the number of sources waiting behind the current item.
func (p *Player) QueueLength() int {
	return p.queue.Len()
}

// Queued returns the waiting sources, next first.
func (p *Player) Queued() []source.Source {
	return p.queue.Items()
}

// Current returns the current source.
func (p *Player) Current() (source.Source, bool) {
	if p.current == nil {
		return source.Source{}, false
	}
	return p.current.Source, true
}

// CurrentItem returns the current source with its handle.
func (p *Player) CurrentItem() (LoadedItem, bool) {
	if p.current == nil {
		return LoadedItem{}, false
	}
	return *p.current, true
}

// State returns the conceptual player state.
func (p *Player) State() State {
	if p.current == nil {
		return Idle
	}
	switch p.backend.State() {
	case backend.Playing:
		return Playing
	case backend.Paused:
		return Paused
	case backend.NothingSpecial, backend.Stopped:
		return Ended
	}
	return Ended
}

// IsPlaying reports whether the current item is audible.
func (p *Player) IsPlaying() bool {
	return p.State() == Playing
}

// Position returns the fraction of the current item already played.
func (p *Player) Position() (float64, bool) {
	if p.current == nil {
		return 0, false
	}
	return p.backend.Position()
}

// promote resolves src, hands it to the backend and makes it current.
// On failure nothing becomes current.
func (p *Player) promote(src source.Source) error {
	h, err := p.loader.Resolve(src)
	if err != nil {
		return err
	}
	if err := p.backend.Prepare(h); err != nil {
		return &BackendError{Op: OpPrepare, Source: src, Err: err}
	}
	if err := p.backend.Play(); err != nil {
		return &BackendError{Op: OpPlay, Source: src, Err: err}
	}

	p.current = &LoadedItem{Source: src, Handle: h}
	p.ended.Store(false)
	p.emit(EventPlay, src)
	logrus.WithField("source", src.String()).Info("playing")
	return nil
}

func (p *Player) emit(t EventType, src source.Source) {
	p.events = append(p.events, Event{Type: t, Source: src})
}

func (p *Player) backendErr(op Op, err error) error {
	return &BackendError{Op: op, Source: p.current.Source, Err: err}
}
