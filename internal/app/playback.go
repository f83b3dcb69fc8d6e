package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/moosack/internal/backend"
	"github.com/llehouerou/moosack/internal/errmsg"
	"github.com/llehouerou/moosack/internal/lastfm"
	"github.com/llehouerou/moosack/internal/playback"
	"github.com/llehouerou/moosack/internal/source"
	"github.com/llehouerou/moosack/internal/tags"
)

// Media looks up what the loader holds for a source. It is only called from
// inside Service.Do.
type Media interface {
	Cached(src source.Source) (backend.Handle, bool)
	LocalPath(src source.Source) (string, bool)
}

// playerStatus is a snapshot of the player taken after a poll.
type playerStatus struct {
	state       playback.State
	queued      int
	duration    time.Duration
	position    float64
	hasPosition bool
}

// polledEvent is an event with what was known about its source when it was
// drained.
type polledEvent struct {
	playback.Event
	tag      *tags.Tag
	duration time.Duration
}

// playerCmd runs fn in the background and reports its error.
func playerCmd(op errmsg.Op, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return CommandResultMsg{Op: op, Err: fn()}
	}
}

// queueSources adds sources in order and joins the errors of those that
// could not be played.
func queueSources(service playback.Service, sources []source.Source) error {
	var errs []error
	for _, src := range sources {
		if err := service.Queue(src); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// pollCmd drains the event log and snapshots the player in one critical
// section. Tags are read afterwards, outside the service lock.
func pollCmd(service playback.Service, media Media) tea.Cmd {
	return func() tea.Msg {
		var (
			msg   pollResultMsg
			paths []string
		)
		_ = service.Do(func(p *playback.Player) error {
			events, err := p.Drain()
			msg.err = err
			for _, ev := range events {
				pe := polledEvent{Event: ev}
				var path string
				if ev.Type == playback.EventPlay {
					pe.duration, path = lookupMedia(p, media, ev.Source)
				}
				msg.events = append(msg.events, pe)
				paths = append(paths, path)
			}
			msg.status = snapshot(p)
			return nil
		})

		for i := range msg.events {
			if msg.events[i].Type == playback.EventPlay {
				msg.events[i].tag = tags.ForSource(msg.events[i].Source, paths[i])
			}
		}
		return msg
	}
}

// lookupMedia returns the length and local file of src. Without media only
// the current item is known.
func lookupMedia(p *playback.Player, media Media, src source.Source) (time.Duration, string) {
	if media == nil {
		if item, ok := p.CurrentItem(); ok && item.Source == src {
			return item.Handle.Duration(), item.Handle.Path()
		}
		return 0, ""
	}
	var d time.Duration
	if h, ok := media.Cached(src); ok {
		d = h.Duration()
	}
	path, _ := media.LocalPath(src)
	return d, path
}

func snapshot(p *playback.Player) playerStatus {
	st := playerStatus{state: p.State(), queued: p.QueueLength()}
	if item, ok := p.CurrentItem(); ok {
		st.duration = item.Handle.Duration()
	}
	st.position, st.hasPosition = p.Position()
	return st
}

// runCommand starts fn, or holds it until the command in flight reports, so
// player commands apply in the order they were given.
func (m Model) runCommand(op errmsg.Op, fn func() error) (Model, tea.Cmd) {
	cmd := playerCmd(op, fn)
	if m.running {
		m.backlog = append(m.backlog, cmd)
		return m, nil
	}
	m.running = true
	return m, cmd
}

// requestPoll starts a poll unless one is in flight, in which case another
// follows it.
func (m Model) requestPoll() (Model, tea.Cmd) {
	if m.polling {
		m.repoll = true
		return m, nil
	}
	m.polling = true
	return m, pollCmd(m.service, m.media)
}

func (m Model) handleCommandResult(msg CommandResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if m.quitting {
			log.WithError(msg.Err).Warnf("%s on quit", msg.Op)
		} else {
			m.errorMsg = errmsg.Format(msg.Op, msg.Err)
		}
	}

	var next tea.Cmd
	m.running = false
	if len(m.backlog) > 0 {
		next, m.backlog = m.backlog[0], m.backlog[1:]
		m.running = true
	}
	if m.quitting && !m.running {
		m.stopped = true
	}

	m, poll := m.requestPoll()
	return m, tea.Batch(next, poll)
}

// handlePollResult reacts to every drained event in order.
func (m Model) handlePollResult(msg pollResultMsg) (tea.Model, tea.Cmd) {
	m.polling = false
	m.status = msg.status
	if msg.err != nil {
		m.errorMsg = errmsg.Format(errmsg.OpAdvance, msg.err)
	}

	var cmds []tea.Cmd
	for _, ev := range msg.events {
		cmds = append(cmds, m.handleEvent(ev))
	}

	// Running out of queue ends the last track without an event.
	if !msg.status.state.IsActive() && m.tracker.Active() {
		cmds = append(cmds, m.scrobbleCmd(m.tracker.Finish(now())))
	}

	if m.repoll {
		m.repoll = false
		var poll tea.Cmd
		m, poll = m.requestPoll()
		cmds = append(cmds, poll)
	} else if m.quitting && m.stopped {
		if m.nowPlaying != nil {
			if err := m.nowPlaying.Hide(); err != nil {
				log.WithError(err).Debug("close notification")
			}
		}
		return m, tea.Sequence(tea.Batch(cmds...), tea.Quit)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleEvent(ev polledEvent) tea.Cmd {
	log.WithField("source", ev.Source.String()).Debugf("event %s", ev.Type)

	var cmds []tea.Cmd
	var info lastfm.ScrobbleTrack

	switch ev.Type {
	case playback.EventPlay:
		m.current = ev.tag
		info = lastfm.TrackFromTag(ev.tag, ev.duration)
		cmds = append(cmds, tea.SetWindowTitle(appName+" - "+ev.tag.Label()))
		if m.nowPlaying != nil {
			if err := m.nowPlaying.Show(ev.tag); err != nil {
				log.WithError(err).Debug("show notification")
			}
		}
	case playback.EventStop:
		if m.status.state == playback.Idle {
			cmds = append(cmds, tea.SetWindowTitle(appName))
		}
	case playback.EventPause, playback.EventResume:
	}

	nowPlaying, scrobble := m.tracker.Observe(ev.Event, info, now())
	cmds = append(cmds, m.scrobbleCmd(scrobble))
	if nowPlaying != nil && m.scrobbler != nil {
		cmds = append(cmds, lastfm.NowPlayingCmd(m.scrobbler, *nowPlaying))
	}
	return tea.Batch(cmds...)
}

func (m Model) scrobbleCmd(track *lastfm.ScrobbleTrack) tea.Cmd {
	if track == nil || m.scrobbler == nil {
		return nil
	}
	return lastfm.ScrobbleCmd(m.scrobbler, m.pending, *track)
}
