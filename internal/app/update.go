package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/moosack/internal/errmsg"
	"github.com/llehouerou/moosack/internal/keymap"
	"github.com/llehouerou/moosack/internal/lastfm"
)

// now is replaced in tests.
var now = time.Now

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		if m.quitting {
			return m, nil
		}
		m, cmd := m.requestPoll()
		return m, tea.Batch(cmd, TickCmd())

	case QueueMsg:
		service, sources := m.service, msg.Sources
		return m.runCommand(errmsg.OpQueue, func() error {
			return queueSources(service, sources)
		})

	case CommandResultMsg:
		return m.handleCommandResult(msg)

	case pollResultMsg:
		return m.handlePollResult(msg)

	case startScanMsg, LibraryScanProgressMsg, LibraryScanCompleteMsg, libraryScanDoneMsg:
		return m.handleLibraryScanMsg(msg)

	case lastfm.NowPlayingResultMsg:
		if msg.Err != nil {
			log.WithError(msg.Err).Warn("lastfm now playing failed")
		}
		return m, nil

	case lastfm.ScrobbleResultMsg:
		if msg.Err != nil {
			log.WithError(msg.Err).WithField("queued", msg.Queued).Warnf("scrobble of %q failed", msg.Track.Track)
		}
		return m, nil

	case lastfm.RetryPendingMsg:
		return m, lastfm.RetryPendingCmd(m.scrobbler, m.pending)

	case lastfm.RetryResultMsg:
		switch {
		case msg.Err != nil:
			log.WithError(msg.Err).Warn("read pending scrobbles")
		case msg.Succeeded+msg.Failed > 0:
			log.Infof("retried pending scrobbles: %d sent, %d failed", msg.Succeeded, msg.Failed)
		}
		return m, lastfm.RetryTickCmd()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	var (
		op errmsg.Op
		fn func() error
	)
	switch m.keys.Resolve(msg) {
	case keymap.ActionPlayPause:
		op, fn = errmsg.OpPlay, m.service.TogglePlaying
	case keymap.ActionPlay:
		op, fn = errmsg.OpPlay, m.service.Play
	case keymap.ActionSkip:
		op, fn = errmsg.OpSkip, m.service.Skip
	case keymap.ActionStop:
		op, fn = errmsg.OpStop, m.service.Stop
	case keymap.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case keymap.ActionQuit:
		m.quitting = true
		return m.runCommand(errmsg.OpStop, m.service.Stop)
	case keymap.ActionNone:
		return m, nil
	}

	m.errorMsg = ""
	return m.runCommand(op, fn)
}
