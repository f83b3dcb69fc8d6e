package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/moosack/internal/backend"
	"github.com/llehouerou/moosack/internal/errmsg"
	"github.com/llehouerou/moosack/internal/library"
)

// scanState tracks a running library refresh.
type scanState struct {
	progress <-chan library.ScanProgress
	done     <-chan error
	phase    string
	current  int
	total    int
}

// handleLibraryScanMsg routes library scan messages.
func (m Model) handleLibraryScanMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startScanMsg:
		return m, m.startLibraryScan()

	case LibraryScanProgressMsg:
		if m.scan == nil {
			return m, nil
		}
		m.scan.phase = msg.Phase
		m.scan.current = msg.Current
		m.scan.total = msg.Total
		if msg.Stats != nil {
			log.Infof("library scan: %d added, %d updated, %d removed",
				msg.Stats.Added, msg.Stats.Updated, msg.Stats.Removed)
		}
		return m, m.waitForLibraryScan()

	case LibraryScanCompleteMsg:
		if m.scan == nil {
			return m, nil
		}
		done := m.scan.done
		return m, func() tea.Msg {
			return libraryScanDoneMsg{err: <-done}
		}

	case libraryScanDoneMsg:
		m.scan = nil
		if msg.err != nil {
			m.errorMsg = errmsg.Format(errmsg.OpScan, msg.err)
		}
		tracks, err := m.library.Tracks()
		if err != nil {
			m.errorMsg = errmsg.Format(errmsg.OpScan, err)
			return m, nil
		}
		playable := lo.Filter(tracks, func(t library.Track, _ int) bool {
			return backend.CanDecode(t.Path)
		})
		return m, queueCmd(library.Sources(playable))
	}
	return m, nil
}

// startLibraryScan refreshes the library in the background.
// It returns nil if a scan is already running.
func (m *Model) startLibraryScan() tea.Cmd {
	if m.scan != nil || m.library == nil {
		return nil
	}

	progress := make(chan library.ScanProgress)
	done := make(chan error, 1)
	m.scan = &scanState{progress: progress, done: done, phase: "scanning"}

	lib, dirs := m.library, m.libraries
	go func() {
		done <- lib.Refresh(dirs, progress)
	}()

	return m.waitForLibraryScan()
}

func (m Model) waitForLibraryScan() tea.Cmd {
	return waitForChannel(m.scan.progress, func(progress library.ScanProgress, ok bool) tea.Msg {
		if !ok {
			return LibraryScanCompleteMsg{}
		}
		return LibraryScanProgressMsg(progress)
	})
}
