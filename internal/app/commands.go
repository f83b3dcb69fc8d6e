package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/moosack/internal/source"
)

// pollInterval is how often the event log is drained.
const pollInterval = 200 * time.Millisecond

// TickCmd returns a command that sends TickMsg after pollInterval.
func TickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func queueCmd(sources []source.Source) tea.Cmd {
	if len(sources) == 0 {
		return nil
	}
	return func() tea.Msg {
		return QueueMsg{Sources: sources}
	}
}

func startScanCmd() tea.Cmd {
	return func() tea.Msg {
		return startScanMsg{}
	}
}

func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}
