package app

import (
	"time"

	"github.com/llehouerou/moosack/internal/errmsg"
	"github.com/llehouerou/moosack/internal/library"
	"github.com/llehouerou/moosack/internal/source"
)

// TickMsg drives the event poll.
type TickMsg time.Time

// QueueMsg asks the model to queue sources, in order.
type QueueMsg struct {
	Sources []source.Source
}

// CommandResultMsg reports a player command that ran in the background.
type CommandResultMsg struct {
	Op  errmsg.Op
	Err error
}

// pollResultMsg carries the drained events and the player state after them.
type pollResultMsg struct {
	events []polledEvent
	status playerStatus
	err    error
}

// startScanMsg starts the library refresh.
type startScanMsg struct{}

// LibraryScanProgressMsg wraps library scan progress updates.
type LibraryScanProgressMsg library.ScanProgress

// LibraryScanCompleteMsg is sent when the scan progress channel closes.
type LibraryScanCompleteMsg struct{}

// libraryScanDoneMsg carries the result of the refresh.
type libraryScanDoneMsg struct {
	err error
}
