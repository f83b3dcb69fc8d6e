// Package app is the terminal front end: it owns the run state, drives the
// playback service from key presses and reports what the player does.
package app

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/moosack/internal/keymap"
	"github.com/llehouerou/moosack/internal/lastfm"
	"github.com/llehouerou/moosack/internal/library"
	"github.com/llehouerou/moosack/internal/notify"
	"github.com/llehouerou/moosack/internal/playback"
	"github.com/llehouerou/moosack/internal/source"
	"github.com/llehouerou/moosack/internal/tags"
)

const appName = "Moosack"

// Options wires the model to the rest of the program. Only Service is required.
type Options struct {
	Service playback.Service

	// Media gives the length and local file of loaded sources. Without it
	// only the current item's are known.
	Media Media

	// Initial is queued when the program starts.
	Initial []source.Source

	// Library, when set, is refreshed from Libraries at start and its tracks
	// are queued after Initial.
	Library   *library.Library
	Libraries []string

	Notifier  notify.Notifier
	Scrobbler lastfm.Scrobbler
	Pending   lastfm.PendingStore
}

// Model is the root application model.
type Model struct {
	service playback.Service
	media   Media
	keys    keymap.KeyMap
	help    help.Model

	running bool      // a player command is in flight
	backlog []tea.Cmd // player commands waiting for it
	polling bool
	repoll  bool
	status  playerStatus

	initial   []source.Source
	library   *library.Library
	libraries []string
	scan      *scanState

	nowPlaying *notify.NowPlaying
	scrobbler  lastfm.Scrobbler
	pending    lastfm.PendingStore
	tracker    *lastfm.Tracker

	current  *tags.Tag // metadata of the last played source
	errorMsg string
	quitting bool
	stopped  bool // playback stopped for quit
	width    int
}

// New creates the application model.
func New(opts Options) Model {
	m := Model{
		service:   opts.Service,
		media:     opts.Media,
		keys:      keymap.Default(),
		help:      help.New(),
		initial:   opts.Initial,
		library:   opts.Library,
		libraries: opts.Libraries,
		tracker:   &lastfm.Tracker{},
		width:     80,
	}
	if opts.Notifier != nil {
		m.nowPlaying = notify.NewNowPlaying(opts.Notifier)
	}
	if opts.Scrobbler != nil && opts.Pending != nil {
		m.scrobbler = opts.Scrobbler
		m.pending = opts.Pending
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle(appName),
		TickCmd(),
		queueCmd(m.initial),
	}
	if m.library != nil && len(m.libraries) > 0 {
		cmds = append(cmds, startScanCmd())
	}
	if m.scrobbler != nil {
		cmds = append(cmds, lastfm.RetryPendingCmd(m.scrobbler, m.pending))
	}
	return tea.Batch(cmds...)
}

// Quitting reports whether the user asked to quit.
func (m Model) Quitting() bool {
	return m.quitting
}
