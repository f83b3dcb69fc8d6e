// Package backend defines the media playback capability the player drives,
// with a beep/speaker implementation and a test double.
package backend

import (
	"errors"
	"time"
)

var (
	// ErrNothingPrepared is returned by Play when no handle was prepared.
	ErrNothingPrepared = errors.New("no media prepared")
	// ErrNotPlaying is returned by Pause when nothing is playing.
	ErrNotPlaying = errors.New("not playing")
	// ErrNotPaused is returned by Resume when playback is not paused.
	ErrNotPaused = errors.New("not paused")
	// ErrUnsupportedFormat is returned by Open for files no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrForeignHandle is returned by Prepare for a handle another backend opened.
	ErrForeignHandle = errors.New("handle not opened by this backend")
)

// Handle is a local media file prepared by a backend's Open.
// Handles are immutable and may be prepared any number of times.
type Handle interface {
	Path() string
	Duration() time.Duration
}

// Backend is the capability set the playback state machine depends on.
//
// Implementations are driven from a single exclusive-access region, except for
// the end-of-track handler which may be invoked from any goroutine.
type Backend interface {
	// Open validates a local media file and returns a handle for it. It may block on I/O.
	Open(path string) (Handle, error)
	// Prepare loads h as the media the next Play starts, halting anything current.
	Prepare(h Handle) error
	Play() error
	Pause() error
	Resume() error
	Stop() error
	IsPlaying() bool
	IsPaused() bool
	State() State
	// Position returns the playback position as a fraction of the track length,
	// or false when nothing is loaded.
	Position() (float64, bool)
	// OnEndOfTrack registers the handler called when a track plays to its end.
	OnEndOfTrack(fn func())
}
