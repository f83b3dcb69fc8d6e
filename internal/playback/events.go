package playback

import "github.com/llehouerou/moosack/internal/source"

// EventType is the kind of playback transition an Event records.
type EventType int

const (
	EventPlay EventType = iota
	EventPause
	EventResume
	EventStop
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventPlay:
		return "Play"
	case EventPause:
		return "Pause"
	case EventResume:
		return "Resume"
	case EventStop:
		return "Stop"
	default:
		return "Unknown"
	}
}

// IsPlaying reports whether the transition leaves the source audible.
// Play and Resume map to "playing" visuals, Pause and Stop to "not playing".
func (t EventType) IsPlaying() bool {
	return t == EventPlay || t == EventResume
}

// Event records a state transition of a source.
//
// Emitted by:
//   - Queue: Play when the source is promoted immediately
//   - Play: Play when a stopped current item restarts, Resume when it was paused
//   - Pause: Pause
//   - PlayNow: Stop for the preempted item, then Play
//   - Skip and end-of-track advance: Play for the next item only
//   - Stop: Stop for the current item
//
// Skip deliberately emits no Stop for the item it leaves.
type Event struct {
	Type   EventType
	Source source.Source
}

// String returns e.g. "Play(File(a.mp3))".
func (e Event) String() string {
	return e.Type.String() + "(" + e.Source.String() + ")"
}
