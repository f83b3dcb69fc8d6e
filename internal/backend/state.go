// internal/backend/state.go
package backend

// State is the backend's playback state.
//
//	┌────────────────┐  play   ┌──────────┐  pause  ┌──────────┐
//	│ NothingSpecial │ ───────▶│  Playing │ ───────▶│  Paused  │
//	└────────────────┘         └──────────┘◀─────── └──────────┘
//	                             ▲      │    resume      │
//	                        play │      │ stop / end     │ stop
//	                             │      ▼                │
//	                           ┌──────────┐              │
//	                           │  Stopped │◀─────────────┘
//	                           └──────────┘
//
// Valid transitions:
//   - NothingSpecial → Playing (via Play)
//   - Playing → Paused  (via Pause)
//   - Playing → Stopped (via Stop, or when the track ends)
//   - Paused  → Playing (via Resume)
//   - Paused  → Stopped (via Stop)
//   - Stopped → Playing (via Play)
//
// NothingSpecial means no media has been played since the backend was created.
// Backends that cannot tell it apart from Stopped report Stopped; an ended track
// is reported as Stopped.
type State int

const (
	NothingSpecial State = iota
	Playing
	Paused
	Stopped
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case NothingSpecial:
		return "NothingSpecial"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// IsIdle returns true for states in which Play starts the prepared media.
func (s State) IsIdle() bool {
	return s == NothingSpecial || s == Stopped
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == Playing
}

// CanResume returns true if the state allows resuming.
func (s State) CanResume() bool {
	return s == Paused
}
