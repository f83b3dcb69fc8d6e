// internal/playback/state.go
package playback

// State is the player's conceptual state.
//
// Valid transitions:
//   - Idle    → Playing (via Queue, Play pulling the queue, PlayNow)
//   - Playing → Paused  (via Pause)
//   - Paused  → Playing (via Play)
//   - Playing → Ended   (the backend finishes the track)
//   - Ended   → Playing (via Poll or Play, when the queue has a loadable item)
//   - any     → Idle    (via Stop, or Skip with nothing loadable left)
//   - any     → Playing (via Skip or PlayNow with a loadable item)
//
// Ended is the short window between the backend finishing a track and the
// next Poll advancing the queue: the item is still current but silent.
type State int

const (
	Idle State = iota
	Playing
	Paused
	Ended
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Ended:
		return "Ended"
	default:
		return "Unknown"
	}
}

// IsActive returns true if an item is loaded (playing, paused or ended).
func (s State) IsActive() bool {
	return s != Idle
}
