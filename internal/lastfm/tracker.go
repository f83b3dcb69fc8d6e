package lastfm

import (
	"time"

	"github.com/llehouerou/moosack/internal/playback"
	"github.com/llehouerou/moosack/internal/source"
)

const (
	// Tracks shorter than this are never scrobbled.
	minScrobbleDuration = 30 * time.Second
	// Playing this long earns a scrobble whatever the track length.
	maxScrobbleThreshold = 4 * time.Minute
)

// Tracker follows playback events and decides when a track earns a scrobble:
// Last.fm wants the track played for half its length or four minutes,
// whichever comes first.
type Tracker struct {
	src     source.Source
	track   *ScrobbleTrack
	played  time.Duration
	resumed time.Time // zero while paused
}

// Observe feeds a playback event. For Play it returns the new track to announce
// as now playing; for Play and Stop it also returns the previous track when it
// earned a scrobble. info is only used for Play events.
func (t *Tracker) Observe(ev playback.Event, info ScrobbleTrack, now time.Time) (nowPlaying, scrobble *ScrobbleTrack) {
	switch ev.Type {
	case playback.EventPlay:
		scrobble = t.Finish(now)
		if !info.Scrobbleable() {
			return nil, scrobble
		}
		info.Timestamp = now
		t.src = ev.Source
		t.track = &info
		t.resumed = now
		return t.track, scrobble
	case playback.EventPause:
		if t.active(ev.Source) && !t.resumed.IsZero() {
			t.played += now.Sub(t.resumed)
			t.resumed = time.Time{}
		}
	case playback.EventResume:
		if t.active(ev.Source) && t.resumed.IsZero() {
			t.resumed = now
		}
	case playback.EventStop:
		if t.active(ev.Source) {
			return nil, t.Finish(now)
		}
	}
	return nil, nil
}

// Finish ends the tracked play, for instance when the player went idle
// without an event, and returns the track if it earned a scrobble.
func (t *Tracker) Finish(now time.Time) *ScrobbleTrack {
	if t.track == nil {
		return nil
	}
	played := t.Played(now)
	track := t.track
	*t = Tracker{}

	if !eligible(track.Duration, played) {
		return nil
	}
	return track
}

// Played returns how long the tracked track has been audible.
func (t *Tracker) Played(now time.Time) time.Duration {
	played := t.played
	if !t.resumed.IsZero() {
		played += now.Sub(t.resumed)
	}
	return played
}

// Active reports whether a track is being tracked.
func (t *Tracker) Active() bool {
	return t.track != nil
}

func (t *Tracker) active(src source.Source) bool {
	return t.track != nil && t.src == src
}

// eligible applies the scrobble rules. An unknown duration requires the full
// four minutes.
func eligible(duration, played time.Duration) bool {
	if duration > 0 && duration < minScrobbleDuration {
		return false
	}
	threshold := maxScrobbleThreshold
	if duration > 0 {
		threshold = min(duration/2, maxScrobbleThreshold)
	}
	return played >= threshold
}
