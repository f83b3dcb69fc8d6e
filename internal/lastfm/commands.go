package lastfm

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/moosack/internal/state"
)

const (
	// Pending scrobbles are dropped after this many failed submissions.
	maxAttempts = 10
	// RetryInterval is the delay between two retries of pending scrobbles.
	RetryInterval = 5 * time.Minute
	// AuthTimeout bounds the wait for the browser authorization.
	AuthTimeout = 5 * time.Minute
)

// PendingStore persists scrobbles that could not be submitted.
type PendingStore interface {
	AddPendingScrobble(p state.PendingScrobble) error
	PendingScrobbles() ([]state.PendingScrobble, error)
	DeletePendingScrobble(id int64) error
	UpdatePendingScrobbleAttempt(id int64, errMsg string) error
}

// Verify state.Store implements PendingStore at compile time.
var _ PendingStore = (*state.Store)(nil)

// NowPlayingResultMsg contains the result of updating now playing.
type NowPlayingResultMsg struct {
	Err error
}

// ScrobbleResultMsg contains the result of a scrobble submission.
// A failed scrobble has been queued for retry when Queued is set.
type ScrobbleResultMsg struct {
	Track  ScrobbleTrack
	Err    error
	Queued bool
}

// RetryPendingMsg triggers retry of pending scrobbles.
type RetryPendingMsg struct{}

// RetryResultMsg contains the result of retrying pending scrobbles.
type RetryResultMsg struct {
	Succeeded int
	Failed    int
	Err       error
}

// NowPlayingCmd sends a "now playing" notification to Last.fm.
func NowPlayingCmd(client Scrobbler, track ScrobbleTrack) tea.Cmd {
	return func() tea.Msg {
		err := client.UpdateNowPlaying(track)
		return NowPlayingResultMsg{Err: err}
	}
}

// ScrobbleCmd submits a track play to Last.fm. On failure the play is kept in
// store for a later retry.
func ScrobbleCmd(client Scrobbler, store PendingStore, track ScrobbleTrack) tea.Cmd {
	return func() tea.Msg {
		err := client.Scrobble(track)
		if err == nil {
			return ScrobbleResultMsg{Track: track}
		}
		queued := store.AddPendingScrobble(toPending(track)) == nil
		return ScrobbleResultMsg{Track: track, Err: err, Queued: queued}
	}
}

// RetryPendingCmd retries pending scrobbles from the queue.
func RetryPendingCmd(client Scrobbler, store PendingStore) tea.Cmd {
	return func() tea.Msg {
		pending, err := store.PendingScrobbles()
		if err != nil {
			return RetryResultMsg{Err: err}
		}

		var succeeded, failed int
		for i := range pending {
			p := &pending[i]
			if p.Attempts >= maxAttempts {
				_ = store.DeletePendingScrobble(p.ID)
				continue
			}

			if err := client.Scrobble(fromPending(p)); err != nil {
				failed++
				_ = store.UpdatePendingScrobbleAttempt(p.ID, err.Error())
			} else {
				succeeded++
				_ = store.DeletePendingScrobble(p.ID)
			}
		}

		return RetryResultMsg{Succeeded: succeeded, Failed: failed}
	}
}

// RetryTickCmd returns a command that triggers pending retry after a delay.
func RetryTickCmd() tea.Cmd {
	return tea.Tick(RetryInterval, func(_ time.Time) tea.Msg {
		return RetryPendingMsg{}
	})
}

// WaitForCallback waits for the authorization callback to deliver a token.
// It returns an empty token when timeout elapses first.
func WaitForCallback(tokenChan <-chan string, timeout time.Duration) string {
	select {
	case token := <-tokenChan:
		return token
	case <-time.After(timeout):
		return ""
	}
}

func toPending(track ScrobbleTrack) state.PendingScrobble {
	return state.PendingScrobble{
		Artist:       track.Artist,
		Track:        track.Track,
		Album:        track.Album,
		AlbumArtist:  track.AlbumArtist,
		DurationSecs: int(track.Duration / time.Second),
		Timestamp:    track.Timestamp,
	}
}

func fromPending(p *state.PendingScrobble) ScrobbleTrack {
	return ScrobbleTrack{
		Artist:      p.Artist,
		Track:       p.Track,
		Album:       p.Album,
		AlbumArtist: p.AlbumArtist,
		Duration:    time.Duration(p.DurationSecs) * time.Second,
		Timestamp:   p.Timestamp,
	}
}
