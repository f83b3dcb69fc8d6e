package playback

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llehouerou/moosack/internal/backend"
	"github.com/llehouerou/moosack/internal/source"
)

// eventChecker replays an event stream and rejects transitions the player
// must never report, such as a Resume without a preceding Pause.
type eventChecker struct {
	current source.Source
	playing bool
}

func (c *eventChecker) apply(ev Event) error {
	switch ev.Type {
	case EventPlay:
		// A Play for a new source may follow a skipped one without a Stop.
		c.current, c.playing = ev.Source, true
	case EventPause:
		if ev.Source != c.current || !c.playing {
			return fmt.Errorf("%v while %v playing=%v", ev, c.current, c.playing)
		}
		c.playing = false
	case EventResume:
		if ev.Source != c.current || c.playing {
			return fmt.Errorf("%v while %v playing=%v", ev, c.current, c.playing)
		}
		c.playing = true
	case EventStop:
		if ev.Source != c.current {
			return fmt.Errorf("%v while %v is current", ev, c.current)
		}
		c.current, c.playing = source.Source{}, false
	}
	return nil
}

func TestPlayer_RandomOperationsKeepInvariants(t *testing.T) {
	pool := []source.Source{
		srcA, srcB, srcC,
		source.File("missing.mp3"),
		source.URL("file:///music/a.mp3"),
	}

	for seed := uint64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(seed, seed))
			p, b := newTestPlayer(t)
			b.FailMissingFiles("missing.mp3")
			var checker eventChecker

			for step := range 300 {
				var desc string
				switch rng.IntN(9) {
				case 0, 1:
					src := pool[rng.IntN(len(pool))]
					desc = "queue " + src.String()
					_ = p.Queue(src)
				case 2:
					desc = "play"
					_ = p.Play()
				case 3:
					desc = "pause"
					_ = p.Pause()
				case 4:
					desc = "toggle"
					_ = p.TogglePlaying()
				case 5:
					desc = "skip"
					_ = p.Skip()
				case 6:
					desc = "stop"
					_ = p.Stop()
				case 7:
					src := pool[rng.IntN(len(pool))]
					desc = "play now " + src.String()
					_ = p.PlayNow(src)
				case 8:
					desc = "end of track"
					b.SimulateEndOfTrack()
				}

				if rng.IntN(3) == 0 {
					events, _ := p.Drain()
					for _, ev := range events {
						require.NoError(t, checker.apply(ev), "step %d (%s)", step, desc)
					}
				}

				cur, hasCurrent := p.Current()
				if !hasCurrent {
					require.Equal(t, Idle, p.State(), "step %d (%s)", step, desc)
					require.NotEqual(t, backend.Playing, b.State(),
						"step %d (%s): backend audible with nothing current", step, desc)
					continue
				}
				require.NotEqual(t, Idle, p.State(), "step %d (%s)", step, desc)
				path, _ := cur.Normalize().Path()
				require.Equal(t, path, b.Prepared(),
					"step %d (%s): current item is not the prepared one", step, desc)
			}
		})
	}
}
