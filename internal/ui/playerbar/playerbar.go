// Package playerbar renders the now-playing panel.
package playerbar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/moosack/internal/playback"
	"github.com/llehouerou/moosack/internal/tags"
	"github.com/llehouerou/moosack/internal/ui/render"
	"github.com/llehouerou/moosack/internal/ui/styles"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	endSymbol   = "■"
)

// State holds everything needed to render the player bar.
type State struct {
	Status   playback.State
	Title    string
	Artist   string
	Album    string
	Year     int
	Position float64 // fraction played, valid when HasPosition
	Duration time.Duration
	Queued   int

	HasPosition bool
}

// NewState describes the current item of a player in status st.
// tag is nil when nothing is current.
func NewState(st playback.State, tag *tags.Tag, duration time.Duration, queued int) State {
	s := State{Status: st, Duration: duration, Queued: queued}
	if tag != nil {
		s.Title = tag.Title
		s.Artist = tag.Artist
		s.Album = tag.Album
		s.Year = tag.Year()
	}
	return s
}

// WithPosition sets the played fraction.
func (s State) WithPosition(pos float64, ok bool) State {
	s.Position = min(max(pos, 0), 1)
	s.HasPosition = ok
	return s
}

// Elapsed returns the played time, or zero when the duration is unknown.
func (s State) Elapsed() time.Duration {
	if !s.HasPosition || s.Duration <= 0 {
		return 0
	}
	return time.Duration(s.Position * float64(s.Duration))
}

// Height is the number of rows Render returns.
const Height = 5 // 3 content rows + 2 border rows

// Render returns the player bar for the given width.
func Render(s State, width int) string {
	st := styles.T().S()
	panel := st.Panel
	inner := max(width-panel.GetHorizontalFrameSize(), 10)

	queued := st.Muted.Render(queueLabel(s.Queued))

	if s.Status == playback.Idle {
		lines := []string{
			render.Row(st.Subtle.Render("Nothing playing"), queued, inner),
			"",
			"",
		}
		return panel.Width(inner + panel.GetHorizontalPadding()).Render(strings.Join(lines, "\n"))
	}

	status := statusSymbol(s.Status)
	timeStr := st.Muted.Render(fmt.Sprintf("%s / %s", formatDuration(s.Elapsed()), formatDuration(s.Duration)))
	titleWidth := inner - lipgloss.Width(status) - 1 - lipgloss.Width(timeStr) - 1

	title := s.Title
	if title == "" {
		title = "Unknown Track"
	}
	line1 := render.Row(status+" "+st.Title.Render(render.Truncate(title, titleWidth)), timeStr, inner)

	infoWidth := inner - lipgloss.Width(queued) - 1
	line2 := render.Row(st.Muted.Render(render.Truncate(s.info(), infoWidth)), queued, inner)

	bar := progress.New(
		progress.WithGradient(string(styles.T().Primary), string(styles.T().Secondary)),
		progress.WithoutPercentage(),
		progress.WithWidth(inner),
	)
	line3 := bar.ViewAs(s.Position)

	return panel.Width(inner + panel.GetHorizontalPadding()).Render(strings.Join([]string{line1, line2, line3}, "\n"))
}

// info joins artist, album and year with " · ".
func (s State) info() string {
	var parts []string
	if s.Artist != "" {
		parts = append(parts, s.Artist)
	}
	if s.Album != "" {
		parts = append(parts, s.Album)
	}
	if s.Year > 0 {
		parts = append(parts, strconv.Itoa(s.Year))
	}
	return strings.Join(parts, " · ")
}

func statusSymbol(st playback.State) string {
	s := styles.T().S()
	switch st {
	case playback.Playing:
		return s.Playing.Render(playSymbol)
	case playback.Paused:
		return s.Paused.Render(pauseSymbol)
	case playback.Idle, playback.Ended:
		return s.Muted.Render(endSymbol)
	}
	return s.Muted.Render(endSymbol)
}

func queueLabel(n int) string {
	switch n {
	case 0:
		return "queue empty"
	case 1:
		return "1 track queued"
	}
	return humanize.Comma(int64(n)) + " tracks queued"
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
