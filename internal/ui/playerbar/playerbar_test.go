package playerbar

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/moosack/internal/playback"
	"github.com/llehouerou/moosack/internal/tags"
)

func TestNewState(t *testing.T) {
	tag := &tags.Tag{Title: "Song", Artist: "Artist", Album: "Album", Date: "1999-01-01"}

	s := NewState(playback.Playing, tag, 3*time.Minute, 2).WithPosition(0.5, true)

	assert.Equal(t, "Song", s.Title)
	assert.Equal(t, 1999, s.Year)
	assert.Equal(t, 90*time.Second, s.Elapsed())
	assert.Equal(t, "Artist · Album · 1999", s.info())
}

func TestState_Elapsed(t *testing.T) {
	s := NewState(playback.Playing, nil, 0, 0).WithPosition(0.5, true)
	assert.Zero(t, s.Elapsed(), "unknown duration")

	s = NewState(playback.Playing, nil, time.Minute, 0).WithPosition(0.5, false)
	assert.Zero(t, s.Elapsed(), "unknown position")

	s = NewState(playback.Playing, nil, time.Minute, 0).WithPosition(3, true)
	assert.Equal(t, time.Minute, s.Elapsed(), "position is clamped")
}

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  []string
	}{
		{
			name:  "idle",
			state: NewState(playback.Idle, nil, 0, 0),
			want:  []string{"Nothing playing", "queue empty"},
		},
		{
			name: "playing",
			state: NewState(playback.Playing, &tags.Tag{Title: "Song", Artist: "Artist"}, 3*time.Minute, 1234).
				WithPosition(0.25, true),
			want: []string{playSymbol, "Song", "Artist", "0:45 / 3:00", "1,234 tracks queued"},
		},
		{
			name:  "paused untitled",
			state: NewState(playback.Paused, &tags.Tag{}, 0, 1),
			want:  []string{pauseSymbol, "Unknown Track", "1 track queued"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Render(tt.state, 80)

			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			lines := strings.Split(out, "\n")
			assert.Len(t, lines, Height)
			for _, line := range lines {
				assert.Equal(t, 80, lipgloss.Width(line))
			}
		})
	}
}

func TestRender_TruncatesLongTitles(t *testing.T) {
	tag := &tags.Tag{Title: strings.Repeat("long title ", 20)}

	out := Render(NewState(playback.Playing, tag, time.Minute, 0), 60)

	assert.Contains(t, out, "…")
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, 60, lipgloss.Width(line))
	}
}
