package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/moosack/internal/playback"
	"github.com/llehouerou/moosack/internal/ui/playerbar"
	"github.com/llehouerou/moosack/internal/ui/render"
	"github.com/llehouerou/moosack/internal/ui/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	t := styles.T()
	s := t.S()

	var b strings.Builder
	header := render.Row(styles.Gradient(appName, t.Primary, t.Secondary), m.scanLine(), m.width)
	b.WriteString(ansi.Truncate(header, m.width, "…"))
	b.WriteString("\n")
	b.WriteString(playerbar.Render(m.barState(), m.width))
	b.WriteString("\n")
	if m.errorMsg != "" {
		b.WriteString(s.Error.Render(render.Truncate(m.errorMsg, m.width)))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) barState() playerbar.State {
	st := m.status
	if st.state == playback.Idle {
		return playerbar.NewState(st.state, nil, 0, st.queued)
	}
	return playerbar.NewState(st.state, m.current, st.duration, st.queued).WithPosition(st.position, st.hasPosition)
}

// scanLine describes a running library scan.
func (m Model) scanLine() string {
	if m.scan == nil {
		return ""
	}
	s := styles.T().S()
	switch m.scan.phase {
	case "processing":
		return s.Muted.Render(fmt.Sprintf("Reading tags %s/%s",
			humanize.Comma(int64(m.scan.current)), humanize.Comma(int64(m.scan.total))))
	case "cleaning":
		return s.Muted.Render("Cleaning up removed files")
	case "done":
		return s.Muted.Render("Library up to date")
	}
	return s.Muted.Render(fmt.Sprintf("Scanning library (%s files)", humanize.Comma(int64(m.scan.current))))
}
