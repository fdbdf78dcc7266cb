package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/labprep/internal/session"
	"github.com/abhisek/labprep/internal/ui/theme"
)

// TopicTrack draws one segment per topic: green once completed, amber for
// the topic on screen, grey for the rest, followed by a done count.
type TopicTrack struct {
	Phases  []session.Phase
	Current int
	Width   int
}

func (t TopicTrack) View() string {
	n := len(t.Phases)
	if n == 0 {
		return ""
	}

	done := 0
	for _, p := range t.Phases {
		if p == session.PhaseCompleted {
			done++
		}
	}
	count := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %d/%d done", done, n))

	// Each segment is followed by a one-cell gap except the last.
	seg := max(2, (t.Width-lipgloss.Width(count)-(n-1))/n)

	var b strings.Builder
	for i, p := range t.Phases {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(lipgloss.NewStyle().Background(t.segmentColor(i, p)).Render(strings.Repeat(" ", seg)))
	}
	b.WriteString(count)
	return b.String()
}

func (t TopicTrack) segmentColor(i int, p session.Phase) color.Color {
	switch {
	case p == session.PhaseCompleted:
		return theme.Success
	case i == t.Current:
		return theme.Accent
	default:
		return theme.Border
	}
}
