package topic

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/labprep/internal/catalog"
	"github.com/abhisek/labprep/internal/session"
	"github.com/abhisek/labprep/internal/ui/components"
	"github.com/abhisek/labprep/internal/ui/layout"
	"github.com/abhisek/labprep/internal/ui/theme"
)

func (s *TopicScreen) View(width, height int) string {
	if s.width != width || s.height != height {
		s.width, s.height = width, height
		s.refresh()
	}

	var b strings.Builder

	total := s.ctrl.Catalog().Len()
	title := "  " + s.Progress() + ": " + s.topic.Topic
	if s.ctrl.Phase(s.index) == session.PhaseCompleted {
		title += " (completed)"
	}
	heading := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(title)
	b.WriteString(heading)
	b.WriteString("\n")
	phases := make([]session.Phase, total)
	for i := range phases {
		phases[i] = s.ctrl.Phase(i)
	}
	b.WriteString("  " + components.TopicTrack{Phases: phases, Current: s.index, Width: min(width-4, 60)}.View())
	b.WriteString("\n")
	b.WriteString(layout.Divider(width))
	b.WriteString("\n")

	b.WriteString(s.viewport.View())
	b.WriteString("\n\n")

	if s.assessment != nil {
		b.WriteString(renderAssessment(*s.assessment, width))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("  Press Enter to continue."))
		return b.String()
	}

	b.WriteString(s.statusLine())
	b.WriteString("\n")
	b.WriteString("  " + s.input.View())
	b.WriteString("\n")
	if s.errMsg != "" {
		b.WriteString("  " + theme.ErrorText.Render(s.errMsg))
	}
	return b.String()
}

func (s *TopicScreen) statusLine() string {
	switch s.pending {
	case pendingReply:
		return "  " + s.spinner.View() + " " + theme.Hint.Render("Thinking about your response...")
	case pendingAssessment:
		return "  " + s.spinner.View() + " " + theme.Hint.Render("Assessing your understanding...")
	}
	if hint := followUp(s.topic, len(s.messages)); hint != "" {
		return "  " + theme.Hint.Render("Think about: "+hint)
	}
	return ""
}

// followUp suggests one of the topic's follow-up prompts once the
// conversation has started, rotating with each exchange.
func followUp(t catalog.TopicRecord, messages int) string {
	if len(t.FollowUps) == 0 || messages < 2 {
		return ""
	}
	return t.FollowUps[(messages/2-1)%len(t.FollowUps)]
}

// renderTranscript shows the initial question until the learner replies.
func renderTranscript(t catalog.TopicRecord, msgs []session.Message, width int) string {
	bubbleWidth := max(20, width-6)
	if len(msgs) == 0 {
		return renderMessage(session.Message{Role: session.RoleTutor, Content: t.InitialQuestion}, bubbleWidth)
	}
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, renderMessage(m, bubbleWidth))
	}
	return strings.Join(parts, "\n\n")
}

func renderMessage(m session.Message, width int) string {
	if m.Role == session.RoleTutor {
		return "  " + theme.TutorLabel.Render("Tutor:") + "\n" +
			indent(theme.TutorBubble.Width(width).Render(m.Content))
	}
	return "  " + theme.LearnerLabel.Render("You:") + "\n" +
		indent(theme.LearnerBubble.Width(width).Render(m.Content))
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

func renderAssessment(a session.Assessment, width int) string {
	return "  " + lipgloss.NewStyle().
		Foreground(components.RatingColor(a.Rating)).
		Bold(true).
		Width(max(20, width-4)).
		Render(components.RatingIcon(a.Rating)+" "+a.Rating.Label()+": "+a.Explanation)
}
