// Package topic implements the per-topic conversation screen.
package topic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/labprep/internal/catalog"
	"github.com/abhisek/labprep/internal/router"
	"github.com/abhisek/labprep/internal/screen"
	"github.com/abhisek/labprep/internal/session"
	"github.com/abhisek/labprep/internal/ui/components"
	"github.com/abhisek/labprep/internal/ui/layout"
	"github.com/abhisek/labprep/internal/ui/theme"
)

// chromeLines is the number of content lines outside the transcript.
const chromeLines = 9

type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingReply
	pendingAssessment
)

// TopicScreen runs the conversation for the active topic and advances
// through the catalog until the session is complete.
type TopicScreen struct {
	ctx            context.Context
	ctrl           *session.Controller
	summaryFactory func() screen.Screen

	index      int
	topic      catalog.TopicRecord
	messages   []session.Message
	assessment *session.Assessment

	input    components.TextInput
	spinner  spinner.Model
	viewport viewport.Model
	pending  pendingKind
	errMsg   string
	width    int
	height   int
}

var _ screen.Screen = (*TopicScreen)(nil)
var _ screen.KeyHintProvider = (*TopicScreen)(nil)
var _ screen.ProgressProvider = (*TopicScreen)(nil)

// New creates a TopicScreen over a started session. summaryFactory builds
// the screen shown once every topic is assessed.
func New(ctx context.Context, ctrl *session.Controller, summaryFactory func() screen.Screen) *TopicScreen {
	s := &TopicScreen{
		ctx:            ctx,
		ctrl:           ctrl,
		summaryFactory: summaryFactory,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(theme.TutorLabel),
		),
		viewport: viewport.New(),
	}
	s.loadActive()
	return s
}

// loadActive points the screen at the controller's active topic.
func (s *TopicScreen) loadActive() {
	s.index = s.ctrl.CurrentTopicIndex()
	s.topic, _ = s.ctrl.GetActiveTopic()
	s.messages = nil
	if conv, ok := s.ctrl.Conversation(s.index); ok {
		s.messages = conv.Messages
	}
	s.assessment = nil
	s.errMsg = ""
	s.input = components.NewTextInput("Your response:", "Type your answer and press Enter", 0, 0)
	s.refresh()
}

func (s *TopicScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *TopicScreen) Title() string {
	return s.topic.Topic
}

// Progress returns "Topic i of N".
func (s *TopicScreen) Progress() string {
	return fmt.Sprintf("Topic %d of %d", s.index+1, s.ctrl.Catalog().Len())
}

func (s *TopicScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.assessment != nil:
		return []layout.KeyHint{{Key: "Enter", Description: "Continue to Next Topic"}}
	case s.pending != pendingNone:
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	hints := []layout.KeyHint{{Key: "Enter", Description: "Send Response"}}
	if s.ctrl.CanMarkUnderstood(s.index) {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+N", Description: "I understand this topic"})
	}
	return append(hints,
		layout.KeyHint{Key: "PgUp/PgDn", Description: "Scroll"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

func (s *TopicScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = layout.ContentHeight(msg.Height)
		s.refresh()
		return s, nil

	case replyMsg:
		return s.handleReply(msg)

	case assessedMsg:
		return s.handleAssessed(msg)

	case spinner.TickMsg:
		if s.pending == pendingNone {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *TopicScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.assessment != nil {
		if key == "enter" {
			return s.advance()
		}
		return s, nil
	}
	if s.pending != pendingNone {
		return s, nil
	}

	switch key {
	case "enter":
		return s.submit()
	case "ctrl+n":
		return s.markUnderstood()
	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		s.viewport, cmd = s.viewport.Update(msg)
		return s, cmd
	}

	s.errMsg = ""
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *TopicScreen) submit() (screen.Screen, tea.Cmd) {
	text := s.input.Value()
	if strings.TrimSpace(text) == "" {
		s.errMsg = "Please provide a response."
		return s, nil
	}

	// Show the learner's message while the tutor thinks.
	s.messages = append(s.messages, session.Message{Role: session.RoleLearner, Content: strings.TrimSpace(text)})
	s.input.Clear()
	s.input.SetEnabled(false)
	s.pending = pendingReply
	s.errMsg = ""
	s.refresh()

	ctx, ctrl, idx := s.ctx, s.ctrl, s.index
	return s, tea.Batch(
		s.spinner.Tick,
		func() tea.Msg {
			conv, err := ctrl.SubmitResponse(ctx, idx, text)
			return replyMsg{Index: idx, Conversation: conv, Err: err}
		},
	)
}

func (s *TopicScreen) handleReply(msg replyMsg) (screen.Screen, tea.Cmd) {
	if msg.Index != s.index {
		return s, nil
	}
	s.pending = pendingNone
	if msg.Err != nil {
		s.errMsg = userMessage(msg.Err)
		if conv, ok := s.ctrl.Conversation(s.index); ok {
			s.messages = conv.Messages
		}
	} else {
		s.messages = msg.Conversation.Messages
	}
	s.refresh()
	return s, s.input.SetEnabled(true)
}

func (s *TopicScreen) markUnderstood() (screen.Screen, tea.Cmd) {
	if !s.ctrl.CanMarkUnderstood(s.index) {
		s.errMsg = gateNotice(s.ctrl.MessagesUntilGate(s.index))
		return s, nil
	}
	s.input.SetEnabled(false)
	s.pending = pendingAssessment
	s.errMsg = ""

	ctx, ctrl, idx := s.ctx, s.ctrl, s.index
	return s, tea.Batch(
		s.spinner.Tick,
		func() tea.Msg {
			a, err := ctrl.MarkUnderstood(ctx, idx)
			return assessedMsg{Index: idx, Assessment: a, Err: err}
		},
	)
}

func (s *TopicScreen) handleAssessed(msg assessedMsg) (screen.Screen, tea.Cmd) {
	if msg.Index != s.index {
		return s, nil
	}
	s.pending = pendingNone
	if msg.Err != nil {
		s.errMsg = userMessage(msg.Err)
		return s, s.input.SetEnabled(true)
	}
	a := msg.Assessment
	s.assessment = &a
	return s, nil
}

// advance moves to the next topic, or to the summary when done.
func (s *TopicScreen) advance() (screen.Screen, tea.Cmd) {
	if s.ctrl.IsSessionComplete() {
		next := s.summaryFactory()
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	s.loadActive()
	return s, s.input.Init()
}

// refresh re-renders the transcript into the viewport and scrolls to the
// newest message.
func (s *TopicScreen) refresh() {
	if s.width == 0 {
		return
	}
	s.viewport.SetWidth(s.width)
	s.viewport.SetHeight(max(3, s.height-chromeLines))
	s.viewport.SetContent(renderTranscript(s.topic, s.messages, s.width))
	s.viewport.GotoBottom()
}

func gateNotice(missing int) string {
	if missing == 1 {
		return "Keep going: 1 more message before you can mark this topic understood."
	}
	return fmt.Sprintf("Keep going: %d more messages before you can mark this topic understood.", missing)
}

func userMessage(err error) string {
	var verr *session.ValidationError
	if errors.As(err, &verr) {
		return "Please provide a response."
	}
	var serr *session.StateError
	if errors.As(err, &serr) {
		return "That action isn't available right now: " + serr.Reason
	}
	return err.Error()
}
