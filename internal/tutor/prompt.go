package tutor

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/abhisek/labprep/internal/session"
)

var replySystemTemplate = template.Must(template.New("reply").Funcs(promptFuncs).Parse(
	`You are a supportive chemistry tutor using the Socratic method.

Topic: {{.Topic}}
Key concepts to eventually cover: {{join .KeyConcepts ", "}}

Your approach:
1. ALWAYS start with positive reinforcement for what the student got right
2. Use the student's answer as a building block
3. Ask follow-up questions that guide them toward the key concepts
4. Be encouraging and patient
5. If they're struggling, break concepts into smaller pieces
6. If they're doing well, challenge them appropriately

Current conversation:
{{transcript .Transcript}}

Respond as a caring tutor who wants the student to discover the answer through guided questions.`))

var evaluationSystemTemplate = template.Must(template.New("evaluate").Funcs(promptFuncs).Parse(
	`Based on this conversation about chemistry, evaluate if the student demonstrates understanding of these key concepts:
{{join .KeyConcepts ", "}}

Topic: {{.Topic}}

Rate as:
- STRONG: Clearly understands most/all key concepts
- DEVELOPING: Shows partial understanding, getting there
- NEEDS_WORK: Limited understanding, needs more guidance

{{if .Structured}}Return the rating and a brief explanation of your assessment.{{else}}Provide a brief explanation of your assessment.{{end}}`))

var promptFuncs = template.FuncMap{
	"join":       strings.Join,
	"transcript": renderTranscript,
}

// renderTranscript writes one "role: content" line per message.
func renderTranscript(msgs []session.Message) string {
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(speaker(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}

func speaker(r session.Role) string {
	if r == session.RoleLearner {
		return "student"
	}
	return "tutor"
}

type replyPromptData struct {
	Topic       string
	KeyConcepts []string
	Transcript  []session.Message
}

// buildReplyPrompt returns the system prompt and user message for a reply.
// The transcript in the prompt includes the latest learner text.
func buildReplyPrompt(req session.TutorRequest) (system, user string, err error) {
	data := replyPromptData{
		Topic:       req.Topic,
		KeyConcepts: req.KeyConcepts,
		Transcript: append(append([]session.Message(nil), req.Transcript...),
			session.Message{Role: session.RoleLearner, Content: req.LatestLearnerText}),
	}
	var buf bytes.Buffer
	if err := replySystemTemplate.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return buf.String(), "Student's response: " + req.LatestLearnerText, nil
}

type evaluationPromptData struct {
	Topic       string
	KeyConcepts []string
	Structured  bool
}

func buildEvaluationPrompt(req session.EvaluationRequest, structured bool) (system, user string, err error) {
	var buf bytes.Buffer
	data := evaluationPromptData{Topic: req.Topic, KeyConcepts: req.KeyConcepts, Structured: structured}
	if err := evaluationSystemTemplate.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return buf.String(), "Conversation:\n" + renderTranscript(req.Transcript), nil
}
