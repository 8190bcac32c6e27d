package prompt

import (
	"strings"

	"ai-twin-be/pkg/persona"
	"ai-twin-be/pkg/rag/response"
	"ai-twin-be/pkg/rag/retrieval"
	"ai-twin-be/pkg/store"
)

const (
	historyMaxMessages = 6
	historyMaxRunes    = 200
)

const noContextWarning = "NO CONTEXT FOUND: No knowledge-base entry matched this question. Do not fabricate details. " +
	"Answer only from the identity and FAQ information above, or say plainly that you don't have that information."

// Input is everything the final system prompt is assembled from.
type Input struct {
	Mood                persona.MoodConfig
	Persona             *persona.Persona
	History             []store.Message
	FAQBlock            string
	Retrieval           retrieval.Outcome
	Meta                bool
	LengthPolicy        response.LengthPolicy
	FeedbackInstruction string
}

// Compose builds the system prompt. Section order sets instruction priority:
// mood first, visitor preferences last.
func Compose(in Input) string {
	var sections []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			sections = append(sections, s)
		}
	}

	add(in.Mood.PromptAddition)
	if in.Persona != nil {
		add(in.Persona.Identity)
	}
	add(writeHistory(in.History))
	add(in.FAQBlock)
	if in.Retrieval.ChunksUsed > 0 {
		add(retrieval.Block(in.Retrieval))
	} else {
		add(noContextWarning)
	}
	if in.Meta && in.Persona != nil {
		add("META INFO: " + in.Persona.Meta)
	}
	add(in.LengthPolicy.Instruction())
	add(in.FeedbackInstruction)

	return strings.Join(sections, "\n\n")
}

func writeHistory(history []store.Message) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) > historyMaxMessages {
		history = history[len(history)-historyMaxMessages:]
	}

	var sb strings.Builder
	sb.WriteString("CONVERSATION SO FAR (most recent last):\n")
	for _, m := range history {
		speaker := "Visitor"
		if m.Role == store.RoleAssistant {
			speaker = "You"
		}
		sb.WriteString(speaker)
		sb.WriteString(": ")
		sb.WriteString(truncateRunes(strings.TrimSpace(m.Content), historyMaxRunes))
		sb.WriteString("\n")
	}
	return sb.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
