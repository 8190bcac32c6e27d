package prompt

import (
	"strings"
	"testing"

	"ai-twin-be/pkg/persona"
	"ai-twin-be/pkg/rag/response"
	"ai-twin-be/pkg/rag/retrieval"
	"ai-twin-be/pkg/store"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPersona = `
identity: IDENTITY
meta: META
default_mood: pro
decline: {default: "ask me something else"}
moods:
  - {id: pro, name: Pro, prompt_addition: MOOD, temperature: 0.7}
`

func newPersona(t *testing.T) *persona.Persona {
	t.Helper()
	p, err := persona.Parse([]byte(testPersona))
	require.NoError(t, err)
	return p
}

func TestComposeSectionOrder(t *testing.T) {
	p := newPersona(t)
	policy := response.LengthPolicy{TargetMin: 40, TargetMax: 80, HardMaxWords: 100}

	got := Compose(Input{
		Mood:    p.Mood("pro"),
		Persona: p,
		History: []store.Message{
			{Role: store.RoleUser, Content: "hi"},
			{Role: store.RoleAssistant, Content: "hello!"},
		},
		FAQBlock:            "FAQ",
		Retrieval:           retrieval.Outcome{Chunks: []string{"CHUNK"}, ChunksUsed: 1, AverageScore: 0.9},
		Meta:                true,
		LengthPolicy:        policy,
		FeedbackInstruction: "FEEDBACK",
	})

	want := strings.Join([]string{
		"MOOD",
		"IDENTITY",
		"CONVERSATION SO FAR (most recent last):\nVisitor: hi\nYou: hello!",
		"FAQ",
		retrieval.Block(retrieval.Outcome{Chunks: []string{"CHUNK"}, ChunksUsed: 1, AverageScore: 0.9}),
		"META INFO: META",
		policy.Instruction(),
		"FEEDBACK",
	}, "\n\n")

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compose() mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeWithoutContextWarns(t *testing.T) {
	p := newPersona(t)

	got := Compose(Input{
		Mood:         p.Mood("pro"),
		Persona:      p,
		LengthPolicy: response.DefaultLengthPolicy(),
	})

	want := strings.Join([]string{
		"MOOD",
		"IDENTITY",
		noContextWarning,
		response.DefaultLengthPolicy().Instruction(),
	}, "\n\n")

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compose() mismatch (-want +got):\n%s", diff)
	}
}

func TestHistorySummaryIsBounded(t *testing.T) {
	var history []store.Message
	for i := 0; i < 10; i++ {
		history = append(history, store.Message{Role: store.RoleUser, Content: string(rune('a' + i))})
	}
	history[9].Content = strings.Repeat("ñ", 250)

	got := writeHistory(history)
	lines := strings.Split(strings.TrimSpace(got), "\n")

	require.Len(t, lines, 1+historyMaxMessages)
	assert.Equal(t, "Visitor: e", lines[1])
	assert.Equal(t, "Visitor: "+strings.Repeat("ñ", 200)+"...", lines[6])
}
