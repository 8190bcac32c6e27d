package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCompletedDecode(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	want := ChatCompletedPayload{
		SessionID:     "s1",
		Mood:          "genz",
		QuestionTopic: "projects",
		ChunksUsed:    2,
		TopScore:      0.82,
		Categories:    []string{"projects"},
		UsedFAQ:       true,
		ResponseMs:    1200,
	}

	e := NewChatCompleted(want, at)
	assert.Equal(t, ChatCompleted, e.EventType())
	assert.Equal(t, at, e.Timestamp())
	assert.NotContains(t, e.Payload(), "user_query")

	got, err := DecodeChatCompleted(e)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeRejectsOtherTypes(t *testing.T) {
	_, err := DecodeChatCompleted(BaseEvent{Type: "SOMETHING_ELSE"})
	assert.Error(t, err)
}
