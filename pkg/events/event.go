package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// ChatCompleted is published after a reply was streamed and persisted.
	ChatCompleted = "CHAT_COMPLETED"
)

// Event is the unit published on the event bus.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string { return e.Type }

func (e BaseEvent) Payload() map[string]interface{} { return e.Data }

func (e BaseEvent) Timestamp() time.Time { return e.OccurredAt }

// ChatCompletedPayload never carries the raw question, only its topic.
type ChatCompletedPayload struct {
	SessionID     string   `json:"session_id"`
	Mood          string   `json:"mood"`
	QuestionTopic string   `json:"question_topic"`
	ChunksUsed    int      `json:"chunks_used"`
	TopScore      float64  `json:"top_score"`
	Categories    []string `json:"categories"`
	UsedFAQ       bool     `json:"used_faq"`
	Truncated     bool     `json:"truncated"`
	ResponseMs    int64    `json:"response_ms"`
}

func NewChatCompleted(p ChatCompletedPayload, at time.Time) BaseEvent {
	return BaseEvent{
		Type: ChatCompleted,
		Data: map[string]interface{}{
			"session_id":     p.SessionID,
			"mood":           p.Mood,
			"question_topic": p.QuestionTopic,
			"chunks_used":    p.ChunksUsed,
			"top_score":      p.TopScore,
			"categories":     p.Categories,
			"used_faq":       p.UsedFAQ,
			"truncated":      p.Truncated,
			"response_ms":    p.ResponseMs,
		},
		OccurredAt: at,
	}
}

// DecodeChatCompleted reads the typed payload back out of a received event.
func DecodeChatCompleted(e Event) (ChatCompletedPayload, error) {
	var p ChatCompletedPayload
	if e.EventType() != ChatCompleted {
		return p, fmt.Errorf("unexpected event type %q", e.EventType())
	}
	raw, err := json.Marshal(e.Payload())
	if err != nil {
		return p, err
	}
	err = json.Unmarshal(raw, &p)
	return p, err
}
