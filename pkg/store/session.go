package store

import (
	"context"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversational turn. Messages are never edited after
// they are appended to a session.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Mood      string    `json:"mood,omitempty"`
}

// FeedbackEntry is one persisted style preference expressed by the visitor.
type FeedbackEntry struct {
	Type        string    `json:"type"` // tone | length | format | emoji | detail
	Instruction string    `json:"instruction"`
	AppliedAt   time.Time `json:"applied_at"`
}

// FeedbackPreferences holds at most one entry per feedback type.
type FeedbackPreferences struct {
	Entries []FeedbackEntry `json:"entries"`
}

func (p FeedbackPreferences) IsEmpty() bool {
	return len(p.Entries) == 0
}

// Get returns the entry of the given type, if any.
func (p FeedbackPreferences) Get(feedbackType string) (FeedbackEntry, bool) {
	for _, e := range p.Entries {
		if e.Type == feedbackType {
			return e, true
		}
	}
	return FeedbackEntry{}, false
}

// Clone returns a copy that does not share the entries slice.
func (p FeedbackPreferences) Clone() FeedbackPreferences {
	if p.Entries == nil {
		return FeedbackPreferences{}
	}
	entries := make([]FeedbackEntry, len(p.Entries))
	copy(entries, p.Entries)
	return FeedbackPreferences{Entries: entries}
}

// Session is the persisted conversation state for one visitor.
// It is loaded, mutated and saved back as a whole snapshot.
type Session struct {
	ID        string              `json:"id"`
	Messages  []Message           `json:"messages"`
	Mood      string              `json:"mood"`
	Feedback  FeedbackPreferences `json:"feedback"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func NewSession(id string) *Session {
	return &Session{ID: id, Messages: []Message{}}
}

// Clone deep-copies the session so callers never share slices.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	msgs := make([]Message, len(s.Messages))
	copy(msgs, s.Messages)
	return &Session{
		ID:        s.ID,
		Messages:  msgs,
		Mood:      s.Mood,
		Feedback:  s.Feedback.Clone(),
		UpdatedAt: s.UpdatedAt,
	}
}

// Append adds messages at the end of the conversation.
func (s *Session) Append(msgs ...Message) {
	s.Messages = append(s.Messages, msgs...)
}

// SessionStore persists session snapshots. Load of an unknown id returns an
// empty session rather than an error.
type SessionStore interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Clear(ctx context.Context, id string) error
}
