package analytics

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Record describes one completed chat exchange.
type Record struct {
	SessionID       string        `json:"session_id"`
	UserQuery       string        `json:"user_query"`
	AIResponse      string        `json:"ai_response"`
	Mood            string        `json:"mood"`
	ChunksUsed      int           `json:"chunks_used"`
	TopScore        float64       `json:"top_score"`
	AverageScore    float64       `json:"average_score"`
	Categories      []string      `json:"categories"`
	UsedFAQ         bool          `json:"used_faq"`
	HadFeedback     bool          `json:"had_feedback"`
	FeedbackType    string        `json:"feedback_type,omitempty"`
	Truncated       bool          `json:"truncated"`
	ComplianceScore int           `json:"compliance_score"`
	ResponseTime    time.Duration `json:"response_time"`
	CompletedAt     time.Time     `json:"completed_at"`
}

// Sink accepts records without blocking the caller. Implementations must
// never surface persistence failures to the chat path.
type Sink interface {
	Record(ctx context.Context, rec Record)
}

// NopSink drops every record.
type NopSink struct{}

func (NopSink) Record(context.Context, Record) {}

var questionCategories = []struct {
	category string
	pattern  *regexp.Regexp
}{
	{"projects", regexp.MustCompile(`project|app|built|portfolio|github`)},
	{"skills", regexp.MustCompile(`skill|technology|tech stack|framework|language`)},
	{"experience", regexp.MustCompile(`experience|work|job|internship|competition`)},
	{"education", regexp.MustCompile(`education|university|degree|student`)},
	{"compensation", regexp.MustCompile(`salary|compensation|remote|location`)},
}

// Categorize buckets a question for the frequent-questions table.
func Categorize(question string) string {
	lower := strings.ToLower(question)
	for _, c := range questionCategories {
		if c.pattern.MatchString(lower) {
			return c.category
		}
	}
	return "general"
}
