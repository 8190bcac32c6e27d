package dto

import "time"

type RecentChatDTO struct {
	SessionId       string    `json:"session_id"`
	UserQuery       string    `json:"user_query"`
	Mood            string    `json:"mood"`
	ChunksUsed      int       `json:"chunks_used"`
	TopScore        float64   `json:"top_score"`
	Categories      []string  `json:"categories"`
	UsedFAQ         bool      `json:"used_faq"`
	HadFeedback     bool      `json:"had_feedback"`
	ComplianceScore int       `json:"compliance_score"`
	ResponseTimeMs  int64     `json:"response_time_ms"`
	Timestamp       time.Time `json:"timestamp"`
}

type FrequentQuestionDTO struct {
	Question  string    `json:"question"`
	Category  string    `json:"category"`
	Count     int       `json:"count"`
	LastAsked time.Time `json:"last_asked"`
}

type MoodCountDTO struct {
	Mood  string `json:"mood"`
	Count int64  `json:"count"`
}

type AnalyticsResponse struct {
	TotalChats        int64                 `json:"total_chats"`
	RecentChats       []RecentChatDTO       `json:"recent_chats"`
	FrequentQuestions []FrequentQuestionDTO `json:"frequent_questions"`
	MoodDistribution  []MoodCountDTO        `json:"mood_distribution"`
}

type AnalyticsQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=500"`
}
