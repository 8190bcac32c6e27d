package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChatAnalytics is one completed exchange, written after the reply was sent.
type ChatAnalytics struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId       string         `gorm:"type:text;index"`
	UserQuery       string         `gorm:"type:text;not null"`
	AiResponse      string         `gorm:"type:text"`
	Mood            string         `gorm:"type:text;default:'professional';index"`
	ChunksUsed      int            `gorm:"default:0"`
	TopScore        float64        `gorm:"default:0"`
	AverageScore    float64        `gorm:"default:0"`
	Categories      datatypes.JSON `gorm:"type:jsonb"` // ["skills","projects"]
	UsedFAQ         bool           `gorm:"default:false"`
	HadFeedback     bool           `gorm:"default:false"`
	FeedbackType    *string        `gorm:"type:text"`
	Truncated       bool           `gorm:"default:false"`
	ComplianceScore int            `gorm:"default:100"`
	ResponseTimeMs  int64
	Timestamp       time.Time `gorm:"autoCreateTime;index"`
}

func (ChatAnalytics) TableName() string {
	return "chat_analytics"
}

// FrequentQuestion counts how often an exact question was asked.
type FrequentQuestion struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Question  string    `gorm:"type:text;not null;uniqueIndex"`
	Category  string    `gorm:"type:text;default:'general'"`
	Count     int       `gorm:"default:1"`
	LastAsked time.Time
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (FrequentQuestion) TableName() string {
	return "frequent_questions"
}

// MoodCount is one row of the mood distribution aggregate.
type MoodCount struct {
	Mood  string `json:"mood"`
	Count int64  `json:"count"`
}
