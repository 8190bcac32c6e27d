package contract

import (
	"context"

	"ai-twin-be/internal/model"
	"ai-twin-be/internal/repository/specification"
)

type AnalyticsRepository interface {
	Create(ctx context.Context, record *model.ChatAnalytics) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.ChatAnalytics, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	MoodDistribution(ctx context.Context) ([]model.MoodCount, error)
}

type FrequentQuestionRepository interface {
	// Track inserts the question or increments its counter.
	Track(ctx context.Context, question, category string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.FrequentQuestion, error)
}
