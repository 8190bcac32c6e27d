package unitofwork

import (
	"context"

	"ai-twin-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AnalyticsRepository() contract.AnalyticsRepository
	FrequentQuestionRepository() contract.FrequentQuestionRepository
}
