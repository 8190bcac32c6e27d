package implementation

import (
	"context"
	"time"

	"ai-twin-be/internal/model"
	"ai-twin-be/internal/repository/contract"
	"ai-twin-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnalyticsRepositoryImpl struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) contract.AnalyticsRepository {
	return &AnalyticsRepositoryImpl{db: db}
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AnalyticsRepositoryImpl) Create(ctx context.Context, record *model.ChatAnalytics) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *AnalyticsRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.ChatAnalytics, error) {
	var records []*model.ChatAnalytics
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *AnalyticsRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ChatAnalytics{}).Count(&count).Error
	return count, err
}

func (r *AnalyticsRepositoryImpl) MoodDistribution(ctx context.Context) ([]model.MoodCount, error) {
	var rows []model.MoodCount
	err := r.db.WithContext(ctx).
		Model(&model.ChatAnalytics{}).
		Select("mood, COUNT(*) AS count").
		Group("mood").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

type FrequentQuestionRepositoryImpl struct {
	db *gorm.DB
}

func NewFrequentQuestionRepository(db *gorm.DB) contract.FrequentQuestionRepository {
	return &FrequentQuestionRepositoryImpl{db: db}
}

func (r *FrequentQuestionRepositoryImpl) Track(ctx context.Context, question, category string) error {
	now := time.Now()
	row := &model.FrequentQuestion{
		Question:  question,
		Category:  category,
		Count:     1,
		LastAsked: now,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "question"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count":      gorm.Expr("frequent_questions.count + 1"),
				"last_asked": now,
			}),
		}).
		Create(row).Error
}

func (r *FrequentQuestionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.FrequentQuestion, error) {
	var rows []*model.FrequentQuestion
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
