package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"ai-twin-be/internal/dto"
	"ai-twin-be/internal/model"
	"ai-twin-be/internal/pkg/logger"
	"ai-twin-be/internal/repository/specification"
	"ai-twin-be/internal/repository/unitofwork"
	"ai-twin-be/pkg/analytics"
	"ai-twin-be/pkg/apperror"
	"ai-twin-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

const (
	analyticsTopic         = "analytics.chat_completed"
	defaultAnalyticsLimit  = 100
	frequentQuestionsLimit = 20
	persistTimeout         = 10 * time.Second
)

// EventPublisher fans completed chats out to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IAnalyticsService interface {
	analytics.Sink
	Summary(ctx context.Context, limit int) (*dto.AnalyticsResponse, error)
	Start(ctx context.Context) error
	Close() error
}

// analyticsService decouples the chat path from the database: Record only
// enqueues onto an in-process channel, a single consumer persists.
type analyticsService struct {
	pubSub     *gochannel.GoChannel
	uowFactory unitofwork.RepositoryFactory
	publisher  EventPublisher
	logger     logger.ILogger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewAnalyticsService(uowFactory unitofwork.RepositoryFactory, publisher EventPublisher, log logger.ILogger) IAnalyticsService {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		logger.NewWatermillAdapter(log, "ANALYTICS_BUS"),
	)
	return &analyticsService{
		pubSub:     pubSub,
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *analyticsService) Record(ctx context.Context, rec analytics.Record) {
	payload, err := json.Marshal(rec)
	if err != nil {
		s.logger.Error("ANALYTICS", "Failed to encode analytics record", map[string]interface{}{
			"error": err.Error(),
			"kind":  apperror.KindAnalyticsFailure,
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(analyticsTopic, msg); err != nil {
		s.logger.Error("ANALYTICS", "Failed to enqueue analytics record", map[string]interface{}{
			"error":      err.Error(),
			"kind":       apperror.KindAnalyticsFailure,
			"session_id": rec.SessionID,
		})
	}
}

// Start subscribes the consumer. It must be called before Record for records
// to be persisted.
func (s *analyticsService) Start(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, analyticsTopic)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	return nil
}

// Close stops accepting records and waits for the consumer to exit.
func (s *analyticsService) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.pubSub.Close()
		s.wg.Wait()
	})
	return err
}

func (s *analyticsService) processMessage(msg *message.Message) {
	// Invalid or unpersistable records are acked; analytics is never retried.
	defer msg.Ack()

	var rec analytics.Record
	if err := json.Unmarshal(msg.Payload, &rec); err != nil {
		s.logger.Error("ANALYTICS", "Failed to decode analytics record", map[string]interface{}{
			"error": err.Error(),
			"kind":  apperror.KindAnalyticsFailure,
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.persist(ctx, rec); err != nil {
		s.logger.Error("ANALYTICS", "Failed to persist analytics record", map[string]interface{}{
			"error":      err.Error(),
			"kind":       apperror.KindAnalyticsFailure,
			"session_id": rec.SessionID,
		})
		return
	}

	s.logger.Info("ANALYTICS", "Logged interaction", map[string]interface{}{
		"session_id":  rec.SessionID,
		"mood":        rec.Mood,
		"chunks_used": rec.ChunksUsed,
	})

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, chatCompletedEvent(rec)); err != nil {
			s.logger.Warn("ANALYTICS", "Failed to publish CHAT_COMPLETED", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

func (s *analyticsService) persist(ctx context.Context, rec analytics.Record) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer uow.Rollback()

	row, err := toModel(rec)
	if err != nil {
		return err
	}
	if err := uow.AnalyticsRepository().Create(ctx, row); err != nil {
		return fmt.Errorf("create analytics row: %w", err)
	}
	if err := uow.FrequentQuestionRepository().Track(ctx, rec.UserQuery, analytics.Categorize(rec.UserQuery)); err != nil {
		return fmt.Errorf("track frequent question: %w", err)
	}
	return uow.Commit()
}

func (s *analyticsService) Summary(ctx context.Context, limit int) (*dto.AnalyticsResponse, error) {
	if limit <= 0 {
		limit = defaultAnalyticsLimit
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var (
		total     int64
		recent    []*model.ChatAnalytics
		frequent  []*model.FrequentQuestion
		moodCount []model.MoodCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = uow.AnalyticsRepository().Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = uow.AnalyticsRepository().FindAll(gctx, specification.Recent(limit)...)
		return err
	})
	g.Go(func() (err error) {
		frequent, err = uow.FrequentQuestionRepository().FindAll(gctx, specification.MostAsked(frequentQuestionsLimit)...)
		return err
	})
	g.Go(func() (err error) {
		moodCount, err = uow.AnalyticsRepository().MoodDistribution(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.Wrap(apperror.KindAnalyticsFailure, "failed to fetch analytics", err)
	}

	resp := &dto.AnalyticsResponse{
		TotalChats:        total,
		RecentChats:       make([]dto.RecentChatDTO, 0, len(recent)),
		FrequentQuestions: make([]dto.FrequentQuestionDTO, 0, len(frequent)),
		MoodDistribution:  make([]dto.MoodCountDTO, 0, len(moodCount)),
	}
	for _, r := range recent {
		var cats []string
		if len(r.Categories) > 0 {
			if err := json.Unmarshal(r.Categories, &cats); err != nil {
				s.logger.Warn("ANALYTICS", "Failed to decode stored categories", map[string]interface{}{
					"error": err.Error(),
					"kind":  apperror.KindAnalyticsFailure,
					"id":    r.Id.String(),
				})
				cats = nil
			}
		}
		resp.RecentChats = append(resp.RecentChats, dto.RecentChatDTO{
			SessionId:       r.SessionId,
			UserQuery:       r.UserQuery,
			Mood:            r.Mood,
			ChunksUsed:      r.ChunksUsed,
			TopScore:        r.TopScore,
			Categories:      cats,
			UsedFAQ:         r.UsedFAQ,
			HadFeedback:     r.HadFeedback,
			ComplianceScore: r.ComplianceScore,
			ResponseTimeMs:  r.ResponseTimeMs,
			Timestamp:       r.Timestamp,
		})
	}
	for _, f := range frequent {
		resp.FrequentQuestions = append(resp.FrequentQuestions, dto.FrequentQuestionDTO{
			Question:  f.Question,
			Category:  f.Category,
			Count:     f.Count,
			LastAsked: f.LastAsked,
		})
	}
	for _, m := range moodCount {
		resp.MoodDistribution = append(resp.MoodDistribution, dto.MoodCountDTO{Mood: m.Mood, Count: m.Count})
	}
	return resp, nil
}

func toModel(rec analytics.Record) (*model.ChatAnalytics, error) {
	cats := rec.Categories
	if cats == nil {
		cats = []string{}
	}
	catJSON, err := json.Marshal(cats)
	if err != nil {
		return nil, fmt.Errorf("encode categories: %w", err)
	}

	row := &model.ChatAnalytics{
		Id:              uuid.New(),
		SessionId:       rec.SessionID,
		UserQuery:       rec.UserQuery,
		AiResponse:      rec.AIResponse,
		Mood:            rec.Mood,
		ChunksUsed:      rec.ChunksUsed,
		TopScore:        rec.TopScore,
		AverageScore:    rec.AverageScore,
		Categories:      datatypes.JSON(catJSON),
		UsedFAQ:         rec.UsedFAQ,
		HadFeedback:     rec.HadFeedback,
		Truncated:       rec.Truncated,
		ComplianceScore: rec.ComplianceScore,
		ResponseTimeMs:  rec.ResponseTime.Milliseconds(),
		Timestamp:       rec.CompletedAt,
	}
	if row.Mood == "" {
		row.Mood = "professional"
	}
	if rec.FeedbackType != "" {
		ft := rec.FeedbackType
		row.FeedbackType = &ft
	}
	return row, nil
}

func chatCompletedEvent(rec analytics.Record) events.Event {
	return events.NewChatCompleted(events.ChatCompletedPayload{
		SessionID:     rec.SessionID,
		Mood:          rec.Mood,
		QuestionTopic: analytics.Categorize(rec.UserQuery),
		ChunksUsed:    rec.ChunksUsed,
		TopScore:      rec.TopScore,
		Categories:    rec.Categories,
		UsedFAQ:       rec.UsedFAQ,
		Truncated:     rec.Truncated,
		ResponseMs:    rec.ResponseTime.Milliseconds(),
	}, rec.CompletedAt)
}
