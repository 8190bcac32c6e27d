package service

import (
	"context"
	"strings"
	"time"

	"ai-twin-be/internal/dto"
	"ai-twin-be/internal/pkg/logger"
	"ai-twin-be/pkg/apperror"
	"ai-twin-be/pkg/persona"
	"ai-twin-be/pkg/rag/orchestrator"
	"ai-twin-be/pkg/store"
)

type IChatbotService interface {
	// PrepareChat runs the pipeline up to generation. A non-OK StageResult
	// means the turn ended early and the returned Turn is nil.
	PrepareChat(ctx context.Context, request *dto.ChatRequest) (*orchestrator.Turn, orchestrator.StageResult, error)
	GetSession(ctx context.Context, sessionId string) (*dto.SessionResponse, error)
	ClearSession(ctx context.Context, sessionId string) error
	GetMoods(ctx context.Context) []*dto.MoodResponse
}

type chatbotService struct {
	orchestrator *orchestrator.Orchestrator
	sessions     store.SessionStore
	persona      *persona.Persona
	logger       logger.ILogger
}

func NewChatbotService(
	orch *orchestrator.Orchestrator,
	sessions store.SessionStore,
	p *persona.Persona,
	log logger.ILogger,
) IChatbotService {
	return &chatbotService{
		orchestrator: orch,
		sessions:     sessions,
		persona:      p,
		logger:       log,
	}
}

func (cs *chatbotService) PrepareChat(ctx context.Context, request *dto.ChatRequest) (*orchestrator.Turn, orchestrator.StageResult, error) {
	n := len(request.Messages)
	if n == 0 {
		return nil, orchestrator.StageResult{}, apperror.New(apperror.KindBadRequest, "messages must not be empty")
	}
	last := request.Messages[n-1]
	if last.Role != store.RoleUser {
		return nil, orchestrator.StageResult{}, apperror.New(apperror.KindBadRequest, "the last message must come from the user")
	}
	if strings.TrimSpace(last.Content) == "" {
		return nil, orchestrator.StageResult{}, apperror.New(apperror.KindBadRequest, "the last message must not be empty")
	}

	msgs := make([]store.Message, 0, n)
	for _, m := range request.Messages {
		msgs = append(msgs, store.Message{Role: m.Role, Content: m.Content})
	}

	turn, res := cs.orchestrator.Prepare(ctx, orchestrator.Request{
		Messages:  msgs,
		Mood:      strings.ToLower(strings.TrimSpace(request.Mood)),
		SessionID: strings.TrimSpace(request.SessionId),
	})
	return turn, res, nil
}

func (cs *chatbotService) GetSession(ctx context.Context, sessionId string) (*dto.SessionResponse, error) {
	if sessionId == "" {
		return nil, apperror.New(apperror.KindBadRequest, "session id is required")
	}
	s, err := cs.sessions.Load(ctx, sessionId)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load session", err)
	}

	res := &dto.SessionResponse{
		SessionId: s.ID,
		Mood:      s.Mood,
		Messages:  make([]dto.SessionMessage, 0, len(s.Messages)),
	}
	for _, m := range s.Messages {
		msg := dto.SessionMessage{Role: m.Role, Content: m.Content, Mood: m.Mood}
		if !m.Timestamp.IsZero() {
			msg.Timestamp = m.Timestamp.UTC().Format(time.RFC3339)
		}
		res.Messages = append(res.Messages, msg)
	}
	if !s.Feedback.IsEmpty() {
		res.Feedback = make(map[string]string, len(s.Feedback.Entries))
		for _, e := range s.Feedback.Entries {
			res.Feedback[e.Type] = e.Instruction
		}
	}
	return res, nil
}

func (cs *chatbotService) ClearSession(ctx context.Context, sessionId string) error {
	if err := cs.sessions.Clear(ctx, sessionId); err != nil {
		return apperror.Wrap(apperror.KindInternal, "Failed to clear chat history", err)
	}
	cs.logger.Info("CHATBOT", "Cleared session", map[string]interface{}{"session_id": sessionId})
	return nil
}

func (cs *chatbotService) GetMoods(ctx context.Context) []*dto.MoodResponse {
	moods := cs.persona.AllMoods()
	res := make([]*dto.MoodResponse, 0, len(moods))
	for _, m := range moods {
		res = append(res, &dto.MoodResponse{
			Id:          m.ID,
			Name:        m.Name,
			Icon:        m.Icon,
			Description: m.Description,
		})
	}
	return res
}
