package dto

type ChatMessageDTO struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages  []ChatMessageDTO `json:"messages" validate:"required,min=1,dive"`
	Mood      string           `json:"mood,omitempty" validate:"omitempty,max=32"`
	SessionId string           `json:"sessionId,omitempty" validate:"omitempty,max=128"`
}

type ClearSessionRequest struct {
	SessionId string `json:"sessionId" validate:"required,max=128"`
}

type MoodResponse struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type SessionResponse struct {
	SessionId string            `json:"session_id"`
	Mood      string            `json:"mood"`
	Messages  []SessionMessage  `json:"messages"`
	Feedback  map[string]string `json:"feedback,omitempty"`
}

type SessionMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Mood      string `json:"mood,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}
