package serverutils

import (
	"time"

	"ai-twin-be/pkg/apperror"
)

type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) BaseResponse[any] {
	return BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// ChatErrorBody is the error envelope of the chat endpoint. Timestamp is set
// only for upstream and internal failures.
type ChatErrorBody struct {
	Error     apperror.Kind `json:"error"`
	Message   string        `json:"message"`
	Timestamp string        `json:"timestamp,omitempty"`
}

func NewChatError(kind apperror.Kind, message string) ChatErrorBody {
	return ChatErrorBody{Error: kind, Message: message}
}

func NewTimedChatError(kind apperror.Kind, message string, at time.Time) ChatErrorBody {
	return ChatErrorBody{Error: kind, Message: message, Timestamp: at.UTC().Format(time.RFC3339)}
}
