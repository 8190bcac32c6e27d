package mcpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"ai-twin-be/internal/dto"
	"ai-twin-be/internal/pkg/logger"
	"ai-twin-be/internal/service"
	"ai-twin-be/pkg/apperror"
	"ai-twin-be/pkg/rag/orchestrator"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	module = "MCP"

	ServerName    = "ai-twin"
	ServerVersion = "1.0.0"
	ToolName      = "chat"

	// ToolTimeout stays under the 60 s HTTP write timeout.
	ToolTimeout     = 55 * time.Second
	maxMessageRunes = 1000
	emptyReply      = "No response received from AI"
)

// Server exposes the chat pipeline as a single MCP tool.
type Server struct {
	mcp     *server.MCPServer
	chat    service.IChatbotService
	logger  logger.ILogger
	timeout time.Duration
}

func New(chat service.IChatbotService, log logger.ILogger) *Server {
	s := &Server{
		mcp:     server.NewMCPServer(ServerName, ServerVersion, server.WithToolCapabilities(false), server.WithRecovery()),
		chat:    chat,
		logger:  log,
		timeout: ToolTimeout,
	}
	s.mcp.AddTool(s.chatTool(), s.handleChat)
	return s
}

func (s *Server) chatTool() mcp.Tool {
	var moods []string
	for _, m := range s.chat.GetMoods(context.Background()) {
		moods = append(moods, m.Id)
	}

	moodOpts := []mcp.PropertyOption{mcp.Description("Conversation style. Defaults to professional.")}
	if len(moods) > 0 {
		moodOpts = append(moodOpts, mcp.Enum(moods...))
	}

	return mcp.NewTool(ToolName,
		mcp.WithDescription("Ask the portfolio digital twin about skills, projects, education and experience."),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The question to ask"),
			mcp.MinLength(1),
			mcp.MaxLength(maxMessageRunes),
		),
		mcp.WithString("mood", moodOpts...),
		mcp.WithString("sessionId",
			mcp.Description("Reuse to keep conversation history across calls"),
		),
	)
}

// handleChat reports pipeline failures as tool errors, never as protocol errors.
func (s *Server) handleChat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := req.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	message = strings.TrimSpace(message)
	if message == "" || utf8.RuneCountInString(message) > maxMessageRunes {
		return mcp.NewToolResultError("message must be between 1 and 1000 characters"), nil
	}

	mood := req.GetString("mood", "")
	sessionId := req.GetString("sessionId", "")

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.Ask(ctx, message, mood, sessionId)
	if err != nil {
		s.logger.Warn(module, "Chat tool failed", map[string]interface{}{
			"session_id": sessionId,
			"kind":       apperror.KindOf(err),
			"error":      err.Error(),
		})
		return mcp.NewToolResultError("Failed to get response: " + userMessage(err)), nil
	}

	s.logger.Info(module, "Chat tool answered", map[string]interface{}{
		"session_id": sessionId,
		"mood":       mood,
		"length":     len(reply),
	})
	return mcp.NewToolResultText(reply), nil
}

// Ask runs one turn and collects the streamed reply. A decline is a normal
// answer; a rejection is returned as an apperror carrying its message.
func (s *Server) Ask(ctx context.Context, message, mood, sessionId string) (string, error) {
	turn, res, err := s.chat.PrepareChat(ctx, &dto.ChatRequest{
		Messages:  []dto.ChatMessageDTO{{Role: "user", Content: message}},
		Mood:      mood,
		SessionId: sessionId,
	})
	if err != nil {
		return "", err
	}
	switch res.Status {
	case orchestrator.StatusRejected:
		return "", apperror.New(res.Kind, res.Message)
	case orchestrator.StatusDeclined:
		return res.Message, nil
	}

	var sb strings.Builder
	if _, err := turn.Run(ctx, func(tok string) error {
		sb.WriteString(tok)
		return nil
	}); err != nil {
		return "", err
	}
	if strings.TrimSpace(sb.String()) == "" {
		return emptyReply, nil
	}
	return sb.String(), nil
}

func userMessage(err error) string {
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "the digital twin is unavailable"
}

// HTTPHandler serves the streamable HTTP transport. Each request is
// independent; conversation continuity comes from the sessionId argument.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp, server.WithStateLess(true))
}

// ServeStdio speaks MCP over the given streams until ctx ends or in closes.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}
