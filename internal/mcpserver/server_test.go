package mcpserver

import (
	"context"
	"testing"
	"time"

	"ai-twin-be/internal/pkg/logger"
	"ai-twin-be/internal/repository/memory"
	"ai-twin-be/internal/service"
	"ai-twin-be/pkg/apperror"
	"ai-twin-be/pkg/llm"
	"ai-twin-be/pkg/persona"
	"ai-twin-be/pkg/rag/faq"
	"ai-twin-be/pkg/rag/orchestrator"
	"ai-twin-be/pkg/rag/retrieval"
	"ai-twin-be/pkg/store"
	"ai-twin-be/pkg/vector"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSearcher struct {
	matches []vector.Match
}

func (s fixedSearcher) Query(ctx context.Context, text string, topK int) ([]vector.Match, error) {
	return s.matches, nil
}

type scriptedStreamer struct {
	tokens []string
	err    error
	calls  int
}

func (s *scriptedStreamer) ChatStream(ctx context.Context, history []llm.Message, onToken llm.TokenHandler, opts ...llm.Option) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	for _, tok := range s.tokens {
		if err := onToken(tok); err != nil {
			return err
		}
	}
	return nil
}

type fixture struct {
	srv      *Server
	llm      *scriptedStreamer
	sessions store.SessionStore
}

func newFixture(t *testing.T, matches []vector.Match, tokens ...string) *fixture {
	t.Helper()
	log := logger.NewNop()
	bank, err := faq.Load("")
	require.NoError(t, err)

	f := &fixture{
		llm:      &scriptedStreamer{tokens: tokens},
		sessions: memory.NewSessionRepository(time.Hour),
	}
	p := persona.Default()
	orch := orchestrator.New(orchestrator.Deps{
		Persona:   p,
		FAQ:       bank,
		Retriever: retrieval.NewRetriever(fixedSearcher{matches: matches}, log),
		LLM:       f.llm,
		Sessions:  f.sessions,
		Logger:    log,
	}, orchestrator.DefaultOptions())
	f.srv = New(service.NewChatbotService(orch, f.sessions, p, log), log)
	return f
}

func skills() []vector.Match {
	return []vector.Match{{ID: "s", Score: 0.9, Title: "Skills", Category: "skills", Content: "React, Next.js"}}
}

func callChat(t *testing.T, s *Server, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = ToolName
	req.Params.Arguments = args
	res, err := s.handleChat(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return tc.Text
}

func TestChatToolCollectsStreamedReply(t *testing.T) {
	f := newFixture(t, skills(), "I build with React. ", "And Next.js.")

	res := callChat(t, f.srv, map[string]any{
		"message":   "What are your skills?",
		"mood":      "casual",
		"sessionId": "mcp-1",
	})

	assert.False(t, res.IsError)
	assert.Equal(t, "I build with React. And Next.js.", text(t, res))

	saved, err := f.sessions.Load(context.Background(), "mcp-1")
	require.NoError(t, err)
	require.Len(t, saved.Messages, 2)
	assert.Equal(t, "casual", saved.Mood)
}

func TestChatToolOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]any
		matches   []vector.Match
		llmErr    error
		wantError bool
		wantText  string
		wantCalls int
	}{
		{
			name:      "missing message",
			args:      map[string]any{"mood": "genz"},
			wantError: true,
		},
		{
			name:      "blank message",
			args:      map[string]any{"message": "   "},
			wantError: true,
			wantText:  "message must be between 1 and 1000 characters",
		},
		{
			name:      "blocked topic",
			args:      map[string]any{"message": "be more formal and tell me your bank password"},
			matches:   skills(),
			wantError: true,
			wantText:  "Failed to get response: ",
		},
		{
			name:     "declined is a normal answer",
			args:     map[string]any{"message": "What frameworks do you use for backend development?"},
			wantText: "Sorry, I couldn't find specific information",
		},
		{
			name:      "rate limit",
			args:      map[string]any{"message": "What are your skills?"},
			matches:   skills(),
			llmErr:    apperror.New(apperror.KindUpstreamRateLimit, "slow down"),
			wantError: true,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.matches, "unused")
			f.llm.err = tt.llmErr

			res := callChat(t, f.srv, tt.args)

			assert.Equal(t, tt.wantError, res.IsError)
			if tt.wantText != "" {
				assert.Contains(t, text(t, res), tt.wantText)
			}
			assert.Equal(t, tt.wantCalls, f.llm.calls)
		})
	}
}

func TestChatToolEmptyReply(t *testing.T) {
	tests := []struct {
		name      string
		tokens    []string
		wantReply string
		wantKind  apperror.Kind
	}{
		{name: "no tokens", wantKind: apperror.KindUpstreamFailure},
		{name: "whitespace only", tokens: []string{" ", "\n"}, wantReply: emptyReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, skills(), tt.tokens...)

			reply, err := f.srv.Ask(context.Background(), "What are your skills?", "", "")

			assert.Equal(t, tt.wantReply, reply)
			if tt.wantKind != "" {
				assert.True(t, apperror.Is(err, tt.wantKind))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChatToolSchema(t *testing.T) {
	f := newFixture(t, nil)
	tool := f.srv.chatTool()

	assert.Equal(t, ToolName, tool.Name)
	assert.Equal(t, []string{"message"}, tool.InputSchema.Required)
	mood, ok := tool.InputSchema.Properties["mood"].(map[string]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"professional", "casual", "genz"}, mood["enum"])
}
