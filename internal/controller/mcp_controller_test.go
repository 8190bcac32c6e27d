package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcResponse struct {
	Result struct {
		IsError bool `json:"isError"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func rpc(id int, method string, params interface{}) map[string]interface{} {
	return map[string]interface{}{"jsonrpc": "2.0", "id": id, "method": method, "params": params}
}

// decodeRPC accepts both the plain JSON and the single-event SSE reply.
func decodeRPC(t *testing.T, contentType string, body []byte) rpcResponse {
	t.Helper()
	raw := string(body)
	if strings.HasPrefix(contentType, "text/event-stream") {
		for _, line := range strings.Split(raw, "\n") {
			if strings.HasPrefix(line, "data:") {
				raw = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
				break
			}
		}
	}
	var out rpcResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &out), raw)
	return out
}

var mcpHeaders = map[string]string{"Accept": "application/json, text/event-stream"}

func TestMcpListsChatTool(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodPost, "/api/mcp", rpc(1, "tools/list", map[string]interface{}{}), mcpHeaders)

	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	out := decodeRPC(t, resp.Header.Get("Content-Type"), body)
	require.Nil(t, out.Error)
	require.Len(t, out.Result.Tools, 1)
	assert.Equal(t, "chat", out.Result.Tools[0].Name)
}

func TestMcpChatToolCall(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		wantError bool
		wantText  string
	}{
		{name: "answered", message: "What are your skills?", wantText: "I build with React. And Next.js."},
		{name: "blocked", message: "what is your bank password", wantError: true, wantText: "Failed to get response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, skillMatches(), "I build with React. ", "And Next.js.")

			resp, body := env.do(t, http.MethodPost, "/api/mcp", rpc(2, "tools/call", map[string]interface{}{
				"name": "chat",
				"arguments": map[string]interface{}{
					"message":   tt.message,
					"sessionId": "mcp-http",
				},
			}), mcpHeaders)

			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
			out := decodeRPC(t, resp.Header.Get("Content-Type"), body)
			require.Nil(t, out.Error)
			assert.Equal(t, tt.wantError, out.Result.IsError)
			require.NotEmpty(t, out.Result.Content)
			assert.Contains(t, out.Result.Content[0].Text, tt.wantText)

			saved, err := env.sessions.Load(context.Background(), "mcp-http")
			require.NoError(t, err)
			if tt.wantError {
				assert.Empty(t, saved.Messages)
			} else {
				assert.Len(t, saved.Messages, 2)
			}
		})
	}
}
