package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-twin-be/pkg/apperror"
	"ai-twin-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamServer(t *testing.T, deltas []string, captured *map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if captured != nil {
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, captured)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, d := range deltas {
			chunk, _ := json.Marshal(map[string]interface{}{
				"id":      "chatcmpl-1",
				"object":  "chat.completion.chunk",
				"created": 1,
				"model":   "test-model",
				"choices": []map[string]interface{}{
					{"index": 0, "delta": map[string]string{"content": d}},
				},
			})
			fmt.Fprintf(w, "data: %s\n\n", chunk)
			w.(http.Flusher).Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func TestChatStreamDeliversTokens(t *testing.T) {
	var req map[string]interface{}
	srv := streamServer(t, []string{"Hello", " there", "."}, &req)
	defer srv.Close()

	p := NewProvider(srv.URL, "test-key", "test-model")

	var got []string
	err := p.ChatStream(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "sys"},
		{Role: llm.RoleUser, Content: "hi"},
	}, func(tok string) error {
		got = append(got, tok)
		return nil
	}, llm.WithTemperature(0.9))

	require.NoError(t, err)
	assert.Equal(t, []string{"Hello", " there", "."}, got)
	assert.Equal(t, "test-model", req["model"])
	assert.Equal(t, true, req["stream"])
	assert.InDelta(t, 0.9, req["temperature"], 1e-6)
}

func TestChatStreamStopsOnHandlerError(t *testing.T) {
	srv := streamServer(t, []string{"a", "b", "c"}, nil)
	defer srv.Close()

	p := NewProvider(srv.URL, "test-key", "test-model")
	stop := errors.New("stop")

	calls := 0
	err := p.ChatStream(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}}, func(string) error {
		calls++
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestChatStreamClassifiesErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind apperror.Kind
	}{
		{
			name:     "rate limited",
			status:   http.StatusTooManyRequests,
			body:     `{"error":{"message":"slow down","type":"rate_limit","code":"rate_limit_exceeded"}}`,
			wantKind: apperror.KindUpstreamRateLimit,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `{"error":{"message":"boom","type":"server_error"}}`,
			wantKind: apperror.KindUpstreamFailure,
		},
		{
			name:     "unparseable rate limit body",
			status:   http.StatusTooManyRequests,
			body:     `too many`,
			wantKind: apperror.KindUpstreamRateLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			p := NewProvider(srv.URL, "test-key", "test-model")
			err := p.ChatStream(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}}, func(string) error { return nil })

			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperror.KindOf(err))
		})
	}
}
