package upstash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-twin-be/pkg/vector"
)

// Client talks to an Upstash Vector index through its REST API. The index
// embeds text server-side, so only raw text is sent.
type Client struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

var _ vector.Store = &Client{}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type queryRequest struct {
	Data            string `json:"data"`
	TopK            int    `json:"topK"`
	IncludeMetadata bool   `json:"includeMetadata"`
}

type queryResult struct {
	ID       string                 `json:"id"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata"`
}

type upsertRecord struct {
	ID       string            `json:"id"`
	Data     string            `json:"data"`
	Metadata map[string]string `json:"metadata"`
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func (c *Client) Query(ctx context.Context, text string, topK int) ([]vector.Match, error) {
	var results []queryResult
	if err := c.do(ctx, "/query-data", queryRequest{Data: text, TopK: topK, IncludeMetadata: true}, &results); err != nil {
		return nil, err
	}

	matches := make([]vector.Match, 0, len(results))
	for _, r := range results {
		content := metaString(r.Metadata, "content")
		if content == "" {
			content = metaString(r.Metadata, "text")
		}
		matches = append(matches, vector.Match{
			ID:       r.ID,
			Score:    r.Score,
			Title:    metaString(r.Metadata, "title"),
			Content:  content,
			Category: metaString(r.Metadata, "category"),
		})
	}
	return matches, nil
}

func (c *Client) Upsert(ctx context.Context, docs []vector.Document) error {
	records := make([]upsertRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, upsertRecord{
			ID:   d.ID,
			Data: d.Content,
			Metadata: map[string]string{
				"title":    d.Title,
				"category": d.Category,
				"content":  d.Content,
			},
		})
	}
	return c.do(ctx, "/upsert-data", records, nil)
}

func (c *Client) do(ctx context.Context, path string, payload interface{}, out interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payloadBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("upstash request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstash error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var env envelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if env.Error != "" {
		return fmt.Errorf("upstash error: %s", env.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	return nil
}

func metaString(meta map[string]interface{}, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}
