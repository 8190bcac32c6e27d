package openai

import (
	"context"
	"errors"
	"io"
	"net/http"

	"ai-twin-be/pkg/apperror"
	"ai-twin-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "ai-twin-be/pkg/llm/openai"

// Provider talks to any OpenAI-compatible chat completion endpoint (Groq by default).
type Provider struct {
	client   *goopenai.Client
	defaults llm.Options
}

var _ llm.Streamer = &Provider{}

func NewProvider(baseURL, apiKey, model string) *Provider {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return NewProviderWithConfig(cfg, model)
}

func NewProviderWithConfig(cfg goopenai.ClientConfig, model string) *Provider {
	return &Provider{
		client: goopenai.NewClientWithConfig(cfg),
		defaults: llm.Options{
			Temperature: 0.7,
			MaxTokens:   300,
			Model:       model,
		},
	}
}

// ChatStream delivers content deltas to onToken in order. An error from onToken
// closes the stream and is returned unchanged.
func (p *Provider) ChatStream(ctx context.Context, history []llm.Message, onToken llm.TokenHandler, opts ...llm.Option) error {
	options := llm.ApplyOptions(p.defaults, opts...)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "llm.ChatStream")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", options.Model),
		attribute.Float64("llm.temperature", options.Temperature),
	)

	stream, err := p.client.CreateChatCompletionStream(ctx, p.request(history, options))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stream open failed")
		return classify(err)
	}
	defer stream.Close()

	tokens := 0
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			span.SetAttributes(attribute.Int("llm.stream_chunks", tokens))
			return nil
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "stream receive failed")
			return classify(err)
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
			continue
		}
		tokens++
		if err := onToken(resp.Choices[0].Delta.Content); err != nil {
			return err
		}
	}
}

func (p *Provider) request(history []llm.Message, options llm.Options) goopenai.ChatCompletionRequest {
	messages := make([]goopenai.ChatCompletionMessage, 0, len(history))
	for _, msg := range history {
		role := msg.Role
		if role == "model" {
			role = goopenai.ChatMessageRoleAssistant
		}
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	return goopenai.ChatCompletionRequest{
		Model:       options.Model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
		MaxTokens:   options.MaxTokens,
		Stream:      true,
	}
}

// classify maps client errors onto the application error kinds. HTTP 429 is
// the only status treated as a rate limit.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperror.Wrap(apperror.KindUpstreamFailure, "generation timed out or was cancelled", err)
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return apperror.Wrap(apperror.KindUpstreamRateLimit, "language model rate limit reached", err)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return apperror.Wrap(apperror.KindUpstreamRateLimit, "language model rate limit reached", err)
	}

	return apperror.Wrap(apperror.KindUpstreamFailure, "language model request failed", err)
}
