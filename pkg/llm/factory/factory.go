package factory

import (
	"fmt"

	"ai-twin-be/pkg/llm"
	"ai-twin-be/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.Streamer, error) {
	switch providerType {
	case "openai", "groq", "":
		return openai.NewProvider(baseURL, apiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
