package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/config"
)

// NewModel builds the model client selected by cfg.AIProvider.
func NewModel(ctx context.Context, cfg config.Config) (Model, error) {
	switch cfg.AIProvider {
	case config.ProviderGemini:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:          cfg.GeminiAPIKey,
			Model:           cfg.GeminiModel,
			Endpoint:        cfg.GeminiEndpoint,
			MaxOutputTokens: cfg.AIMaxOutputTokens,
		})
	case config.ProviderOpenAI:
		return NewOpenAIResponsesClient(OpenAIConfig{
			APIKey:          cfg.OpenAIAPIKey,
			BaseURL:         cfg.OpenAIBaseURL,
			Model:           cfg.OpenAIModel,
			MaxOutputTokens: cfg.AIMaxOutputTokens,
			Timeout:         time.Duration(cfg.AITimeoutSeconds) * time.Second,
		}), nil
	case config.ProviderMock:
		return MockClient{}, nil
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.AIProvider)
	}
}
