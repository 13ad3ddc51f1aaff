package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	generativelanguage "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

// GeminiClient calls the Generative Language API generateContent method.
type GeminiClient struct {
	service         *generativelanguage.Service
	model           string
	maxOutputTokens int64
}

type GeminiConfig struct {
	APIKey          string
	Model           string
	Endpoint        string
	MaxOutputTokens int
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not configured")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("GEMINI_MODEL is not configured")
	}
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	service, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create generative language service: %w", err)
	}
	return &GeminiClient{
		service:         service,
		model:           model,
		maxOutputTokens: int64(cfg.MaxOutputTokens),
	}, nil
}

func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, []*generativelanguage.Part{{Text: prompt}})
}

func (c *GeminiClient) GenerateFromMedia(ctx context.Context, instructions, mimeType, base64Payload string) (string, error) {
	return c.generate(ctx, []*generativelanguage.Part{
		{Text: instructions},
		{InlineData: &generativelanguage.Blob{MimeType: mimeType, Data: base64Payload}},
	})
}

func (c *GeminiClient) generate(ctx context.Context, parts []*generativelanguage.Part) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{{Role: "user", Parts: parts}},
	}
	if c.maxOutputTokens > 0 {
		req.GenerationConfig = &generativelanguage.GenerationConfig{MaxOutputTokens: c.maxOutputTokens}
	}

	resp, err := c.service.Models.GenerateContent(c.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("gemini generateContent failed: %w", err)
	}
	answer := extractCandidateText(resp)
	if answer == "" {
		return "", errors.New("gemini response answer is empty")
	}
	return answer, nil
}

func extractCandidateText(resp *generativelanguage.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		texts := make([]string, 0, len(candidate.Content.Parts))
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if text := strings.TrimSpace(part.Text); text != "" {
				texts = append(texts, text)
			}
		}
		if len(texts) > 0 {
			return strings.Join(texts, "\n")
		}
	}
	return ""
}
