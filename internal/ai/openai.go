package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrUnsupportedMedia = errors.New("media type is not supported by this model")

type OpenAIConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxOutputTokens int
	Timeout         time.Duration
}

// OpenAIResponsesClient talks to the OpenAI Responses API.
type OpenAIResponsesClient struct {
	apiKey          string
	baseURL         string
	model           string
	maxOutputTokens int
	httpClient      *http.Client
}

type responsesContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type responsesInput struct {
	Role    string             `json:"role"`
	Content []responsesContent `json:"content"`
}

func NewOpenAIResponsesClient(cfg OpenAIConfig) *OpenAIResponsesClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OpenAIResponsesClient{
		apiKey:          strings.TrimSpace(cfg.APIKey),
		baseURL:         strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		model:           strings.TrimSpace(cfg.Model),
		maxOutputTokens: cfg.MaxOutputTokens,
		httpClient:      &http.Client{Timeout: timeout},
	}
}

func (c *OpenAIResponsesClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.query(ctx, []responsesContent{{Type: "input_text", Text: strings.TrimSpace(prompt)}})
}

// GenerateFromMedia supports images only; the Responses API has no inline
// audio or video input.
func (c *OpenAIResponsesClient) GenerateFromMedia(ctx context.Context, instructions, mimeType, base64Payload string) (string, error) {
	if !strings.HasPrefix(strings.ToLower(mimeType), "image/") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, mimeType)
	}
	return c.query(ctx, []responsesContent{
		{Type: "input_text", Text: strings.TrimSpace(instructions)},
		{Type: "input_image", ImageURL: "data:" + mimeType + ";base64," + base64Payload},
	})
}

func (c *OpenAIResponsesClient) query(ctx context.Context, content []responsesContent) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("OPENAI_API_KEY is not configured")
	}
	if c.baseURL == "" {
		return "", errors.New("OPENAI_BASE_URL is not configured")
	}
	if c.model == "" {
		return "", errors.New("OPENAI_MODEL is not configured")
	}

	payload := map[string]any{
		"model": c.model,
		"input": []responsesInput{{Role: "user", Content: content}},
		"reasoning": map[string]any{
			"effort": "low",
		},
		"text": map[string]any{
			"verbosity": "low",
		},
	}
	if c.maxOutputTokens > 0 {
		payload["max_output_tokens"] = c.maxOutputTokens
	}
	bodyRaw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(bodyRaw))
	if err != nil {
		return "", err
	}
	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", fmt.Errorf("openai responses error (%d): %s", response.StatusCode, truncateForLog(string(responseBody), 400))
	}

	parsed := parseJSONStringMap(responseBody)
	answer := extractResponseAnswer(parsed)
	if answer == "" {
		if isMaxOutputTokenIncomplete(parsed) {
			return "", errors.New("openai response incomplete due max_output_tokens")
		}
		log.Warn().Str("body", truncateForLog(string(responseBody), 1200)).Msg("OpenAI response had no extractable answer")
		return "", errors.New("openai response answer is empty")
	}
	return answer, nil
}

func extractResponseAnswer(data map[string]any) string {
	direct := strings.TrimSpace(toString(data["output_text"]))
	if direct != "" {
		return direct
	}

	outputs, ok := data["output"].([]any)
	if !ok {
		return ""
	}
	parts := make([]string, 0)
	for _, item := range outputs {
		block, ok := item.(map[string]any)
		if !ok {
			continue
		}
		contentList, ok := block["content"].([]any)
		if !ok {
			continue
		}
		for _, contentItem := range contentList {
			contentMap, ok := contentItem.(map[string]any)
			if !ok {
				continue
			}
			contentType := strings.ToLower(strings.TrimSpace(toString(contentMap["type"])))
			if contentType != "output_text" && contentType != "text" {
				continue
			}
			if text := strings.TrimSpace(toString(contentMap["text"])); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func isMaxOutputTokenIncomplete(parsed map[string]any) bool {
	details, ok := parsed["incomplete_details"].(map[string]any)
	if !ok {
		return false
	}
	reason := strings.ToLower(strings.TrimSpace(toString(details["reason"])))
	return reason == "max_output_tokens"
}

func parseJSONStringMap(input []byte) map[string]any {
	if len(input) == 0 {
		return map[string]any{}
	}
	var result map[string]any
	if err := json.Unmarshal(input, &result); err != nil || result == nil {
		return map[string]any{}
	}
	return result
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

func truncateForLog(value string, limit int) string {
	trimmed := strings.TrimSpace(value)
	if limit <= 0 || len(trimmed) <= limit {
		return trimmed
	}
	return trimmed[:limit] + "...(truncated)"
}
