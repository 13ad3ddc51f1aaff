package ai

import (
	"context"
	"fmt"
	"strings"
)

// MockClient answers locally without network access. Used for local
// development and as the default when AI_PROVIDER=mock.
type MockClient struct{}

func (MockClient) GenerateText(_ context.Context, prompt string) (string, error) {
	question := prompt
	if idx := strings.LastIndex(prompt, "PERTANYAAN:"); idx >= 0 {
		question = prompt[idx+len("PERTANYAAN:"):]
	}
	question = strings.TrimSpace(question)
	if question == "" {
		question = "(tanpa pertanyaan)"
	}
	return "Mock response: " + question, nil
}

func (MockClient) GenerateFromMedia(_ context.Context, _ string, mimeType, base64Payload string) (string, error) {
	return fmt.Sprintf("Mock analysis: %s (%d bytes base64), tidak ditemukan konten berbahaya.", mimeType, len(base64Payload)), nil
}
