package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiClientGenerateText(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotRequest map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotRequest)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":" Aisyah ada di rumah. "}]}}]}`))
	}))
	defer server.Close()

	client, err := NewGeminiClient(context.Background(), GeminiConfig{
		APIKey:          "test-key",
		Model:           "gemini-1.5-flash",
		Endpoint:        server.URL + "/",
		MaxOutputTokens: 256,
	})
	if err != nil {
		t.Fatalf("client init failed: %v", err)
	}

	answer, err := client.GenerateText(context.Background(), "dimana Aisyah?")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if answer != "Aisyah ada di rumah." {
		t.Fatalf("unexpected answer %q", answer)
	}
	if !strings.Contains(gotPath, "models/gemini-1.5-flash:generateContent") {
		t.Fatalf("unexpected request path %q", gotPath)
	}
	raw, _ := json.Marshal(gotRequest["contents"])
	if !strings.Contains(string(raw), "dimana Aisyah?") {
		t.Fatalf("expected prompt in request, got %s", raw)
	}
}

func TestGeminiClientEmptyCandidates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client, err := NewGeminiClient(context.Background(), GeminiConfig{APIKey: "k", Model: "models/gemini-1.5-flash", Endpoint: server.URL + "/"})
	if err != nil {
		t.Fatalf("client init failed: %v", err)
	}
	if _, err := client.GenerateFromMedia(context.Background(), "analisis", "image/jpeg", "QUJD"); err == nil {
		t.Fatalf("expected empty answer error")
	}
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := NewGeminiClient(context.Background(), GeminiConfig{Model: "gemini-1.5-flash"}); err == nil {
		t.Fatalf("expected missing key error")
	}
}
