package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeModel struct {
	text       string
	err        error
	block      bool
	panicWith  any
	lastPrompt string
	lastMime   string
}

func (f *fakeModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

func (f *fakeModel) GenerateFromMedia(ctx context.Context, _, mimeType, _ string) (string, error) {
	f.lastMime = mimeType
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

func TestBridgeAskTrimsAnswer(t *testing.T) {
	t.Parallel()

	model := &fakeModel{text: "  Anak Anda aman di rumah.\n"}
	got := NewBridge(model, time.Second).Ask(context.Background(), "=== Aisyah ===", "apa kabar?")
	if got != "Anak Anda aman di rumah." {
		t.Fatalf("unexpected answer %q", got)
	}
	if !strings.Contains(model.lastPrompt, "KONTEKS:\n=== Aisyah ===") {
		t.Fatalf("expected context section in prompt, got %q", model.lastPrompt)
	}
	if !strings.Contains(model.lastPrompt, "PERTANYAAN:\napa kabar?") {
		t.Fatalf("expected question section in prompt, got %q", model.lastPrompt)
	}
}

func TestBridgeAskFallsBack(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		model Model
	}{
		{name: "error", model: &fakeModel{err: errors.New("quota exceeded")}},
		{name: "empty", model: &fakeModel{text: "   "}},
		{name: "panic", model: &fakeModel{panicWith: "boom"}},
		{name: "nil model", model: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewBridge(tc.model, time.Second).Ask(context.Background(), "ctx", "q")
			if got != FallbackAnswer {
				t.Fatalf("expected fallback, got %q", got)
			}
		})
	}
	if strings.TrimSpace(FallbackAnswer) == "" {
		t.Fatalf("fallback must not be empty")
	}
}

func TestBridgeAskHonorsTimeout(t *testing.T) {
	t.Parallel()

	start := time.Now()
	got := NewBridge(&fakeModel{block: true}, 50*time.Millisecond).Ask(context.Background(), "ctx", "q")
	if got != FallbackAnswer {
		t.Fatalf("expected fallback on timeout, got %q", got)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("timeout not enforced, took %s", elapsed)
	}
}

func TestBridgeAnalyzeInlineMedia(t *testing.T) {
	t.Parallel()

	model := &fakeModel{text: " Foto ruang kelas, aman. "}
	got, ok := NewBridge(model, time.Second).AnalyzeInlineMedia(context.Background(), "image/jpeg", "AAAA", "analisis")
	if !ok || got != "Foto ruang kelas, aman." {
		t.Fatalf("unexpected result %q ok=%v", got, ok)
	}
	if model.lastMime != "image/jpeg" {
		t.Fatalf("expected mime forwarded, got %q", model.lastMime)
	}

	if _, ok := NewBridge(&fakeModel{err: errors.New("bad")}, time.Second).AnalyzeInlineMedia(context.Background(), "image/jpeg", "AAAA", "x"); ok {
		t.Fatalf("expected failure to report not ok")
	}
	if _, ok := NewBridge(&fakeModel{text: ""}, time.Second).AnalyzeInlineMedia(context.Background(), "image/jpeg", "AAAA", "x"); ok {
		t.Fatalf("expected empty analysis to report not ok")
	}
}

func TestMockClientEchoesQuestion(t *testing.T) {
	t.Parallel()

	got, err := MockClient{}.GenerateText(context.Background(), BuildPrompt("ctx", "siapa yang menelepon?"))
	if err != nil {
		t.Fatalf("mock failed: %v", err)
	}
	if got != "Mock response: siapa yang menelepon?" {
		t.Fatalf("unexpected mock answer %q", got)
	}
}
