// Package ai bridges assembled monitoring context to a generative model.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// FallbackAnswer is returned whenever the model cannot produce an answer.
const FallbackAnswer = "Maaf, saya sedang tidak dapat menjawab pertanyaan Anda. Silakan coba lagi beberapa saat lagi."

const defaultTimeout = 20 * time.Second

// Model is a text and multimodal generative model.
type Model interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateFromMedia(ctx context.Context, instructions, mimeType, base64Payload string) (string, error)
}

// Bridge wraps a Model with a per-call timeout and failure swallowing.
type Bridge struct {
	model   Model
	timeout time.Duration
}

func NewBridge(model Model, timeout time.Duration) *Bridge {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Bridge{model: model, timeout: timeout}
}

// BuildPrompt embeds the aggregated context and the question under labeled headers.
func BuildPrompt(contextText, question string) string {
	return fmt.Sprintf(
		"Kamu adalah asisten AI KidWatch yang membantu orang tua memantau aktivitas anak.\n"+
			"Jawab dalam bahasa Indonesia dengan singkat dan jelas, hanya berdasarkan data di bawah. "+
			"Jika data tidak cukup, katakan dengan jujur.\n\n"+
			"KONTEKS:\n%s\n\nPERTANYAAN:\n%s",
		strings.TrimSpace(contextText),
		strings.TrimSpace(question),
	)
}

// Ask returns the trimmed model answer, or FallbackAnswer on any failure.
func (b *Bridge) Ask(ctx context.Context, contextText, question string) (answer string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Generative model panicked")
			answer = FallbackAnswer
		}
	}()
	if b == nil || b.model == nil {
		return FallbackAnswer
	}

	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	text, err := b.model.GenerateText(callCtx, BuildPrompt(contextText, question))
	if err != nil {
		log.Error().Err(err).Msg("Generative model request failed")
		return FallbackAnswer
	}
	text = strings.TrimSpace(text)
	if text == "" {
		log.Warn().Msg("Generative model returned an empty answer")
		return FallbackAnswer
	}
	return text
}

// AnalyzeInlineMedia returns the model's description of the payload. The
// boolean is false when the media could not be analyzed.
func (b *Bridge) AnalyzeInlineMedia(ctx context.Context, mimeType, base64Payload, instructions string) (result string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Media analysis panicked")
			result, ok = "", false
		}
	}()
	if b == nil || b.model == nil {
		return "", false
	}

	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	text, err := b.model.GenerateFromMedia(callCtx, instructions, mimeType, base64Payload)
	if err != nil {
		log.Error().Err(err).Str("mime_type", mimeType).Msg("Media analysis request failed")
		return "", false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return text, true
}
