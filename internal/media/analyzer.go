package media

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/rs/zerolog/log"
)

// ModerationInstruction is sent with every attachment.
const ModerationInstruction = "Analisis media berikut yang dikirim atau diterima oleh anak. " +
	"Jelaskan isinya secara singkat dalam bahasa Indonesia dan sebutkan apakah ada konten " +
	"yang tidak pantas, berbahaya, kekerasan, pornografi, perundungan, atau tanda bahaya lain " +
	"yang perlu diketahui orang tua."

var categoryMimeTypes = map[string]string{
	"image": "image/jpeg",
	"video": "video/mp4",
	"audio": "audio/mpeg",
}

// MediaBridge is the media-capable entry point of the generative model.
type MediaBridge interface {
	AnalyzeInlineMedia(ctx context.Context, mimeType, base64Payload, instructions string) (string, bool)
}

type Analyzer struct {
	gate    *Gate
	fetcher Fetcher
	bridge  MediaBridge
}

func NewAnalyzer(gate *Gate, fetcher Fetcher, bridge MediaBridge) *Analyzer {
	return &Analyzer{gate: gate, fetcher: fetcher, bridge: bridge}
}

// IsAnalyzableCategory reports whether category is image, video or audio.
func IsAnalyzableCategory(category string) bool {
	_, ok := MimeTypeFor(category)
	return ok
}

// MimeTypeFor maps a coarse category to a concrete MIME type. A full
// image/, video/ or audio/ MIME type passes through unchanged.
func MimeTypeFor(category string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(category))
	if mimeType, ok := categoryMimeTypes[normalized]; ok {
		return mimeType, true
	}
	if major, _, found := strings.Cut(normalized, "/"); found {
		if _, ok := categoryMimeTypes[major]; ok {
			return normalized, true
		}
	}
	return "", false
}

// AnalyzeSafe gates, fetches and analyzes one attachment. It never returns
// an error: a rejected URL, failed fetch or failed analysis yields ok=false.
func (a *Analyzer) AnalyzeSafe(ctx context.Context, rawURL, category string) (string, bool) {
	if a == nil {
		return "", false
	}
	if !a.gate.IsAllowedURL(rawURL) {
		log.Warn().Str("url", rawURL).Msg("Media URL rejected by allow-list")
		return "", false
	}
	mimeType, ok := MimeTypeFor(category)
	if !ok {
		log.Debug().Str("category", category).Msg("Skipping unsupported media category")
		return "", false
	}

	data, err := a.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		log.Error().Err(err).Str("url", rawURL).Msg("Failed to fetch media")
		return "", false
	}
	if len(data) == 0 {
		log.Warn().Str("url", rawURL).Msg("Fetched media is empty")
		return "", false
	}

	payload := base64.StdEncoding.EncodeToString(data)
	return a.bridge.AnalyzeInlineMedia(ctx, mimeType, payload, ModerationInstruction)
}
