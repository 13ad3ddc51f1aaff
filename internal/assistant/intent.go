// Package assistant answers a parent's question about their children, either
// directly from monitoring data or through the generative model.
package assistant

import (
	"regexp"
	"strings"
)

type Intent string

const (
	IntentNone          Intent = "none"
	IntentLocation      Intent = "location"
	IntentCallLog       Intent = "call_log"
	IntentMediaAnalysis Intent = "media_analysis"
)

type intentMatcher struct {
	intent  Intent
	pattern *regexp.Regexp
}

// Evaluated in order; the first match wins.
var intentMatchers = []intentMatcher{
	{
		intent:  IntentLocation,
		pattern: regexp.MustCompile(`lokasi|di\s*mana|where|location|posisi|keberadaan`),
	},
	{
		intent:  IntentCallLog,
		pattern: regexp.MustCompile(`panggilan|telepon|telpon|nelpon|\bcall|phone`),
	},
	{
		intent:  IntentMediaAnalysis,
		pattern: regexp.MustCompile(`(analisis|analisa|analyze|analyse|cek|periksa)\s+(media|foto|gambar|video|audio|lampiran)`),
	},
}

// Classify maps a free-text question to an intent. Questions that match
// nothing return IntentNone and go to the generative model.
func Classify(question string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(question))
	if normalized == "" {
		return IntentNone
	}
	for _, matcher := range intentMatchers {
		if matcher.pattern.MatchString(normalized) {
			return matcher.intent
		}
	}
	return IntentNone
}
