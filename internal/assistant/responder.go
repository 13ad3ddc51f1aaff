package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/media"
	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/store"
)

// MediaAnalyzer describes one attachment; ok is false when it was skipped
// or could not be analyzed.
type MediaAnalyzer interface {
	AnalyzeSafe(ctx context.Context, rawURL, category string) (string, bool)
}

func childNames(children []store.Child) map[string]string {
	names := make(map[string]string, len(children))
	for _, child := range children {
		names[child.ID] = strings.TrimSpace(child.Name)
	}
	return names
}

func nameFor(names map[string]string, childID string) string {
	if name := names[childID]; name != "" {
		return name
	}
	return unknownChildName
}

// answerLocation renders one block per sample, newest first, up to
// maxLocationBlocks.
func answerLocation(children []store.Child, samples []store.LocationSample) string {
	if len(samples) == 0 {
		return withSignature(LocationUnknownAnswer)
	}
	names := childNames(children)
	recent := newestSamples(samples, maxLocationBlocks)
	blocks := make([]string, 0, len(recent))
	for _, sample := range recent {
		blocks = append(blocks, strings.Join([]string{
			fmt.Sprintf("Lokasi %s:", nameFor(names, sample.ChildID)),
			fmt.Sprintf("- Koordinat: %s, %s", formatCoord(sample.Latitude), formatCoord(sample.Longitude)),
			fmt.Sprintf("- Peta: %s", mapsLink(sample.Latitude, sample.Longitude)),
			fmt.Sprintf("- Waktu: %s", formatWIB(sample.CapturedAt)),
		}, "\n"))
	}
	return withSignature(strings.Join(blocks, "\n\n"))
}

func answerCallLog(children []store.Child, calls []store.CallLogEntry) string {
	if len(calls) == 0 {
		return withSignature(NoRecentCallsAnswer)
	}
	names := childNames(children)
	recent := newestCalls(calls, maxCallLines)
	lines := make([]string, 0, len(recent))
	for _, call := range recent {
		lines = append(lines, formatCallLine(call, nameFor(names, call.ChildID)))
	}
	return withSignature(strings.Join(lines, "\n"))
}

func formatCallLine(call store.CallLogEntry, childName string) string {
	return fmt.Sprintf(
		"[%s] %s | %s | durasi %s | %s",
		formatWIB(call.Timestamp),
		valueOr(call.CallType, placeholder),
		valueOr(call.PhoneNumber, "nomor tidak diketahui"),
		formatDuration(call.DurationSeconds),
		childName,
	)
}

func newestCalls(calls []store.CallLogEntry, limit int) []store.CallLogEntry {
	sorted := append([]store.CallLogEntry(nil), calls...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func newestSamples(samples []store.LocationSample, limit int) []store.LocationSample {
	sorted := append([]store.LocationSample(nil), samples...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CapturedAt.After(sorted[j].CapturedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func newestMessages(messages []store.ChatMessage, childID string, limit int) []store.ChatMessage {
	result := make([]store.ChatMessage, 0, limit)
	for _, message := range messages {
		if message.ChildID == childID {
			result = append(result, message)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

type mediaCandidate struct {
	message  store.ChatMessage
	url      string
	category string
}

func mediaCandidates(messages []store.ChatMessage) []mediaCandidate {
	candidates := make([]mediaCandidate, 0, len(messages))
	for _, message := range messages {
		url := valueOr(message.FileURL, "")
		category := strings.ToLower(valueOr(message.FileType, ""))
		if url == "" || !media.IsAnalyzableCategory(category) {
			continue
		}
		candidates = append(candidates, mediaCandidate{message: message, url: url, category: category})
	}
	return candidates
}

// answerMedia analyzes each child's latest attachments. Analyses within one
// child's batch run concurrently and keep message order.
func answerMedia(ctx context.Context, analyzer MediaAnalyzer, children []store.Child, messages []store.ChatMessage) string {
	blocks := make([]string, 0, len(children))
	for _, child := range children {
		candidates := mediaCandidates(newestMessages(messages, child.ID, maxMediaPerKid))
		if len(candidates) == 0 || analyzer == nil {
			continue
		}

		results := make([]string, len(candidates))
		var wg sync.WaitGroup
		for i, candidate := range candidates {
			wg.Add(1)
			go func(i int, candidate mediaCandidate) {
				defer wg.Done()
				if text, ok := analyzer.AnalyzeSafe(ctx, candidate.url, candidate.category); ok {
					results[i] = text
				}
			}(i, candidate)
		}
		wg.Wait()

		lines := make([]string, 0, len(results)+1)
		for i, text := range results {
			if text == "" {
				continue
			}
			candidate := candidates[i]
			lines = append(lines, fmt.Sprintf(
				"- %s (%s, %s): %s",
				valueOr(candidate.message.FileName, "lampiran"),
				candidate.category,
				formatWIB(candidate.message.Timestamp),
				text,
			))
		}
		if len(lines) == 0 {
			continue
		}
		name := strings.TrimSpace(child.Name)
		if name == "" {
			name = unknownChildName
		}
		blocks = append(blocks, fmt.Sprintf("Analisis media %s:\n%s", name, strings.Join(lines, "\n")))
	}
	if len(blocks) == 0 {
		return withSignature(NothingToAnalyzeAnswer)
	}
	return withSignature(strings.Join(blocks, "\n\n"))
}
