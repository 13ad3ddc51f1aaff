package assistant

import (
	"context"
	"sync"
	"time"

	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/store"
)

type fakeStore struct {
	mu sync.Mutex

	children  []store.Child
	calls     []store.CallLogEntry
	messages  []store.ChatMessage
	locations []store.LocationSample
	zones     []store.SafeZone

	childrenErr error
	callsErr    error
	auditErr    error

	invoked []string
	limits  map[string]int
	audits  []store.AuditRecord
}

func (f *fakeStore) record(name string, limit int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invoked = append(f.invoked, name)
	if f.limits == nil {
		f.limits = map[string]int{}
	}
	f.limits[name] = limit
}

func (f *fakeStore) calledOps() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.invoked...)
}

func (f *fakeStore) ChildrenForParent(_ context.Context, _ string) ([]store.Child, error) {
	f.record("children", 0)
	return f.children, f.childrenErr
}

func (f *fakeStore) RecentCallLogs(_ context.Context, _ []string, limit int) ([]store.CallLogEntry, error) {
	f.record("calls", limit)
	return f.calls, f.callsErr
}

func (f *fakeStore) RecentMessages(_ context.Context, _ []string, limit int) ([]store.ChatMessage, error) {
	f.record("messages", limit)
	return f.messages, nil
}

func (f *fakeStore) Locations(_ context.Context, childIDs []string, limit int) ([]store.LocationSample, error) {
	f.record("locations", limit)
	result := make([]store.LocationSample, 0)
	for _, sample := range f.locations {
		for _, id := range childIDs {
			if sample.ChildID == id {
				result = append(result, sample)
			}
		}
	}
	return result, nil
}

func (f *fakeStore) SafeZones(_ context.Context, _ []string) ([]store.SafeZone, error) {
	f.record("zones", 0)
	return f.zones, nil
}

func (f *fakeStore) InsertAuditRecord(_ context.Context, record store.AuditRecord) error {
	f.record("audit", 0)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audits = append(f.audits, record)
	return f.auditErr
}

type fakeAnswerer struct {
	mu       sync.Mutex
	answer   string
	contexts []string
}

func (f *fakeAnswerer) Ask(_ context.Context, contextText, _ string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contexts = append(f.contexts, contextText)
	return f.answer
}

type fakeAnalyzer struct {
	mu      sync.Mutex
	results map[string]string
	urls    []string
}

func (f *fakeAnalyzer) AnalyzeSafe(_ context.Context, rawURL, _ string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, rawURL)
	text, ok := f.results[rawURL]
	return text, ok
}

type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

type stubIDs struct{ id string }

func (s stubIDs) New() string { return s.id }

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

var baseTime = time.Date(2026, 3, 14, 2, 30, 0, 0, time.UTC)
