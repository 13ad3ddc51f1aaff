package store

import "context"

// Store is the read side of the backing database plus the audit append.
// Every activity read is scoped to the given child IDs and returns rows
// newest first, truncated at limit.
type Store interface {
	ChildrenForParent(ctx context.Context, parentID string) ([]Child, error)
	RecentCallLogs(ctx context.Context, childIDs []string, limit int) ([]CallLogEntry, error)
	RecentMessages(ctx context.Context, childIDs []string, limit int) ([]ChatMessage, error)
	Locations(ctx context.Context, childIDs []string, limit int) ([]LocationSample, error)
	SafeZones(ctx context.Context, childIDs []string) ([]SafeZone, error)
	InsertAuditRecord(ctx context.Context, record AuditRecord) error
}
