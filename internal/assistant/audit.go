package assistant

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/store"
)

const auditTimeout = 5 * time.Second

// Clock abstracts time retrieval so audit timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

type IDGenerator interface {
	New() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

type AuditWriter interface {
	InsertAuditRecord(ctx context.Context, record store.AuditRecord) error
}

// AuditLogger appends every answered question to the audit trail. Writes are
// best effort: failures are logged and never reach the caller.
type AuditLogger struct {
	writer AuditWriter
	clock  Clock
	ids    IDGenerator
}

func NewAuditLogger(writer AuditWriter, clock Clock, ids IDGenerator) *AuditLogger {
	if clock == nil {
		clock = RealClock{}
	}
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &AuditLogger{writer: writer, clock: clock, ids: ids}
}

// Record writes the exchange on a context that survives request
// cancellation, bounded by auditTimeout.
func (l *AuditLogger) Record(ctx context.Context, userID, question, answer string) {
	if l == nil || l.writer == nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	record := store.AuditRecord{
		ID:        l.ids.New(),
		UserID:    userID,
		Question:  question,
		Answer:    answer,
		CreatedAt: l.clock.Now(),
	}
	if err := l.writer.InsertAuditRecord(writeCtx, record); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to write audit record")
	}
}
