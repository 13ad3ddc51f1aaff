package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

type dbQuerier interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// PostgresStore reads monitoring data through a pgx pool or transaction.
type PostgresStore struct {
	db dbQuerier
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db dbQuerier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ChildrenForParent(ctx context.Context, parentID string) ([]Child, error) {
	rows, err := s.db.Query(
		ctx,
		`SELECT id, COALESCE(name, ''), parent_id
		 FROM children
		 WHERE parent_id = $1
		 ORDER BY created_at ASC, id ASC`,
		strings.TrimSpace(parentID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	children := make([]Child, 0)
	for rows.Next() {
		var child Child
		if err := rows.Scan(&child.ID, &child.Name, &child.ParentID); err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		children = append(children, child)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating children: %w", err)
	}
	return children, nil
}

func (s *PostgresStore) RecentCallLogs(ctx context.Context, childIDs []string, limit int) ([]CallLogEntry, error) {
	if len(childIDs) == 0 || limit <= 0 {
		return []CallLogEntry{}, nil
	}
	rows, err := s.db.Query(
		ctx,
		`SELECT child_id, "timestamp", number, type, duration
		 FROM call_logs
		 WHERE child_id = ANY($1)
		 ORDER BY "timestamp" DESC
		 LIMIT $2`,
		childIDs,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query call logs: %w", err)
	}
	defer rows.Close()

	entries := make([]CallLogEntry, 0, limit)
	for len(entries) < limit && rows.Next() {
		var entry CallLogEntry
		if err := rows.Scan(&entry.ChildID, &entry.Timestamp, &entry.PhoneNumber, &entry.CallType, &entry.DurationSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan call log: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating call logs: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) RecentMessages(ctx context.Context, childIDs []string, limit int) ([]ChatMessage, error) {
	if len(childIDs) == 0 || limit <= 0 {
		return []ChatMessage{}, nil
	}
	rows, err := s.db.Query(
		ctx,
		`SELECT child_id, "timestamp", message, file_url, file_type, file_name
		 FROM chat_messages
		 WHERE child_id = ANY($1)
		 ORDER BY "timestamp" DESC
		 LIMIT $2`,
		childIDs,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	messages := make([]ChatMessage, 0, limit)
	for len(messages) < limit && rows.Next() {
		var msg ChatMessage
		if err := rows.Scan(&msg.ChildID, &msg.Timestamp, &msg.Body, &msg.FileURL, &msg.FileType, &msg.FileName); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat messages: %w", err)
	}
	return messages, nil
}

func (s *PostgresStore) Locations(ctx context.Context, childIDs []string, limit int) ([]LocationSample, error) {
	if len(childIDs) == 0 || limit <= 0 {
		return []LocationSample{}, nil
	}
	rows, err := s.db.Query(
		ctx,
		`SELECT child_id, latitude, longitude, "timestamp"
		 FROM locations
		 WHERE child_id = ANY($1)
		 ORDER BY "timestamp" DESC
		 LIMIT $2`,
		childIDs,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	samples := make([]LocationSample, 0, limit)
	for len(samples) < limit && rows.Next() {
		var sample LocationSample
		if err := rows.Scan(&sample.ChildID, &sample.Latitude, &sample.Longitude, &sample.CapturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		if !sample.Valid() {
			log.Warn().
				Str("child_id", sample.ChildID).
				Float64("latitude", sample.Latitude).
				Float64("longitude", sample.Longitude).
				Msg("Dropping location sample with out-of-range coordinates")
			continue
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locations: %w", err)
	}
	return samples, nil
}

func (s *PostgresStore) SafeZones(ctx context.Context, childIDs []string) ([]SafeZone, error) {
	if len(childIDs) == 0 {
		return []SafeZone{}, nil
	}
	rows, err := s.db.Query(
		ctx,
		`SELECT id, child_id, COALESCE(name, ''), latitude, longitude, radius
		 FROM safe_zones
		 WHERE child_id = ANY($1)`,
		childIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query safe zones: %w", err)
	}
	defer rows.Close()

	zones := make([]SafeZone, 0)
	for rows.Next() {
		var zone SafeZone
		if err := rows.Scan(&zone.ID, &zone.ChildID, &zone.Name, &zone.Latitude, &zone.Longitude, &zone.RadiusMeters); err != nil {
			return nil, fmt.Errorf("failed to scan safe zone: %w", err)
		}
		if zone.RadiusMeters <= 0 {
			log.Warn().Str("zone_id", zone.ID).Float64("radius", zone.RadiusMeters).Msg("Dropping safe zone with non-positive radius")
			continue
		}
		zones = append(zones, zone)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating safe zones: %w", err)
	}
	return zones, nil
}

func (s *PostgresStore) InsertAuditRecord(ctx context.Context, record AuditRecord) error {
	_, err := s.db.Exec(
		ctx,
		`INSERT INTO ai_logs (id, user_id, question, answer, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.ID,
		record.UserID,
		record.Question,
		record.Answer,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ai log: %w", err)
	}
	return nil
}
