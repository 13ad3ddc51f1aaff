package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SeedOptions struct {
	ParentID string
	Tag      string
	Now      time.Time
}

type SeedResult struct {
	Children int
	Replaced int64
}

type seedChild struct {
	Name      string
	Latitude  float64
	Longitude float64
	Zones     []seedZone
	Calls     []seedCall
	Messages  []seedMessage
}

type seedZone struct {
	Name   string
	Radius float64
	// offset from the child's position in degrees
	OffsetLat float64
	OffsetLng float64
}

type seedCall struct {
	MinutesAgo int
	Number     string
	Type       string
	Duration   int
}

type seedMessage struct {
	MinutesAgo int
	Body       string
	FileType   string
	FileName   string
}

var demoChildren = []seedChild{
	{
		Name:      "Aisyah",
		Latitude:  -6.200000,
		Longitude: 106.816666,
		Zones: []seedZone{
			{Name: "Rumah", Radius: 150},
			{Name: "Sekolah", Radius: 200, OffsetLat: 0.012, OffsetLng: 0.004},
		},
		Calls: []seedCall{
			{MinutesAgo: 15, Number: "+6281234567890", Type: "incoming", Duration: 95},
			{MinutesAgo: 90, Number: "+6281298765432", Type: "outgoing", Duration: 30},
			{MinutesAgo: 240, Number: "+6285711112222", Type: "missed", Duration: 0},
		},
		Messages: []seedMessage{
			{MinutesAgo: 5, Body: "Ma, aku sudah sampai rumah"},
			{MinutesAgo: 45, Body: "", FileType: "image", FileName: "foto_kelas.jpg"},
		},
	},
	{
		Name:      "Bima",
		Latitude:  -6.914744,
		Longitude: 107.609810,
		Zones: []seedZone{
			{Name: "Rumah Nenek", Radius: 100, OffsetLat: 0.02},
		},
		Calls: []seedCall{
			{MinutesAgo: 30, Number: "+6287700001111", Type: "outgoing", Duration: 240},
		},
		Messages: []seedMessage{
			{MinutesAgo: 20, Body: "Main bola dulu ya"},
		},
	},
}

// Seed inserts demo monitoring data for parentID. Rows from a previous run
// with the same tag are replaced.
func Seed(ctx context.Context, pool *pgxpool.Pool, opts SeedOptions, mediaHost string) (SeedResult, error) {
	parentID := strings.TrimSpace(opts.ParentID)
	if parentID == "" {
		return SeedResult{}, fmt.Errorf("parent id is required")
	}
	tag := strings.TrimSpace(opts.Tag)
	if tag == "" {
		return SeedResult{}, fmt.Errorf("seed tag is required")
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return SeedResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	replaced, err := cleanupSeedWithTx(ctx, tx, tag)
	if err != nil {
		return SeedResult{}, fmt.Errorf("cleanup existing seed rows: %w", err)
	}

	for index, child := range demoChildren {
		childID := fmt.Sprintf("%s-%d-%s", tag, index+1, uuid.NewString()[:8])
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO children (id, parent_id, name, created_at) VALUES ($1, $2, $3, $4)`,
			childID,
			parentID,
			child.Name,
			now.Add(time.Duration(index)*time.Second),
		); err != nil {
			return SeedResult{}, fmt.Errorf("insert child %s: %w", child.Name, err)
		}
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO locations (child_id, latitude, longitude, "timestamp") VALUES ($1, $2, $3, $4)`,
			childID,
			child.Latitude,
			child.Longitude,
			now.Add(-2*time.Minute),
		); err != nil {
			return SeedResult{}, fmt.Errorf("insert location for %s: %w", child.Name, err)
		}
		for _, zone := range child.Zones {
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO safe_zones (id, child_id, name, latitude, longitude, radius) VALUES ($1, $2, $3, $4, $5, $6)`,
				uuid.NewString(),
				childID,
				zone.Name,
				child.Latitude+zone.OffsetLat,
				child.Longitude+zone.OffsetLng,
				zone.Radius,
			); err != nil {
				return SeedResult{}, fmt.Errorf("insert zone %s: %w", zone.Name, err)
			}
		}
		for _, call := range child.Calls {
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO call_logs (child_id, "timestamp", number, type, duration) VALUES ($1, $2, $3, $4, $5)`,
				childID,
				now.Add(-time.Duration(call.MinutesAgo)*time.Minute),
				call.Number,
				call.Type,
				call.Duration,
			); err != nil {
				return SeedResult{}, fmt.Errorf("insert call log: %w", err)
			}
		}
		for _, msg := range child.Messages {
			var body, fileURL, fileType, fileName any
			if msg.Body != "" {
				body = msg.Body
			}
			if msg.FileType != "" {
				fileURL = fmt.Sprintf("https://%s/storage/v1/object/public/chat-media/%s/%s", mediaHost, childID, msg.FileName)
				fileType = msg.FileType
				fileName = msg.FileName
			}
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO chat_messages (child_id, "timestamp", message, file_url, file_type, file_name) VALUES ($1, $2, $3, $4, $5, $6)`,
				childID,
				now.Add(-time.Duration(msg.MinutesAgo)*time.Minute),
				body,
				fileURL,
				fileType,
				fileName,
			); err != nil {
				return SeedResult{}, fmt.Errorf("insert chat message: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return SeedResult{}, fmt.Errorf("commit: %w", err)
	}
	return SeedResult{Children: len(demoChildren), Replaced: replaced}, nil
}

// CleanupSeed removes every child (and cascaded activity) created under tag.
func CleanupSeed(ctx context.Context, pool *pgxpool.Pool, tag string) (int64, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	deleted, err := cleanupSeedWithTx(ctx, tx, strings.TrimSpace(tag))
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return deleted, nil
}

func cleanupSeedWithTx(ctx context.Context, tx pgx.Tx, tag string) (int64, error) {
	if tag == "" {
		return 0, fmt.Errorf("seed tag is required")
	}
	result, err := tx.Exec(ctx, `DELETE FROM children WHERE id LIKE $1 || '-%'`, tag)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
