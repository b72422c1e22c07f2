// Package tracker keeps a SQLite log of completed generative API calls.
package tracker

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pario-ai/costscope/pkg/models"
)

// Tracker records and queries API calls.
type Tracker interface {
	// Record stores a call. An empty ID is assigned a new uuid and a zero
	// CreatedAt is set to now.
	Record(ctx context.Context, rec models.APICallRecord) (models.APICallRecord, error)
	// Query returns calls since a given time, newest first, optionally filtered by model.
	Query(ctx context.Context, since time.Time, model string) ([]models.APICallRecord, error)
	// Stats returns the outcome of every call since a given time.
	Stats(ctx context.Context, since time.Time) ([]models.CallStat, error)
	// Summary returns calls since a given time aggregated per model.
	Summary(ctx context.Context, since time.Time) ([]models.ModelUsageSummary, error)
	// Close releases resources.
	Close() error
}

// SQLiteTracker implements Tracker with a SQLite database.
type SQLiteTracker struct {
	db *sql.DB
}

const createTable = `
CREATE TABLE IF NOT EXISTS api_calls (
	id TEXT PRIMARY KEY,
	model TEXT NOT NULL,
	input_tokens INTEGER NOT NULL,
	output_tokens INTEGER NOT NULL,
	cost REAL NOT NULL,
	success INTEGER NOT NULL,
	retry_count INTEGER NOT NULL DEFAULT 0,
	network_cost REAL NOT NULL DEFAULT 0,
	latency_ms INTEGER NOT NULL DEFAULT 0,
	feature_tags TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_calls_time ON api_calls(created_at);
CREATE INDEX IF NOT EXISTS idx_calls_model_time ON api_calls(model, created_at);
`

// New creates a SQLiteTracker and runs auto-migration.
func New(dbPath string) (*SQLiteTracker, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open tracker db: %w", err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate tracker db: %w", err)
	}

	return &SQLiteTracker{db: db}, nil
}

// Record stores a call record.
func (t *SQLiteTracker) Record(ctx context.Context, rec models.APICallRecord) (models.APICallRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	tags := rec.FeatureTags
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return rec, fmt.Errorf("encode feature tags: %w", err)
	}

	_, err = t.db.ExecContext(ctx,
		`INSERT INTO api_calls (id, model, input_tokens, output_tokens, cost, success, retry_count, network_cost, latency_ms, feature_tags, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Model, rec.InputTokens, rec.OutputTokens, rec.Cost, rec.Success,
		rec.RetryCount, rec.NetworkCost, rec.LatencyMs, string(data), rec.CreatedAt,
	)
	if err != nil {
		return rec, fmt.Errorf("record call: %w", err)
	}
	return rec, nil
}

// Query returns calls since a given time, newest first.
func (t *SQLiteTracker) Query(ctx context.Context, since time.Time, model string) ([]models.APICallRecord, error) {
	query := `SELECT id, model, input_tokens, output_tokens, cost, success, retry_count, network_cost, latency_ms, feature_tags, created_at
		 FROM api_calls WHERE created_at >= ?`
	args := []any{since.UTC()}
	if model != "" {
		query += ` AND model = ?`
		args = append(args, model)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query calls: %w", err)
	}
	defer rows.Close()

	var records []models.APICallRecord
	for rows.Next() {
		var r models.APICallRecord
		var tags string
		if err := rows.Scan(&r.ID, &r.Model, &r.InputTokens, &r.OutputTokens, &r.Cost, &r.Success,
			&r.RetryCount, &r.NetworkCost, &r.LatencyMs, &tags, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &r.FeatureTags); err != nil {
			return nil, fmt.Errorf("decode feature tags: %w", err)
		}
		if len(r.FeatureTags) == 0 {
			r.FeatureTags = nil
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Stats returns call outcomes since a given time, oldest first.
func (t *SQLiteTracker) Stats(ctx context.Context, since time.Time) ([]models.CallStat, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT latency_ms, success, retry_count FROM api_calls WHERE created_at >= ? ORDER BY created_at ASC`,
		since.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("call stats: %w", err)
	}
	defer rows.Close()

	var stats []models.CallStat
	for rows.Next() {
		var s models.CallStat
		if err := rows.Scan(&s.LatencyMs, &s.Success, &s.RetryCount); err != nil {
			return nil, fmt.Errorf("scan call stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Summary returns calls since a given time aggregated by model.
func (t *SQLiteTracker) Summary(ctx context.Context, since time.Time) ([]models.ModelUsageSummary, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT model, COUNT(*), SUM(input_tokens), SUM(output_tokens), SUM(cost), SUM(network_cost),
			SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END)
		 FROM api_calls WHERE created_at >= ?
		 GROUP BY model ORDER BY model`,
		since.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	defer rows.Close()

	var summaries []models.ModelUsageSummary
	for rows.Next() {
		var s models.ModelUsageSummary
		if err := rows.Scan(&s.Model, &s.RequestCount, &s.InputTokens, &s.OutputTokens,
			&s.TotalCost, &s.NetworkCost, &s.Failures); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Close releases the database connection.
func (t *SQLiteTracker) Close() error {
	return t.db.Close()
}
