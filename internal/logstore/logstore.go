// Package logstore is the sqlite-backed chaos-log source feeding the
// pipeline. The same store is written by the synthetic generator and read
// by the analysis loop.
package logstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/triagestack/triage-engine/internal/models"
	"github.com/triagestack/triage-engine/internal/utils"
)

// Store wraps the sqlite database holding raw chaos logs.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the log store at path and ensures the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "chaos_logs.db"
	}
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, utils.NewAppError("logstore.Open", "open database", err)
	}
	db.SetMaxOpenConns(4)

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS chaos_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			severity TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			agent_id TEXT NOT NULL DEFAULT '',
			experiment_id TEXT NOT NULL DEFAULT '',
			region TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_chaos_logs_timestamp
			ON chaos_logs (timestamp);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return utils.NewAppError("logstore.initSchema", "apply schema", err)
	}
	return nil
}

// InsertLogs appends a batch of entries in one transaction.
func (s *Store) InsertLogs(ctx context.Context, entries []models.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return utils.NewAppError("logstore.InsertLogs", "begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chaos_logs (timestamp, severity, message, agent_id, experiment_id, region)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return utils.NewAppError("logstore.InsertLogs", "prepare insert", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			e.Timestamp, e.Severity, e.Message, e.AgentID, e.ExperimentID, e.Region); err != nil {
			return utils.NewAppError("logstore.InsertLogs", "insert entry", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return utils.NewAppError("logstore.InsertLogs", "commit", err)
	}
	return nil
}

// FetchBatch returns up to limit entries at or after since, oldest first.
func (s *Store) FetchBatch(ctx context.Context, since time.Time, limit int) ([]models.LogEntry, error) {
	if limit <= 0 {
		limit = 1000
	}

	query := `
		SELECT timestamp, severity, message, agent_id, experiment_id, region
		FROM chaos_logs
		WHERE timestamp >= ?
		ORDER BY timestamp ASC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, since.UTC().Format(time.RFC3339), limit)
	if err != nil {
		return nil, utils.NewAppError("logstore.FetchBatch", "query logs", err)
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.Timestamp, &e.Severity, &e.Message, &e.AgentID, &e.ExperimentID, &e.Region); err != nil {
			return nil, utils.NewAppError("logstore.FetchBatch", "scan log row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.NewAppError("logstore.FetchBatch", "iterate log rows", err)
	}
	return entries, nil
}

// Count reports how many entries the store holds.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chaos_logs`).Scan(&count)
	if err != nil {
		return 0, utils.NewAppError("logstore.Count", "count logs", err)
	}
	return count, nil
}
