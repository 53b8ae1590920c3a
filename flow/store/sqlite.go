package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a SQLite implementation of Store.
//
// It keeps checkpoint histories in a single-file database with zero
// setup, which makes it the default persistent backend for local and
// single-process deployments. WAL mode is enabled so readers are not
// blocked by the writer.
//
// Schema (auto-migrated on open):
//
//	workflow_checkpoints(workflow_id, run_id, version, node_id, message,
//	                     results JSON, context JSON, created_at)
//	UNIQUE(workflow_id, version)
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at path and migrates
// the schema. Use ":memory:" for an ephemeral database in tests.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	// SQLite supports one writer at a time; keep the pool at a single
	// connection so :memory: databases also behave.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createTables(ctx context.Context) error {
	table := `
		CREATE TABLE IF NOT EXISTS workflow_checkpoints (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			workflow_id TEXT NOT NULL,
			run_id TEXT NOT NULL,
			version INTEGER NOT NULL,
			node_id TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			results TEXT NOT NULL,
			context TEXT NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE(workflow_id, version)
		)
	`
	if _, err := s.db.ExecContext(ctx, table); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"CREATE INDEX IF NOT EXISTS idx_checkpoints_workflow ON workflow_checkpoints(workflow_id)")
	return err
}

// Append writes a checkpoint row; Results and Context are stored as JSON.
func (s *SQLiteStore) Append(ctx context.Context, cp Checkpoint) error {
	results, err := json.Marshal(cp.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	runContext, err := json.Marshal(cp.Context)
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workflow_checkpoints
			(workflow_id, run_id, version, node_id, message, results, context, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		cp.WorkflowID, cp.RunID, cp.Version, cp.NodeID, cp.Message,
		string(results), string(runContext), cp.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert checkpoint: %w", err)
	}
	return nil
}

// Latest returns the highest-version checkpoint for a workflow.
func (s *SQLiteStore) Latest(ctx context.Context, workflowID string) (Checkpoint, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT workflow_id, run_id, version, node_id, message, results, context, created_at
		FROM workflow_checkpoints
		WHERE workflow_id = ?
		ORDER BY version DESC
		LIMIT 1`, workflowID)

	cp, err := scanCheckpoint(row)
	if err == sql.ErrNoRows {
		return Checkpoint{}, ErrNotFound
	}
	return cp, err
}

// History returns a workflow's checkpoints in version order.
func (s *SQLiteStore) History(ctx context.Context, workflowID string) ([]Checkpoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT workflow_id, run_id, version, node_id, message, results, context, created_at
		FROM workflow_checkpoints
		WHERE workflow_id = ?
		ORDER BY version ASC`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var history []Checkpoint
	for rows.Next() {
		cp, err := scanCheckpoint(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, ErrNotFound
	}
	return history, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanCheckpoint.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheckpoint(row rowScanner) (Checkpoint, error) {
	var cp Checkpoint
	var results, runContext, createdAt string

	if err := row.Scan(&cp.WorkflowID, &cp.RunID, &cp.Version, &cp.NodeID,
		&cp.Message, &results, &runContext, &createdAt); err != nil {
		return Checkpoint{}, err
	}
	if err := json.Unmarshal([]byte(results), &cp.Results); err != nil {
		return Checkpoint{}, fmt.Errorf("failed to unmarshal results: %w", err)
	}
	if err := json.Unmarshal([]byte(runContext), &cp.Context); err != nil {
		return Checkpoint{}, fmt.Errorf("failed to unmarshal context: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		cp.CreatedAt = ts
	}
	return cp, nil
}
