package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore is a MySQL/MariaDB implementation of Store.
//
// Designed for production deployments where checkpoint histories must
// survive process restarts and be readable by other services (audit
// dashboards, manual-recovery tooling).
//
// The DSN format follows go-sql-driver/mysql:
//
//	user:password@tcp(localhost:3306)/flowdag?parseTime=true
//
// Never hardcode credentials; read the DSN from the environment.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore connects to MySQL, verifies the connection, and
// migrates the schema.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	s := &MySQLStore{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (m *MySQLStore) createTables(ctx context.Context) error {
	table := `
		CREATE TABLE IF NOT EXISTS workflow_checkpoints (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			workflow_id VARCHAR(255) NOT NULL,
			run_id VARCHAR(255) NOT NULL,
			version INT NOT NULL,
			node_id VARCHAR(255) NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			results JSON NOT NULL,
			context JSON NOT NULL,
			created_at VARCHAR(64) NOT NULL,
			INDEX idx_checkpoints_workflow (workflow_id),
			UNIQUE KEY unique_workflow_version (workflow_id, version)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci
	`
	_, err := m.db.ExecContext(ctx, table)
	return err
}

// Append writes a checkpoint row; Results and Context are stored as JSON.
func (m *MySQLStore) Append(ctx context.Context, cp Checkpoint) error {
	results, err := json.Marshal(cp.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	runContext, err := json.Marshal(cp.Context)
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}

	_, err = m.db.ExecContext(ctx, `
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
func (m *MySQLStore) Latest(ctx context.Context, workflowID string) (Checkpoint, error) {
	row := m.db.QueryRowContext(ctx, `
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
func (m *MySQLStore) History(ctx context.Context, workflowID string) ([]Checkpoint, error) {
	rows, err := m.db.QueryContext(ctx, `
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

// Close releases the connection pool.
func (m *MySQLStore) Close() error {
	return m.db.Close()
}
