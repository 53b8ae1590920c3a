package exec_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dshills/flowdag-go/flow"
	"github.com/dshills/flowdag-go/flow/exec"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := exec.OpenDatabase("sqlite", filepath.Join(t.TempDir(), "nodes.db"))
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE trades (id INTEGER PRIMARY KEY, symbol TEXT, qty INTEGER)`)
	if err != nil {
		t.Fatalf("create table failed: %v", err)
	}
	_, err = db.Exec(`INSERT INTO trades (symbol, qty) VALUES ('ACME', 10), ('GLOBEX', 5)`)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return db
}

func TestDatabaseExecutor(t *testing.T) {
	node := &flow.Node{ID: "db", Type: flow.NodeDatabase}

	t.Run("missing query is MISSING_CONFIG", func(t *testing.T) {
		ex := &exec.DatabaseExecutor{DB: newTestDB(t)}
		_, err := ex.Execute(context.Background(), node, resolve(t, nil, nil))
		if flow.CodeOf(err) != flow.CodeMissingConfig {
			t.Errorf("code = %s, want MISSING_CONFIG", flow.CodeOf(err))
		}
	})

	t.Run("nil connection is DATABASE_ERROR", func(t *testing.T) {
		ex := &exec.DatabaseExecutor{}
		_, err := ex.Execute(context.Background(), node,
			resolve(t, map[string]string{"query": "SELECT 1"}, nil))
		if flow.CodeOf(err) != flow.CodeDatabase {
			t.Errorf("code = %s, want DATABASE_ERROR", flow.CodeOf(err))
		}
	})

	t.Run("select returns rows", func(t *testing.T) {
		ex := &exec.DatabaseExecutor{DB: newTestDB(t)}
		out, err := ex.Execute(context.Background(), node,
			resolve(t, map[string]string{"query": "SELECT symbol, qty FROM trades ORDER BY id"}, nil))
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if out["row_count"] != 2 {
			t.Fatalf("row_count = %v", out["row_count"])
		}
		rows, ok := out["rows"].([]map[string]any)
		if !ok {
			t.Fatalf("rows has type %T", out["rows"])
		}
		if rows[0]["symbol"] != "ACME" {
			t.Errorf("first row = %v", rows[0])
		}
	})

	t.Run("select with no matches returns empty rows", func(t *testing.T) {
		ex := &exec.DatabaseExecutor{DB: newTestDB(t)}
		out, err := ex.Execute(context.Background(), node,
			resolve(t, map[string]string{"query": "SELECT * FROM trades WHERE qty > 1000"}, nil))
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if out["row_count"] != 0 {
			t.Errorf("row_count = %v", out["row_count"])
		}
	})

	t.Run("insert returns rows_affected", func(t *testing.T) {
		ex := &exec.DatabaseExecutor{DB: newTestDB(t)}
		out, err := ex.Execute(context.Background(), node,
			resolve(t, map[string]string{"query": "INSERT INTO trades (symbol, qty) VALUES ('INITECH', 7)"}, nil))
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if out["rows_affected"] != int64(1) {
			t.Errorf("rows_affected = %v (%T)", out["rows_affected"], out["rows_affected"])
		}
	})

	t.Run("bad SQL is DATABASE_ERROR", func(t *testing.T) {
		ex := &exec.DatabaseExecutor{DB: newTestDB(t)}
		_, err := ex.Execute(context.Background(), node,
			resolve(t, map[string]string{"query": "SELECT FROM nowhere"}, nil))
		if flow.CodeOf(err) != flow.CodeDatabase {
			t.Errorf("code = %s, want DATABASE_ERROR", flow.CodeOf(err))
		}
	})

	t.Run("query placeholders are interpolated", func(t *testing.T) {
		ex := &exec.DatabaseExecutor{DB: newTestDB(t)}
		cfg := resolve(t,
			map[string]string{"query": "SELECT qty FROM trades WHERE symbol = '${pick.symbol}'"},
			map[string]any{"pick.symbol": "GLOBEX"})
		out, err := ex.Execute(context.Background(), node, cfg)
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if out["row_count"] != 1 {
			t.Errorf("row_count = %v", out["row_count"])
		}
	})
}
