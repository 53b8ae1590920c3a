package exec

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dshills/flowdag-go/flow"
)

// DatabaseExecutor runs database nodes against an injected connection
// pool. Config:
//
//	query — the SQL statement (required)
//
// SELECT (and other row-returning) statements produce a rows output:
// a slice of column-name keyed maps plus row_count. Everything else is
// executed and produces rows_affected. Driver and query failures map
// to DATABASE_ERROR.
type DatabaseExecutor struct {
	DB *sql.DB
}

// Execute implements flow.Executor.
func (d *DatabaseExecutor) Execute(ctx context.Context, node *flow.Node, cfg flow.Config) (map[string]any, error) {
	query, err := cfg.Require("query", "sql")
	if err != nil {
		return nil, err
	}
	if d.DB == nil {
		return nil, flow.NewError(flow.CodeDatabase, "no database connection configured").WithNode(node.ID)
	}

	if isQuery(query) {
		return d.runQuery(ctx, node, query)
	}
	return d.runExec(ctx, node, query)
}

func (d *DatabaseExecutor) runQuery(ctx context.Context, node *flow.Node, query string) (map[string]any, error) {
	rows, err := d.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, flow.NewError(flow.CodeDatabase, "query failed").WithNode(node.ID).WithCause(err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, flow.NewError(flow.CodeDatabase, "failed to read columns").WithNode(node.ID).WithCause(err)
	}

	results := make([]map[string]any, 0)
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, flow.NewError(flow.CodeDatabase, "failed to scan row").WithNode(node.ID).WithCause(err)
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			// Drivers hand back []byte for text columns.
			if b, ok := raw[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = raw[i]
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, flow.NewError(flow.CodeDatabase, "row iteration failed").WithNode(node.ID).WithCause(err)
	}

	return map[string]any{
		"rows":      results,
		"row_count": len(results),
	}, nil
}

func (d *DatabaseExecutor) runExec(ctx context.Context, node *flow.Node, query string) (map[string]any, error) {
	res, err := d.DB.ExecContext(ctx, query)
	if err != nil {
		return nil, flow.NewError(flow.CodeDatabase, "statement failed").WithNode(node.ID).WithCause(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}
	return map[string]any{
		"rows_affected": affected,
		"success":       true,
	}, nil
}

// isQuery reports whether the statement returns rows.
func isQuery(query string) bool {
	head := strings.ToUpper(strings.TrimSpace(query))
	for _, prefix := range []string{"SELECT", "WITH", "SHOW", "DESCRIBE", "EXPLAIN", "PRAGMA"} {
		if strings.HasPrefix(head, prefix) {
			return true
		}
	}
	return false
}
