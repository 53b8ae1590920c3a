// Package exec provides the built-in node executors for the workflow
// engine: shell commands, AI prompts, database queries, HTTP requests,
// file I/O, data transforms, control-flow helpers, and notifications.
//
// Executors are registered against node type names in a flow.Registry.
// The zero-config path is:
//
//	reg, err := exec.NewRegistry(exec.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	engine := flow.NewEngine(reg, checkpoints, emitter, flow.Options{})
//
// Options carries the external collaborators an executor may need, so
// tests can substitute fakes without touching process state.
package exec

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/dshills/flowdag-go/flow"
	"github.com/dshills/flowdag-go/flow/model"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Options configures the executor set built by NewRegistry. Every
// field is optional; nil fields select a working default.
type Options struct {
	// Models resolves AI provider names for ai_prompt nodes. When nil
	// an empty registry is used and ai_prompt nodes fail at run time.
	Models *model.Registry

	// Runner executes shell commands. Nil selects the OS shell.
	Runner CommandRunner

	// DB serves database nodes. Nil means database nodes fail with a
	// DATABASE_ERROR until a connection is supplied.
	DB *sql.DB

	// Notifier receives notify node payloads. Nil selects a notifier
	// that writes to LogWriter.
	Notifier Notifier

	// LogWriter receives log node output and default notifications.
	// Nil selects os.Stdout.
	LogWriter io.Writer

	// Strategies supplements the built-in trade strategies. Keys
	// override built-ins with the same name.
	Strategies map[string]Strategy
}

// NewRegistry builds a flow.Registry with all built-in executors
// registered under their node type names.
func NewRegistry(opts Options) (*flow.Registry, error) {
	if opts.Models == nil {
		opts.Models = model.NewRegistry()
	}
	if opts.Runner == nil {
		opts.Runner = ShellRunner{}
	}
	if opts.Notifier == nil {
		opts.Notifier = &WriterNotifier{Writer: opts.LogWriter}
	}

	reg := flow.NewRegistry()
	entries := []struct {
		typ flow.NodeType
		ex  flow.Executor
	}{
		{flow.NodeShell, &ShellExecutor{Runner: opts.Runner}},
		{flow.NodeAIPrompt, &AIExecutor{Models: opts.Models}},
		{flow.NodeDatabase, &DatabaseExecutor{DB: opts.DB}},
		{flow.NodeTradeAgent, NewTradeAgentExecutor(opts.Strategies)},
		{flow.NodeHTTPRequest, NewHTTPExecutor(nil)},
		{flow.NodeFileRead, &FileReadExecutor{}},
		{flow.NodeFileWrite, &FileWriteExecutor{}},
		{flow.NodeTransform, &TransformExecutor{}},
		{flow.NodeFilter, &FilterExecutor{}},
		{flow.NodeConditional, &ConditionalExecutor{}},
		{flow.NodeLoop, &LoopExecutor{}},
		{flow.NodeAggregator, &AggregatorExecutor{}},
		{flow.NodeMerge, &MergeExecutor{}},
		{flow.NodeLog, &LogExecutor{Writer: opts.LogWriter}},
		{flow.NodeNotify, &NotifyExecutor{Notifier: opts.Notifier}},
	}
	for _, e := range entries {
		if err := reg.Register(e.typ, e.ex); err != nil {
			return nil, fmt.Errorf("failed to register %s executor: %w", e.typ, err)
		}
	}
	return reg, nil
}

// OpenDatabase opens a *sql.DB for database nodes. dbType is "sqlite"
// or "mysql"; dsn is the driver connection string. The DSN should come
// from configuration or the environment, never from workflow files.
func OpenDatabase(dbType, dsn string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case "sqlite", "sqlite3":
		driver = "sqlite"
	case "mysql":
		driver = "mysql"
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dbType, err)
	}
	return db, nil
}
