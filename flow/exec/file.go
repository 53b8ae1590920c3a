package exec

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dshills/flowdag-go/flow"
)

// FileReadExecutor runs file_read nodes. Config:
//
//	path — file path (required, interpolated)
//
// Output carries content and path. Missing or unreadable files map to
// IO_ERROR.
type FileReadExecutor struct{}

// Execute implements flow.Executor.
func (f *FileReadExecutor) Execute(_ context.Context, node *flow.Node, cfg flow.Config) (map[string]any, error) {
	path, err := cfg.Require("path")
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, flow.NewError(flow.CodeIO, "failed to read file: "+path).WithNode(node.ID).WithCause(err)
	}

	return map[string]any{
		"content": string(data),
		"path":    path,
	}, nil
}

// FileWriteExecutor runs file_write nodes. Config:
//
//	path    — file path (required, interpolated)
//	content — data to write (interpolated; empty writes an empty file)
//
// Parent directories are created as needed. Output carries path,
// bytes_written, and success.
type FileWriteExecutor struct{}

// Execute implements flow.Executor.
func (f *FileWriteExecutor) Execute(_ context.Context, node *flow.Node, cfg flow.Config) (map[string]any, error) {
	path, err := cfg.Require("path")
	if err != nil {
		return nil, err
	}
	content := cfg.Get("content")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, flow.NewError(flow.CodeIO, "failed to create directory: "+dir).WithNode(node.ID).WithCause(err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, flow.NewError(flow.CodeIO, "failed to write file: "+path).WithNode(node.ID).WithCause(err)
	}

	return map[string]any{
		"path":          path,
		"bytes_written": len(content),
		"success":       true,
	}, nil
}
