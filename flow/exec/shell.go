package exec

import (
	"bytes"
	"context"
	"errors"
	osexec "os/exec"
	"strings"

	"github.com/dshills/flowdag-go/flow"
)

// CommandRunner abstracts shell command execution so tests can avoid
// spawning real processes.
type CommandRunner interface {
	// Run executes command and returns stdout, stderr, and the exit
	// code. A non-nil error means the command could not be started or
	// exited non-zero.
	Run(ctx context.Context, command string) (stdout, stderr string, exitCode int, err error)
}

// ShellRunner runs commands through the OS shell ("sh -c").
type ShellRunner struct {
	// Shell overrides the shell binary. Empty selects "sh".
	Shell string
}

// Run implements CommandRunner.
func (r ShellRunner) Run(ctx context.Context, command string) (string, string, int, error) {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}
	cmd := osexec.CommandContext(ctx, shell, "-c", command)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}
	return outBuf.String(), errBuf.String(), exitCode, err
}

// ShellExecutor runs shell nodes. Config:
//
//	command — the shell command line (required)
//
// On success the output map carries stdout, stderr, exit_code, and
// success. A non-zero exit or start failure returns a SHELL_ERROR
// carrying the command's stderr.
type ShellExecutor struct {
	Runner CommandRunner
}

// Execute implements flow.Executor.
func (s *ShellExecutor) Execute(ctx context.Context, node *flow.Node, cfg flow.Config) (map[string]any, error) {
	command, err := cfg.Require("command", "cmd")
	if err != nil {
		return nil, err
	}

	stdout, stderr, exitCode, runErr := s.Runner.Run(ctx, command)
	if runErr != nil {
		msg := "command failed"
		if trimmed := strings.TrimSpace(stderr); trimmed != "" {
			msg = "command failed: " + trimmed
		}
		return nil, flow.NewError(flow.CodeShell, msg).WithNode(node.ID).WithCause(runErr)
	}

	return map[string]any{
		"stdout":    stdout,
		"stderr":    stderr,
		"exit_code": exitCode,
		"success":   true,
	}, nil
}
