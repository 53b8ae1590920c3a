package flow

import "errors"

// Code classifies engine and executor failures.
type Code string

// Error codes, from fatal to node-local.
//
// CodeInvalidWorkflow is the only fatal code: a malformed graph aborts
// the entire run before any node executes. Every other code describes a
// node-local failure that is captured into that node's result while the
// run continues.
const (
	CodeInvalidWorkflow Code = "INVALID_WORKFLOW"
	CodeNodeNotFound    Code = "NODE_NOT_FOUND"
	CodeMissingConfig   Code = "MISSING_CONFIG"
	CodeShell           Code = "SHELL_ERROR"
	CodeAI              Code = "AI_ERROR"
	CodeDatabase        Code = "DATABASE_ERROR"
	CodeIO              Code = "IO_ERROR"
	CodeHTTP            Code = "HTTP_ERROR"
	CodeExecutionFailed Code = "EXECUTION_FAILED"
)

// Error is a structured engine error carrying a machine-readable code,
// the node it originated from (when node-local), and an optional cause.
type Error struct {
	Code    Code
	Message string
	NodeID  string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.NodeID != "" {
		msg = "node " + e.NodeID + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates an Error with the given code and message.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithNode tags the error with the node it originated from.
func (e *Error) WithNode(nodeID string) *Error {
	e.NodeID = nodeID
	return e
}

// WithCause attaches an underlying error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// CodeOf extracts the Code from err, unwrapping as needed.
// Returns CodeExecutionFailed for errors that are not *Error.
func CodeOf(err error) Code {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return CodeExecutionFailed
}
