// Package reconerr defines the error taxonomy shared by every stage of the
// recon pipeline: the process supervisor, the tool runner, the batch
// ingestor and the event bus. Callers compare kinds with errors.Is and
// unwrap details with errors.As; nothing here panics.
package reconerr

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"
)

// Kind identifies one of the error categories from the error-handling
// design. It exists so callers can switch on taxonomy without parsing
// messages.
type Kind string

const (
	KindToolNotFound              Kind = "tool_not_found"
	KindScanExecutionFailed       Kind = "scan_execution_failed"
	KindScanTimedOut              Kind = "scan_timed_out"
	KindCancelled                 Kind = "cancelled"
	KindBatchFailed               Kind = "batch_failed"
	KindUniqueConstraintViolation Kind = "unique_constraint_violation"
	KindInvalidEvent              Kind = "invalid_event"
)

// Error is the common shape for every taxonomy member. Fields beyond Kind
// and Message are populated selectively by the constructors below.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is a *Error with the same Kind, so
// errors.Is(err, reconerr.ToolNotFound("x")) style comparisons work without
// callers needing the original instance.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

func newKind(kind Kind) *Error { return &Error{Kind: kind} }

// ToolNotFound reports that the configured binary for a tool could not be
// located. Fatal to the invocation.
func ToolNotFound(path string) error {
	return &Error{Kind: KindToolNotFound, Message: fmt.Sprintf("binary not found: %s", path)}
}

// ScanExecutionFailed wraps a non-zero exit, spawn failure, or stdin write
// failure. stderrTail is the trailing slice of the 64 KiB ring buffer.
func ScanExecutionFailed(exitCode int, stderrTail string, cause error) error {
	return &Error{
		Kind:    KindScanExecutionFailed,
		Message: fmt.Sprintf("exit_code=%d stderr_tail=%q", exitCode, stderrTail),
		Cause:   cause,
	}
}

// ScanTimedOut reports that the wall-clock timeout for a tool invocation
// elapsed before the process exited.
func ScanTimedOut(d time.Duration) error {
	return &Error{Kind: KindScanTimedOut, Message: fmt.Sprintf("timed out after %s", d)}
}

// Cancelled reports external cancellation of a running invocation. Callers
// must propagate it without wrapping, per the error-handling design.
func Cancelled() error {
	return newKind(KindCancelled)
}

// BatchFailed wraps the exception a single ingestion batch raised. The
// caller rolls back to that batch's savepoint and continues with the next
// batch.
func BatchFailed(batchIndex, size int, cause error) error {
	return &Error{
		Kind:    KindBatchFailed,
		Message: fmt.Sprintf("batch=%d size=%d", batchIndex, size),
		Cause:   cause,
	}
}

// UniqueConstraintViolation wraps a concurrent-insert race detected by the
// store's unique constraint (Postgres SQLSTATE 23505).
func UniqueConstraintViolation(fields []string, cause error) error {
	return &Error{
		Kind:    KindUniqueConstraintViolation,
		Message: fmt.Sprintf("fields=%v", fields),
		Cause:   cause,
	}
}

// InvalidEvent reports a publish attempt missing the required "event"
// field. A programmer error, surfaced directly to the caller.
func InvalidEvent(reason string) error {
	return &Error{Kind: KindInvalidEvent, Message: reason}
}

// KindOf extracts the Kind from err if it (or something it wraps) is a
// *Error, and ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Wrap adds context to err at package boundaries via go-faster/errors so
// a stack trace is retained.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, context)
}
