// Package obaerr defines Oba's two error phases — compile-time and
// runtime — which spec §7 requires to never be merged: a compile error
// aborts before the VM ever runs, a runtime error aborts a running
// interpret call and leaves the VM usable for the next one.
package obaerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Phase identifies which half of the pipeline raised an error.
type Phase string

const (
	PhaseCompile Phase = "CompileError"
	PhaseRuntime Phase = "RuntimeError"
)

// ObaError carries a human-readable message and, when known, the
// source line it occurred at. Line is 0 when no location applies.
type ObaError struct {
	Phase   Phase
	Message string
	Line    int
	cause   error
}

func (e *ObaError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("Error: %s (line %d)", e.Message, e.Line)
	}
	return fmt.Sprintf("Error: %s", e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/As.
func (e *ObaError) Unwrap() error { return e.cause }

// Compile builds a compile-time error at the given source line.
func Compile(line int, format string, args ...interface{}) *ObaError {
	return &ObaError{
		Phase:   PhaseCompile,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		cause:   errors.New(fmt.Sprintf(format, args...)),
	}
}

// Runtime builds a runtime error at the given source line, wrapping it
// with github.com/pkg/errors so the underlying cause carries a stack
// trace usable by an embedder's own logging.
func Runtime(line int, format string, args ...interface{}) *ObaError {
	msg := fmt.Sprintf(format, args...)
	return &ObaError{
		Phase:   PhaseRuntime,
		Message: msg,
		Line:    line,
		cause:   errors.WithStack(errors.New(msg)),
	}
}

// Wrap attaches phase/line context to an arbitrary lower-level error
// (e.g. one surfaced while formatting a diagnostic), preserving it as
// the Unwrap() cause.
func Wrap(phase Phase, line int, err error, context string) *ObaError {
	return &ObaError{
		Phase:   phase,
		Message: fmt.Sprintf("%s: %v", context, err),
		Line:    line,
		cause:   errors.Wrap(err, context),
	}
}
