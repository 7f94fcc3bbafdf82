package script

import (
	"errors"
	"fmt"

	"go.starlark.net/starlark"
)

// RuntimeError reports a failure raised while a script was executing.
// References to names that are never defined are caught when the script is
// compiled, so they come back as *globals.ParseError and nothing runs.
type RuntimeError struct {
	Path  string
	RunID string
	Err   error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("run %s: %v", e.Path, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Backtrace returns the Starlark call stack at the point of failure, or the
// plain message when none was recorded.
func (e *RuntimeError) Backtrace() string {
	var evalErr *starlark.EvalError
	if errors.As(e.Err, &evalErr) {
		return evalErr.Backtrace()
	}
	return e.Err.Error()
}
