package script

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.starlark.net/starlark"

	"github.com/sameehj/scriptkit/pkg/globals"
	"github.com/sameehj/scriptkit/pkg/runtime/logging"
	"github.com/sameehj/scriptkit/pkg/source"
)

// Runner executes scripts with their literal globals bound in advance.
// The zero value runs with no modules, no limits and prints to stdout.
type Runner struct {
	Stdout   io.Writer
	Modules  starlark.StringDict
	Timeout  time.Duration
	MaxSteps uint64
	Logger   *slog.Logger
}

// Result describes a completed run.
type Result struct {
	RunID string
	Path  string
	// Globals holds the extracted bindings updated with every global the
	// script left behind.
	Globals *globals.Map
}

// Run resolves path, extracts its literal globals and executes the full
// script with those bindings in scope. Read and parse failures are returned
// before any statement runs; failures raised by the script are returned as
// *RuntimeError.
func (r *Runner) Run(ctx context.Context, path string) (*Result, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve script path: %w", err)
	}
	logger := r.logger()

	initial, err := globals.Extract(abs)
	if err != nil {
		return nil, err
	}
	logger.Debug("extracted globals", "script", abs, "names", initial.Names())

	src, err := source.Read(abs)
	if err != nil {
		return nil, err
	}
	f, err := source.Parse(abs, src)
	if err != nil {
		return nil, &globals.ParseError{Path: abs, Err: err}
	}
	f.Stmts = append(prelude(f, initial), f.Stmts...)

	predeclared := make(starlark.StringDict, len(r.Modules)+initial.Len())
	for name, v := range r.Modules {
		predeclared[name] = v
	}
	for name, v := range initial.StringDict() {
		predeclared[name] = v
	}
	predeclared.Freeze()

	prog, err := starlark.FileProgram(f, predeclared.Has)
	if err != nil {
		return nil, &globals.ParseError{Path: abs, Err: err}
	}

	runID := uuid.NewString()
	thread := &starlark.Thread{
		Name:  runID,
		Print: r.print,
	}
	if r.MaxSteps > 0 {
		thread.SetMaxExecutionSteps(r.MaxSteps)
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	thread.SetLocal(contextKey, ctx)
	defer cancelOnDone(ctx, thread)()

	logger.Info("running script", "run_id", runID, "script", abs, "globals", initial.Len())
	start := time.Now()
	out, err := prog.Init(thread, predeclared)
	if err != nil {
		logger.Error("script failed", "run_id", runID, "script", abs, "error", err)
		return nil, &RuntimeError{Path: abs, RunID: runID, Err: err}
	}
	logger.Info("script finished", "run_id", runID, "script", abs, "duration", time.Since(start))

	final := initial.Clone()
	for _, name := range out.Keys() {
		final.Set(name, out[name])
	}
	return &Result{RunID: runID, Path: abs, Globals: final}, nil
}

// cancelOnDone cancels thread when ctx ends. The returned func releases the
// watcher.
func cancelOnDone(ctx context.Context, thread *starlark.Thread) func() {
	if ctx.Done() == nil {
		return func() {}
	}
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(ctx.Err().Error())
		case <-stop:
		}
	}()
	return func() { close(stop) }
}

func (r *Runner) print(_ *starlark.Thread, msg string) {
	w := r.Stdout
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintln(w, msg)
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return logging.Discard()
}
