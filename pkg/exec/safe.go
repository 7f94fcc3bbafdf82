package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

type Result struct {
	Stdout string
	Stderr string
	Code   int
}

// OutputTruncatedError is returned alongside a partial Result when a stream
// exceeded MaxOutput bytes.
type OutputTruncatedError struct {
	Limit int
}

func (e OutputTruncatedError) Error() string {
	return fmt.Sprintf("output truncated at %d bytes", e.Limit)
}

// SafeExecutor runs subprocesses on behalf of scripts. A zero Timeout or
// MaxOutput means no limit.
type SafeExecutor struct {
	Timeout   time.Duration
	MaxOutput int
	Blocklist []string
}

// Run executes cmd with args. With no args, cmd is handed to the platform
// shell as a single command line. A non-zero exit status is reported in
// Result.Code, not as an error.
func (e *SafeExecutor) Run(ctx context.Context, cmd string, args []string) (*Result, error) {
	if strings.TrimSpace(cmd) == "" {
		return nil, errors.New("command is required")
	}
	if e.isBlocked(cmd, args) {
		return nil, fmt.Errorf("command blocked: %s", cmd)
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	var command *exec.Cmd
	if len(args) == 0 {
		name, shellArgs := shellCommand(cmd)
		command = exec.CommandContext(ctx, name, shellArgs...)
	} else {
		command = exec.CommandContext(ctx, cmd, args...)
	}

	stdoutBuf := &limitedBuffer{limit: e.MaxOutput}
	stderrBuf := &limitedBuffer{limit: e.MaxOutput}
	command.Stdout = stdoutBuf
	command.Stderr = stderrBuf

	err := command.Run()
	exitCode := 0
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("run %s: %w", cmd, ctxErr)
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("run %s: %w", cmd, err)
		}
		exitCode = exitErr.ExitCode()
	}

	res := &Result{Stdout: stdoutBuf.String(), Stderr: stderrBuf.String(), Code: exitCode}
	if stdoutBuf.truncated || stderrBuf.truncated {
		return res, OutputTruncatedError{Limit: e.MaxOutput}
	}
	return res, nil
}

func shellCommand(command string) (string, []string) {
	switch runtime.GOOS {
	case "windows":
		return "powershell", []string{"-NoProfile", "-NonInteractive", "-Command", command}
	default:
		return "sh", []string{"-c", command}
	}
}

// isBlocked matches blocklist entries against the program name and, for
// shell command lines, against the start of the line.
func (e *SafeExecutor) isBlocked(cmd string, args []string) bool {
	if len(e.Blocklist) == 0 {
		return false
	}
	line := strings.Join(append([]string{cmd}, args...), " ")
	line = strings.ToLower(strings.Join(strings.Fields(line), " "))
	program := strings.Fields(cmd)[0]
	base := filepath.Base(program)
	for _, blocked := range e.Blocklist {
		blocked = strings.ToLower(strings.TrimSpace(blocked))
		if blocked == "" {
			continue
		}
		if strings.EqualFold(blocked, program) || strings.EqualFold(blocked, base) || strings.HasPrefix(line, blocked) {
			return true
		}
	}
	return false
}

type limitedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (l *limitedBuffer) Write(p []byte) (int, error) {
	if l.limit <= 0 {
		return l.buf.Write(p)
	}
	remaining := l.limit - l.buf.Len()
	if remaining <= 0 {
		l.truncated = true
		return len(p), nil
	}
	if len(p) > remaining {
		l.truncated = true
		_, _ = l.buf.Write(p[:remaining])
		return len(p), nil
	}
	return l.buf.Write(p)
}

func (l *limitedBuffer) String() string {
	return l.buf.String()
}

var _ io.Writer = (*limitedBuffer)(nil)
