package exec

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestSafeExecutorBlocklist(t *testing.T) {
	exec := &SafeExecutor{Blocklist: []string{"rm -rf /", "mkfs"}}
	tests := []struct {
		cmd  string
		args []string
	}{
		{"rm -rf /tmp", nil},
		{"rm", []string{"-rf", "/var"}},
		{"/sbin/mkfs", []string{"/dev/sda"}},
	}
	for _, tt := range tests {
		_, err := exec.Run(context.Background(), tt.cmd, tt.args)
		if err == nil {
			t.Fatalf("expected blocklist error for %q", tt.cmd)
		}
		if !strings.Contains(strings.ToLower(err.Error()), "blocked") {
			t.Fatalf("expected blocked error, got %v", err)
		}
	}
}

func TestSafeExecutorEmptyCommand(t *testing.T) {
	exec := &SafeExecutor{}
	if _, err := exec.Run(context.Background(), "  ", nil); err == nil {
		t.Fatalf("expected error for empty command")
	}
}

func TestSafeExecutorTimeout(t *testing.T) {
	exec := &SafeExecutor{Timeout: 50 * time.Millisecond}
	cmd := "sleep 1"
	if runtime.GOOS == "windows" {
		cmd = "Start-Sleep -Seconds 1"
	}
	start := time.Now()
	_, err := exec.Run(context.Background(), cmd, nil)
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("timeout did not trigger quickly")
	}
}

func TestSafeExecutorOutputTruncation(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("output truncation test uses sh printf")
	}
	exec := &SafeExecutor{MaxOutput: 10}
	res, err := exec.Run(context.Background(), "printf '123456789012345'", nil)
	if err == nil {
		t.Fatalf("expected truncation error")
	}
	var truncated OutputTruncatedError
	if !errors.As(err, &truncated) {
		t.Fatalf("expected OutputTruncatedError, got %T", err)
	}
	if len(res.Stdout) != 10 {
		t.Fatalf("expected truncated stdout length 10, got %d", len(res.Stdout))
	}
}

func TestSafeExecutorExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("exit code test uses sh")
	}
	exec := &SafeExecutor{Timeout: 2 * time.Second}
	res, err := exec.Run(context.Background(), "sh", []string{"-c", "echo oops >&2; exit 3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Code != 3 {
		t.Fatalf("expected exit code 3, got %d", res.Code)
	}
	if strings.TrimSpace(res.Stderr) != "oops" {
		t.Fatalf("unexpected stderr: %q", res.Stderr)
	}
}

func TestSafeExecutorSuccess(t *testing.T) {
	exec := &SafeExecutor{Timeout: 2 * time.Second}
	res, err := exec.Run(context.Background(), "echo hello", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Stdout, "hello") {
		t.Fatalf("unexpected stdout: %q", res.Stdout)
	}
}
