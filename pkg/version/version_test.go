package version

import (
	"strings"
	"testing"
)

func TestStringIncludesBuildMetadata(t *testing.T) {
	Version, GitCommit, BuildDate = "v1.2.3", "abc123", "2024-01-01T00:00:00Z"
	t.Cleanup(func() { Version, GitCommit, BuildDate = "dev", "unknown", "unknown" })

	got := String()
	if !strings.HasPrefix(got, "v1.2.3 (commit abc123, built 2024-01-01T00:00:00Z)") {
		t.Fatalf("unexpected version string %q", got)
	}
}
