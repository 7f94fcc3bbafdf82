package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the semantic version or git describe result.
	Version = "dev"
	// GitCommit is the short git commit hash for this build.
	GitCommit = "unknown"
	// BuildDate is the RFC3339 timestamp when the binary was built.
	BuildDate = "unknown"
)

// String returns a human readable version summary, including the Starlark
// interpreter version when build info is available.
func String() string {
	s := fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
	if starlark := dependency("go.starlark.net"); starlark != "" {
		s += fmt.Sprintf(", starlark %s", starlark)
	}
	return s
}

func dependency(path string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, dep := range info.Deps {
		if dep.Path == path {
			return dep.Version
		}
	}
	return ""
}
