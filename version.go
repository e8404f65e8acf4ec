package mqascan

import "runtime"

// Version is the semantic version of mqascan.
const Version = "1.0.0"

// VersionInfo contains detailed version information.
type VersionInfo struct {
	// Version is the semantic version (e.g., "1.0.0")
	Version string
	// GitCommit is the git commit hash (set via ldflags at build time)
	GitCommit string
	// BuildTime is the build timestamp (set via ldflags at build time)
	BuildTime string
	// GoVersion is the Go version used to build
	GoVersion string
}

// String renders the version for --version output.
func (v VersionInfo) String() string {
	return "mqascan " + v.Version + " (" + v.GitCommit + ", " + v.BuildTime + ", " + v.GoVersion + ")"
}

// GetVersionInfo returns detailed version information.
//
// GitCommit and BuildTime are populated at build time via -ldflags:
//
//	go build -ldflags="-X github.com/simonhull/mqascan.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/simonhull/mqascan.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/mqascan
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// Variables populated at build time via -ldflags.
var (
	gitCommit = "unknown"
	buildTime = "unknown"
)
