package version

import "fmt"

var (
	// Version is the semantic version of snap-meta, overridden via ldflags at release time.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns the version with commit and build time.
func Full() string {
	return fmt.Sprintf("snap-meta %s (commit: %s, built at: %s)", Version, Commit, BuildTime)
}
