package version

import "fmt"

var (
	// Version is the release of axiom-dist. Overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time.
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns the version line printed by the version subcommand.
func Full() string {
	return fmt.Sprintf("axiom-dist %s (commit %s, built %s)", Version, Commit, BuildTime)
}
