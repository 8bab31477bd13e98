// Package version holds build metadata, set via -ldflags.
package version

import "fmt"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String formats the metadata for --version.
func String() string {
	if Version == "dev" {
		return "dev (built from source)"
	}

	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
