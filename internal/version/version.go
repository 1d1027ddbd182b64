// Package version holds build-time version information, overridden via
// -ldflags at release time.
package version

import "fmt"

var (
	// Version is the semantic version of this build.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)

// String returns a single-line human-readable version string.
func String() string {
	return fmt.Sprintf("docsmith %s (commit %s, built %s)", Version, Commit, Date)
}
