// Package version holds the build information of the rebackup binary
package version

import "fmt"

// Build information, set at link time with
// -ldflags "-X github.com/arthur-debert/rebackup/internal/version.Version=..."
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String returns the multi-line description printed by the version command
func String() string {
	return fmt.Sprintf("rebackup version %s\n  commit: %s\n  built:  %s\n", Version, Commit, Date)
}
