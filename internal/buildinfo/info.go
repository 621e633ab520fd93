// Package buildinfo carries the release metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/cleared-dev/finsynth/internal/buildinfo.Version=v0.3.0"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String is the --version line.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
