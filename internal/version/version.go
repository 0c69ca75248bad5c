// Package version holds build metadata set through -ldflags.
package version

// Set with -ldflags "-X github.com/mj1618/desktop-scenarios/internal/version.Version=..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)
