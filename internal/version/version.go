// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via -ldflags "-X ..." at release build time.
var (
	Version = "dev"
	Commit  = "unknown"
)
