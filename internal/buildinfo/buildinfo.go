// Package buildinfo carries version metadata set at build time via -ldflags.
package buildinfo

// Version is the semantic version of librahub.
var Version = "dev"

// Build is the git commit hash or build identifier.
var Build = "unknown"
