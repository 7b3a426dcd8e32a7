// Package version provides build and version information for fusebook.
//
// Version information is set at build time via ldflags, or falls back to
// values from runtime/debug.ReadBuildInfo when built from a module. The
// package exposes the version string, git commit, and build date for the
// CLI's --version output and startup banner.
package version
