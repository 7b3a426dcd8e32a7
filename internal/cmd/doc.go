// Package cmd provides the command-line interface for fusebook.
//
// This package contains all cobra command definitions and their
// implementations for the fusebook CLI:
//   - mount: Mount a notebook directory as a FUSE filesystem
//   - inspect: Parse notebooks and report their virtual trees
//   - seed: Generate sample notebooks for testing
//   - export: Write a notebook's virtual tree into a zip archive
//
// The package is internal to prevent external dependencies on the CLI
// structure, allowing for future reorganization without breaking changes.
package cmd
