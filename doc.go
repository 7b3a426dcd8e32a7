// Package main provides the fusebook command-line interface.
//
// fusebook is a FUSE filesystem for exploring Jupyter notebooks. Notebooks
// are logically containers of code, documentation and output, so they are
// modeled as directories whose components are accessible directly as
// files. The view is read-only.
//
// The main binary supports multiple subcommands:
//   - mount: Mount a notebook directory at a specified mountpoint
//   - inspect: Parse notebooks and report their virtual trees
//   - seed: Generate sample notebooks for testing
//   - export: Write a notebook's virtual tree into a zip archive
package main
