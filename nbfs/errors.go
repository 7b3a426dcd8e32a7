package nbfs

import "errors"

// Sentinel errors for package nbfs.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Resolution errors
	ErrNotFound     = errors.New("path does not resolve to any entity")
	ErrIsDirectory  = errors.New("entity is a directory")
	ErrNotDirectory = errors.New("entity is not a directory")

	// Mutation errors
	ErrReadOnly = errors.New("filesystem is read-only")
)
