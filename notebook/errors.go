package notebook

import "errors"

// Sentinel errors for package notebook.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Parse errors
	ErrParse             = errors.New("not a valid notebook document")
	ErrMissingCells      = errors.New("notebook document has no cell list")
	ErrMissingCellType   = errors.New("cell has no cell_type field")
	ErrUnsupportedFormat = errors.New("unsupported notebook format version")
)
