package nbfs

import (
	"fmt"

	"github.com/fusebook/fusebook/notebook"
)

// Extension is the host filename suffix that marks a file as a notebook.
const Extension = ".ipynb"

// DefaultCodeExtension is the extension given to code cell files. Fixed
// rather than sniffed from notebook metadata; override via Config for
// non-Python kernels.
const DefaultCodeExtension = ".py"

// defaultMimeExtensions maps MIME types to virtual file extensions.
// Unknown types fall back to ".bin".
var defaultMimeExtensions = map[string]string{
	"text/plain":             ".txt",
	"text/html":              ".html",
	"text/markdown":          ".md",
	"text/latex":             ".tex",
	"text/csv":               ".csv",
	"image/png":              ".png",
	"image/jpeg":             ".jpg",
	"image/svg+xml":          ".svg",
	"application/pdf":        ".pdf",
	"application/json":       ".json",
	"application/javascript": ".js",
}

// cellExtension returns the virtual file extension for a cell kind.
func (r *Resolver) cellExtension(kind notebook.CellKind) string {
	switch kind {
	case notebook.CellCode:
		return r.codeExt
	case notebook.CellMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// mimeExtension returns the virtual file extension for a MIME type.
func (r *Resolver) mimeExtension(mime string) string {
	if ext, ok := r.mimeExt[mime]; ok {
		return ext
	}
	return ".bin"
}

// cellFileName returns the virtual name of a cell's source file, e.g.
// "cell3.py".
func (r *Resolver) cellFileName(c notebook.Cell) string {
	return fmt.Sprintf("cell%d%s", c.Index, r.cellExtension(c.Kind))
}

// outputFileName returns the virtual name of the mimeIndex-th entry of an
// output under its cell, e.g. "cell1_out0_stdout.txt" or
// "cell1_out2_data1.png". The label is the stream name for stream outputs,
// "error" for error outputs, and "data{k}" for display and execute-result
// bundles.
func (r *Resolver) outputFileName(cellIndex int, o notebook.Output, mimeIndex int) string {
	entry := o.Entries[mimeIndex]
	var label string
	switch o.Kind {
	case notebook.OutputStream:
		label = o.Stream
	case notebook.OutputError:
		label = "error"
	default:
		label = fmt.Sprintf("data%d", mimeIndex)
	}
	return fmt.Sprintf("cell%d_out%d_%s%s", cellIndex, o.Index, label, r.mimeExtension(entry.Type))
}
