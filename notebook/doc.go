// Package notebook parses Jupyter notebook documents into a typed,
// immutable in-memory model.
//
// A parsed Notebook holds an ordered list of cells; code cells carry their
// execution outputs as ordered MIME bundles with payloads already decoded
// to raw bytes. Parsing is a pure function of the input bytes; callers
// attach host-filesystem metadata (source path, modification time)
// afterwards.
package notebook
