package nbfs

import (
	"fmt"
	"strings"

	"github.com/fusebook/fusebook/notebook"
)

// EntityKind tags the variants of a resolved virtual path.
type EntityKind int

const (
	EntityRoot EntityKind = iota
	EntityNotebook
	EntityCell
	EntityOutput
)

// Entity is the resolved meaning of a virtual path. It references its
// notebook by key (filename, cell index, output index, MIME type) rather
// than holding the parsed document, so a cache replacement in the
// Repository never leaves a dangling Entity; entities are re-derived per
// request and never cached.
type Entity struct {
	Kind     EntityKind
	Notebook string // notebook filename, empty for the root
	Cell     int    // cell index, valid for EntityCell and EntityOutput
	Output   int    // output index, valid for EntityOutput
	Mime     string // MIME type of the referenced bundle entry
}

// IsDir reports whether the entity is listed as a directory.
func (e Entity) IsDir() bool {
	return e.Kind == EntityRoot || e.Kind == EntityNotebook
}

// Child is one directory entry produced for a notebook directory.
type Child struct {
	Name   string
	Entity Entity
}

// Resolver performs the bidirectional mapping between virtual paths and
// entities, and renders entity content. It is stateless apart from its
// naming configuration; all document state lives in the Repository.
type Resolver struct {
	repo    *Repository
	codeExt string
	mimeExt map[string]string
}

// NewResolver creates a resolver over repo. codeExt overrides the code
// cell extension when non-empty; mimeOverrides entries shadow the default
// MIME extension table.
func NewResolver(repo *Repository, codeExt string, mimeOverrides map[string]string) *Resolver {
	if codeExt == "" {
		codeExt = DefaultCodeExtension
	}
	mimeExt := make(map[string]string, len(defaultMimeExtensions)+len(mimeOverrides))
	for k, v := range defaultMimeExtensions {
		mimeExt[k] = v
	}
	for k, v := range mimeOverrides {
		mimeExt[k] = v
	}
	return &Resolver{repo: repo, codeExt: codeExt, mimeExt: mimeExt}
}

// Resolve maps a virtual path to its entity. Paths have at most two
// segments: the notebook filename and a child name generated by the naming
// scheme. Anything deeper, or any name that matches no notebook or
// generated child, fails with ErrNotFound.
func (r *Resolver) Resolve(path string) (Entity, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return Entity{Kind: EntityRoot}, nil
	}

	segments := strings.Split(trimmed, "/")
	if len(segments) > 2 {
		return Entity{}, fmt.Errorf("%s: %w", path, ErrNotFound)
	}

	if len(segments) == 1 {
		if _, err := r.repo.Get(segments[0]); err != nil {
			return Entity{}, err
		}
		return Entity{Kind: EntityNotebook, Notebook: segments[0]}, nil
	}
	return r.Lookup(segments[0], segments[1])
}

// Lookup resolves one child name within a notebook directory by linearly
// matching against the generated names for that notebook. Resolution is
// name-exact and first-match: if two outputs generate the same name, the
// later one is unreachable by path.
func (r *Resolver) Lookup(nbName, childName string) (Entity, error) {
	nb, err := r.repo.Get(nbName)
	if err != nil {
		return Entity{}, err
	}
	for _, child := range r.Children(nb, nbName) {
		if child.Name == childName {
			return child.Entity, nil
		}
	}
	return Entity{}, fmt.Errorf("%s/%s: %w", nbName, childName, ErrNotFound)
}

// Children enumerates the virtual directory entries of a notebook in cell
// order, each cell's source file followed by its outputs in output order
// and MIME bundle order.
func (r *Resolver) Children(nb *notebook.Notebook, nbName string) []Child {
	var children []Child
	for _, cell := range nb.Cells {
		children = append(children, Child{
			Name: r.cellFileName(cell),
			Entity: Entity{
				Kind:     EntityCell,
				Notebook: nbName,
				Cell:     cell.Index,
			},
		})
		for _, out := range cell.Outputs {
			for k, entry := range out.Entries {
				children = append(children, Child{
					Name: r.outputFileName(cell.Index, out, k),
					Entity: Entity{
						Kind:     EntityOutput,
						Notebook: nbName,
						Cell:     cell.Index,
						Output:   out.Index,
						Mime:     entry.Type,
					},
				})
			}
		}
	}
	return children
}

// Render materializes the full byte content of a file entity: the cell
// source as UTF-8 for cell files, the referenced MIME payload for output
// files. Directory entities fail with ErrIsDirectory; an entity whose keys
// no longer exist in the (possibly reloaded) notebook fails with
// ErrNotFound rather than rendering empty content.
func (r *Resolver) Render(nb *notebook.Notebook, e Entity) ([]byte, error) {
	switch e.Kind {
	case EntityRoot, EntityNotebook:
		return nil, ErrIsDirectory
	case EntityCell:
		cell, err := findCell(nb, e)
		if err != nil {
			return nil, err
		}
		return []byte(cell.Source), nil
	case EntityOutput:
		cell, err := findCell(nb, e)
		if err != nil {
			return nil, err
		}
		if e.Output < 0 || e.Output >= len(cell.Outputs) {
			return nil, fmt.Errorf("%s output %d: %w", e.Notebook, e.Output, ErrNotFound)
		}
		for _, entry := range cell.Outputs[e.Output].Entries {
			if entry.Type == e.Mime {
				return entry.Data, nil
			}
		}
		return nil, fmt.Errorf("%s output %d mime %s: %w", e.Notebook, e.Output, e.Mime, ErrNotFound)
	}
	return nil, ErrNotFound
}

func findCell(nb *notebook.Notebook, e Entity) (notebook.Cell, error) {
	if e.Cell < 0 || e.Cell >= len(nb.Cells) {
		return notebook.Cell{}, fmt.Errorf("%s cell %d: %w", e.Notebook, e.Cell, ErrNotFound)
	}
	return nb.Cells[e.Cell], nil
}
