package nbfs

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"syscall"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
)

// FS implements the fusebook FUSE filesystem over one notebook source
// directory. It is correct under both serialized and concurrent callback
// dispatch: the repository cache, the rendered content cache and the inode
// registry each guard their own state.
type FS struct {
	repo     *Repository
	resolver *Resolver
	content  *contentCache
	inodes   *inodeRegistry
	log      *slog.Logger
}

// NewFS creates a filesystem instance from cfg. The logger must be
// non-nil.
func NewFS(cfg *Config, logger *slog.Logger) *FS {
	repo := NewRepository(cfg.Source, logger)
	return &FS{
		repo:     repo,
		resolver: NewResolver(repo, cfg.CodeExtension, cfg.MimeExtensions),
		content:  newContentCache(cfg.ContentCacheMax),
		inodes:   newInodeRegistry(),
		log:      logger,
	}
}

// Repository returns the notebook repository backing the filesystem.
func (f *FS) Repository() *Repository { return f.repo }

// Resolver returns the path resolver backing the filesystem.
func (f *FS) Resolver() *Resolver { return f.resolver }

// Root returns the root directory node.
func (f *FS) Root() (fs.Node, error) {
	return &Dir{fs: f}, nil
}

// toErrno translates resolver and repository errors into the errno the
// kernel expects.
func toErrno(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return syscall.ENOENT
	case errors.Is(err, ErrIsDirectory):
		return syscall.EISDIR
	case errors.Is(err, ErrNotDirectory):
		return syscall.ENOTDIR
	case errors.Is(err, ErrReadOnly):
		return syscall.EROFS
	default:
		return err
	}
}

// Dir implements Node and Handle for the root directory (name == "") and
// for notebook directories.
type Dir struct {
	fs   *FS
	name string // notebook filename, empty for the root
}

func (d *Dir) path() string {
	if d.name == "" {
		return "/"
	}
	return "/" + d.name
}

// Attr returns directory attributes. Notebook directories carry the host
// file's modification time; permissions are fixed read-only bits.
func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = d.fs.inodes.inodeFor(d.path())
	a.Mode = os.ModeDir | 0o555
	if d.name == "" {
		now := time.Now()
		a.Mtime = now
		a.Ctime = now
		return nil
	}
	nb, err := d.fs.repo.Get(d.name)
	if err != nil {
		return toErrno(err)
	}
	a.Mtime = nb.ModTime
	a.Ctime = nb.ModTime
	a.Atime = time.Now()
	return nil
}

// Lookup resolves child names to nodes. At the root every notebook file
// appears as a directory; inside a notebook directory the generated
// cell/output names resolve to read-only files.
func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	if d.name == "" {
		if _, err := d.fs.repo.Get(name); err != nil {
			return nil, syscall.ENOENT
		}
		return &Dir{fs: d.fs, name: name}, nil
	}

	entity, err := d.fs.resolver.Lookup(d.name, name)
	if err != nil {
		return nil, syscall.ENOENT
	}
	return &File{
		fs:     d.fs,
		entity: entity,
		vpath:  d.path() + "/" + name,
	}, nil
}

// ReadDirAll lists directory contents: one directory per notebook at the
// root, the generated cell and output files inside a notebook.
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	if d.name == "" {
		names, err := d.fs.repo.ListNames()
		if err != nil {
			return nil, toErrno(err)
		}
		dirents := make([]fuse.Dirent, 0, len(names))
		for _, name := range names {
			dirents = append(dirents, fuse.Dirent{
				Inode: d.fs.inodes.inodeFor("/" + name),
				Name:  name,
				Type:  fuse.DT_Dir,
			})
		}
		return dirents, nil
	}

	nb, err := d.fs.repo.Get(d.name)
	if err != nil {
		return nil, toErrno(err)
	}
	children := d.fs.resolver.Children(nb, d.name)
	dirents := make([]fuse.Dirent, 0, len(children))
	for _, child := range children {
		dirents = append(dirents, fuse.Dirent{
			Inode: d.fs.inodes.inodeFor(d.path() + "/" + child.Name),
			Name:  child.Name,
			Type:  fuse.DT_File,
		})
	}
	return dirents, nil
}

// The write family always fails: the filesystem is read-only.

func (d *Dir) Create(ctx context.Context, req *fuse.CreateRequest, resp *fuse.CreateResponse) (fs.Node, fs.Handle, error) {
	return nil, nil, syscall.EROFS
}

func (d *Dir) Mkdir(ctx context.Context, req *fuse.MkdirRequest) (fs.Node, error) {
	return nil, syscall.EROFS
}

func (d *Dir) Remove(ctx context.Context, req *fuse.RemoveRequest) error {
	return syscall.EROFS
}

func (d *Dir) Rename(ctx context.Context, req *fuse.RenameRequest, newDir fs.Node) error {
	return syscall.EROFS
}

// File implements Node and Handle for cell and output files. Content is
// rendered on demand through the filesystem's bounded content cache; no
// state is held on the node itself, so a cache replacement in the
// repository is picked up on the next request.
type File struct {
	fs     *FS
	entity Entity
	vpath  string // virtual path, used for inode and content cache keys
}

// content renders the file's full byte content, serving repeated reads of
// the same notebook load from the content cache.
func (f *File) content() ([]byte, error) {
	nb, err := f.fs.repo.Get(f.entity.Notebook)
	if err != nil {
		return nil, err
	}
	key := contentKey{path: f.vpath, loadedAt: nb.ModTime}
	if data, ok := f.fs.content.get(key); ok {
		return data, nil
	}
	data, err := f.fs.resolver.Render(nb, f.entity)
	if err != nil {
		return nil, err
	}
	f.fs.content.put(key, data)
	return data, nil
}

// Attr returns file attributes. Size is the exact rendered byte length and
// matches what Read serves, byte for byte.
func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	data, err := f.content()
	if err != nil {
		return toErrno(err)
	}
	nb, err := f.fs.repo.Get(f.entity.Notebook)
	if err != nil {
		return toErrno(err)
	}
	a.Inode = f.fs.inodes.inodeFor(f.vpath)
	a.Mode = 0o444
	a.Size = uint64(len(data))
	a.Mtime = nb.ModTime
	a.Ctime = nb.ModTime
	a.Atime = time.Now()
	return nil
}

// Open validates that the entity still resolves and hands the node back as
// its own handle; no resource is acquired since content is rendered per
// read. Write access is refused.
func (f *File) Open(ctx context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fs.Handle, error) {
	if !req.Flags.IsReadOnly() {
		return nil, syscall.EROFS
	}
	if _, err := f.content(); err != nil {
		return nil, toErrno(err)
	}
	return f, nil
}

// Read serves the requested [offset, offset+size) slice of the rendered
// content, clipped to the content length. An offset at or past the end
// yields an empty result, not an error.
func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	data, err := f.content()
	if err != nil {
		return toErrno(err)
	}
	if req.Offset >= int64(len(data)) {
		resp.Data = nil
		return nil
	}
	end := req.Offset + int64(req.Size)
	if end > int64(len(data)) {
		end = int64(len(data))
	}
	resp.Data = data[req.Offset:end]
	return nil
}

func (f *File) Write(ctx context.Context, req *fuse.WriteRequest, resp *fuse.WriteResponse) error {
	return syscall.EROFS
}

func (f *File) Setattr(ctx context.Context, req *fuse.SetattrRequest, resp *fuse.SetattrResponse) error {
	return syscall.EROFS
}
