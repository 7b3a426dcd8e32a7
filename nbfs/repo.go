package nbfs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/fusebook/fusebook/notebook"
)

// Repository enumerates and lazily materializes notebooks from a single
// host directory. Parsed notebooks are cached by filename and replaced
// wholesale when the host file's modification time advances; a Notebook
// handed out by Get is never mutated afterwards.
//
// The cache is safe under concurrent FUSE dispatch: lookups take a read
// lock, replacements take the write lock, and concurrent reparses of the
// same file are collapsed through a singleflight group.
type Repository struct {
	dir string
	log *slog.Logger

	mu    sync.RWMutex
	cache map[string]*notebook.Notebook
	sf    singleflight.Group
}

// NewRepository creates a repository over dir. The logger must be non-nil;
// pass slog.Default() if no specific handler is wanted.
func NewRepository(dir string, logger *slog.Logger) *Repository {
	return &Repository{
		dir:   dir,
		log:   logger,
		cache: make(map[string]*notebook.Notebook),
	}
}

// Dir returns the host directory the repository reads from.
func (r *Repository) Dir() string { return r.dir }

// ListNames rescans the host directory and returns the notebook filenames
// in the host directory's listing order (not sorted). Only regular files
// with the notebook extension are recognized; there is no recursion into
// subdirectories. Cache entries whose host file has disappeared are
// evicted as a side effect.
func (r *Repository) ListNames() ([]string, error) {
	f, err := os.Open(r.dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", r.dir, err)
	}
	defer f.Close()

	// (*os.File).ReadDir preserves the host listing order, unlike
	// os.ReadDir which sorts.
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", r.dir, err)
	}

	names := make([]string, 0, len(entries))
	present := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		names = append(names, entry.Name())
		present[entry.Name()] = true
	}

	r.mu.Lock()
	for name := range r.cache {
		if !present[name] {
			delete(r.cache, name)
			r.log.Debug("evicted vanished notebook", slog.String("name", name))
		}
	}
	r.mu.Unlock()

	return names, nil
}

// Get returns the parsed notebook for name, loading it on first access and
// reloading it when the host file's modification time has advanced past
// the cached copy's. A file that does not exist, is not a notebook, or
// fails to parse is reported as ErrNotFound; one malformed notebook never
// affects the others.
func (r *Repository) Get(name string) (*notebook.Notebook, error) {
	if !strings.HasSuffix(name, Extension) || strings.ContainsRune(name, filepath.Separator) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	path := filepath.Join(r.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	r.mu.RLock()
	cached := r.cache[name]
	r.mu.RUnlock()
	if cached != nil && !info.ModTime().After(cached.ModTime) {
		return cached, nil
	}

	v, err, _ := r.sf.Do(name, func() (any, error) {
		return r.load(name, path)
	})
	if err != nil {
		return nil, err
	}
	return v.(*notebook.Notebook), nil
}

// load reads and parses one notebook and replaces its cache entry. Runs
// inside the singleflight group.
func (r *Repository) load(name, path string) (*notebook.Notebook, error) {
	// Re-check under the lock: another caller may have finished a load
	// between the staleness check and the singleflight call.
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	r.mu.RLock()
	cached := r.cache[name]
	r.mu.RUnlock()
	if cached != nil && !info.ModTime().After(cached.ModTime) {
		return cached, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	nb, err := notebook.Parse(data)
	if err != nil {
		// A malformed notebook is unreachable, not reachable-but-empty.
		r.log.Warn("notebook failed to parse",
			slog.String("name", name),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s unreadable: %w", name, ErrNotFound)
	}
	nb.SourcePath = path
	nb.ModTime = info.ModTime()

	r.mu.Lock()
	r.cache[name] = nb
	r.mu.Unlock()

	r.log.Debug("loaded notebook",
		slog.String("name", name),
		slog.Int("cells", len(nb.Cells)))
	return nb, nil
}

// Invalidate drops the cached entry for name, if any. The next Get
// reparses from disk.
func (r *Repository) Invalidate(name string) {
	r.mu.Lock()
	delete(r.cache, name)
	r.mu.Unlock()
}
