package nbfs

import "sync"

// inodeRegistry hands out stable inode numbers per virtual path. The same
// path always reports the same inode for the lifetime of the process, so
// repeated lookups and directory reads stay consistent.
type inodeRegistry struct {
	mu    sync.Mutex
	next  uint64
	paths map[string]uint64
}

func newInodeRegistry() *inodeRegistry {
	r := &inodeRegistry{
		next:  1,
		paths: make(map[string]uint64),
	}
	// Root directory gets inode 1.
	r.paths["/"] = 1
	return r
}

func (r *inodeRegistry) inodeFor(path string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ino, ok := r.paths[path]; ok {
		return ino
	}
	r.next++
	r.paths[path] = r.next
	return r.next
}
