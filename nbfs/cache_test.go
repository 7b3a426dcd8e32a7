package nbfs

import (
	"testing"
	"time"
)

func TestContentCacheRoundTrip(t *testing.T) {
	cache := newContentCache(4)
	key := contentKey{path: "/a.ipynb/cell0.md", loadedAt: time.Now()}

	if _, ok := cache.get(key); ok {
		t.Error("empty cache returned a hit")
	}
	cache.put(key, []byte("# Hi"))
	data, ok := cache.get(key)
	if !ok || string(data) != "# Hi" {
		t.Errorf("get = %q, %v; want %q, true", data, ok, "# Hi")
	}
}

func TestContentCacheKeyedByLoadTime(t *testing.T) {
	// A reloaded notebook carries a new load time, so its files must miss
	// the entries cached for the previous load.
	cache := newContentCache(4)
	first := time.Now()
	second := first.Add(time.Second)

	cache.put(contentKey{path: "/a.ipynb/cell0.md", loadedAt: first}, []byte("old"))
	if _, ok := cache.get(contentKey{path: "/a.ipynb/cell0.md", loadedAt: second}); ok {
		t.Error("stale entry served for a newer load time")
	}
}

func TestContentCacheEvictsLeastRecentlyAccessed(t *testing.T) {
	cache := newContentCache(2)
	loaded := time.Now()
	a := contentKey{path: "/n.ipynb/cell0.py", loadedAt: loaded}
	b := contentKey{path: "/n.ipynb/cell1.py", loadedAt: loaded}
	c := contentKey{path: "/n.ipynb/cell2.py", loadedAt: loaded}

	cache.put(a, []byte("a"))
	cache.put(b, []byte("b"))
	// Touch a so b becomes the eviction candidate.
	if _, ok := cache.get(a); !ok {
		t.Fatal("expected a cached")
	}
	cache.put(c, []byte("c"))

	if _, ok := cache.get(b); ok {
		t.Error("expected least-recently-accessed entry evicted")
	}
	if _, ok := cache.get(a); !ok {
		t.Error("recently accessed entry evicted")
	}
	if _, ok := cache.get(c); !ok {
		t.Error("newest entry evicted")
	}
}

func TestContentCacheZeroMaxUsesDefault(t *testing.T) {
	cache := newContentCache(0)
	if cache.max != DefaultContentCacheMax {
		t.Errorf("max = %d, want %d", cache.max, DefaultContentCacheMax)
	}
}
