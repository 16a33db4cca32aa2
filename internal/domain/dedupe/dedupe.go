// Package dedupe tracks match identities so a match delivered twice, under
// different file names or from overlapping archives, is only counted once.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen keys.
type Deduper interface {
	// SeenAndRecord reports whether key was already seen and records it if not.
	SeenAndRecord(ctx context.Context, key string) bool

	// Forget removes key so a later occurrence is accepted again. Used when a
	// recorded match fails validation.
	Forget(ctx context.Context, key string)

	Size() int
}

type slot struct {
	key string
	gen uint64
}

type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]uint64 // key -> generation of its live slot
	order   []slot            // insertion order, used as a ring when bounded
	next    int
	gen     uint64
	maxSize int
}

// NewInMemoryDeduper creates a deduper. The default bound is 50000 keys.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: 50_000}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]uint64)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	d.gen++
	d.seen[key] = d.gen
	if d.maxSize <= 0 {
		return false
	}
	s := slot{key: key, gen: d.gen}
	if len(d.order) < d.maxSize {
		d.order = append(d.order, s)
		return false
	}
	// full: overwrite the oldest slot; a slot left by Forget may be stale
	old := d.order[d.next]
	if g, ok := d.seen[old.key]; ok && g == old.gen {
		delete(d.seen, old.key)
	}
	d.order[d.next] = s
	d.next = (d.next + 1) % d.maxSize
	return false
}

func (d *inMemoryDeduper) Forget(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, key)
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
