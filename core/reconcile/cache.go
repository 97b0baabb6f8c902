package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Snapshot is the set of source keys of one category at a point in time.
type Snapshot struct {
	// Keys holds every source id seen in the listing.
	Keys map[string]struct{}

	// Built is the timestamp when this snapshot was taken.
	Built time.Time
}

// Has reports whether key is present upstream.
func (s *Snapshot) Has(key string) bool {
	_, ok := s.Keys[key]
	return ok
}

// SnapshotCache holds source key snapshots per category with a TTL.
// Concurrent misses for the same category share one upstream listing.
type SnapshotCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]*Snapshot
	sf      singleflight.Group
	nowFn   func() time.Time
}

// NewSnapshotCache creates a cache. A zero ttl disables reuse: every Get
// lists the source again.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		ttl:     ttl,
		entries: make(map[string]*Snapshot),
		nowFn:   time.Now,
	}
}

func (c *SnapshotCache) fresh(s *Snapshot) bool {
	if c.ttl <= 0 || s == nil {
		return false
	}
	return c.nowFn().Sub(s.Built) <= c.ttl
}

// Get returns a fresh snapshot for spec.Category, listing the source on a miss.
func (c *SnapshotCache) Get(ctx context.Context, spec *Spec) (*Snapshot, error) {
	c.mu.RLock()
	snap := c.entries[spec.Category]
	c.mu.RUnlock()
	if c.fresh(snap) {
		return snap, nil
	}

	v, err, _ := c.sf.Do(spec.Category, func() (any, error) {
		c.mu.RLock()
		snap := c.entries[spec.Category]
		c.mu.RUnlock()
		if c.fresh(snap) {
			return snap, nil
		}

		items, _, err := FetchAll(ctx, spec, nil)
		if err != nil {
			return nil, err
		}
		return c.Put(spec.Category, keySet(items, spec.Adapter)), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Put stores a snapshot for category and returns it.
func (c *SnapshotCache) Put(category string, keys map[string]struct{}) *Snapshot {
	snap := &Snapshot{Keys: keys, Built: c.nowFn()}
	c.mu.Lock()
	c.entries[category] = snap
	c.mu.Unlock()
	return snap
}

// Invalidate drops the snapshot of category.
func (c *SnapshotCache) Invalidate(category string) {
	c.mu.Lock()
	delete(c.entries, category)
	c.mu.Unlock()
}
