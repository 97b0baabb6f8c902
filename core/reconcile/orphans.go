package reconcile

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// FindOrphans returns local records whose key is absent from the current
// source snapshot, sorted by key. It never modifies the store.
func FindOrphans(ctx context.Context, spec *Spec, cache *SnapshotCache) ([]Orphan, error) {
	snap, err := snapshot(ctx, spec, cache)
	if err != nil {
		return nil, err
	}

	local, err := spec.Store.LoadIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s index: %w", spec.Category, err)
	}

	return orphansOf(local, snap, spec.Adapter), nil
}

// DeleteOrphans removes the selected records after re-verifying that each is
// still an orphan. Keys that reappeared upstream or are unknown locally are
// skipped. Requires opts.Confirmed; opts.DryRun verifies without deleting.
// The source is always listed again; a cached snapshot is never trusted here
// and is replaced by the fresh listing.
func DeleteOrphans(ctx context.Context, spec *Spec, cache *SnapshotCache, keys []string, opts DeleteOptions) (*DeleteResult, error) {
	if !opts.Confirmed {
		return nil, ErrNotConfirmed
	}

	result := &DeleteResult{Requested: len(keys), DryRun: opts.DryRun, Skipped: []string{}}
	if len(keys) == 0 {
		return result, nil
	}

	snap, err := freshSnapshot(ctx, spec, cache)
	if err != nil {
		return nil, err
	}
	local, err := spec.Store.LoadIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s index: %w", spec.Category, err)
	}

	var (
		verified []Orphan
		toDelete []string
	)
	for _, key := range lo.Uniq(keys) {
		item, ok := local[key]
		if !ok || snap.Has(key) {
			result.Skipped = append(result.Skipped, key)
			continue
		}
		verified = append(verified, Orphan{
			Key:      key,
			Label:    spec.Adapter.Label(item),
			Enriched: spec.Adapter.HasEnrichment(item),
			Item:     item,
		})
		toDelete = append(toDelete, key)
	}

	if opts.DryRun || len(toDelete) == 0 {
		return result, nil
	}

	if opts.Archive != nil {
		if err := opts.Archive(ctx, verified); err != nil {
			return nil, fmt.Errorf("archive %s orphans: %w", spec.Category, err)
		}
	}

	deleted, err := spec.Store.DeleteKeys(ctx, toDelete)
	if err != nil {
		return nil, fmt.Errorf("delete %s orphans: %w", spec.Category, err)
	}
	result.Deleted = deleted

	return result, nil
}

func snapshot(ctx context.Context, spec *Spec, cache *SnapshotCache) (*Snapshot, error) {
	if cache != nil {
		return cache.Get(ctx, spec)
	}
	items, _, err := FetchAll(ctx, spec, nil)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Keys: keySet(items, spec.Adapter)}, nil
}

func freshSnapshot(ctx context.Context, spec *Spec, cache *SnapshotCache) (*Snapshot, error) {
	items, _, err := FetchAll(ctx, spec, nil)
	if err != nil {
		if cache != nil {
			cache.Invalidate(spec.Category)
		}
		return nil, err
	}
	keys := keySet(items, spec.Adapter)
	if cache != nil {
		return cache.Put(spec.Category, keys), nil
	}
	return &Snapshot{Keys: keys}, nil
}

func orphansOf(local map[string]LocalItem, snap *Snapshot, adapter Adapter) []Orphan {
	orphans := make([]Orphan, 0)
	for key, item := range local {
		if snap.Has(key) {
			continue
		}
		orphans = append(orphans, Orphan{
			Key:      key,
			Label:    adapter.Label(item),
			Enriched: adapter.HasEnrichment(item),
			Item:     item,
		})
	}
	sort.Slice(orphans, func(i, j int) bool {
		return orphans[i].Key < orphans[j].Key
	})
	return orphans
}
