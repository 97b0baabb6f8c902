package reconcile

import (
	"context"
	"fmt"
	"time"
)

// Sync reconciles one category: it fetches the full source listing, loads the
// local index, plans the upserts and applies them one record at a time.
//
// A fetch failure aborts before any write. When cache is non-nil the fetched
// key set is stored in it so a subsequent orphan audit can reuse it.
func Sync(ctx context.Context, spec *Spec, cache *SnapshotCache, progress ProgressFunc) (*SyncResult, error) {
	started := time.Now()
	result := &SyncResult{Category: spec.Category}

	items, pages, err := FetchAll(ctx, spec, progress)
	result.Pages = pages
	result.Fetched = len(items)
	if err != nil {
		result.Duration = time.Since(started)
		return result, err
	}

	local, err := spec.Store.LoadIndex(ctx)
	if err != nil {
		return result, fmt.Errorf("load %s index: %w", spec.Category, err)
	}

	plan := BuildPlan(items, local, spec.Adapter)
	result.Duplicates = plan.Summary.Duplicates
	result.Unchanged = plan.Summary.Unchanged
	result.LocalOnly = plan.Summary.LocalOnly

	executed, err := ApplyPlan(ctx, spec, plan)
	for _, action := range plan.Actions[:executed] {
		switch action.Type {
		case ActionCreate:
			result.Created++
		case ActionUpdate:
			result.Updated++
		}
	}
	result.Duration = time.Since(started)
	if err != nil {
		return result, err
	}

	if cache != nil {
		cache.Put(spec.Category, keySet(items, spec.Adapter))
	}

	return result, nil
}

// ApplyPlan upserts every planned action in order and returns how many
// succeeded. The first store error stops the loop.
func ApplyPlan(ctx context.Context, spec *Spec, plan *SyncPlan) (executed int, err error) {
	for _, action := range plan.Actions {
		if err := ctx.Err(); err != nil {
			return executed, err
		}
		if err := spec.Store.Upsert(ctx, action.Item); err != nil {
			return executed, fmt.Errorf("upsert %s %s: %w", spec.Category, action.Key, err)
		}
		executed++
	}
	return executed, nil
}

func keySet(items []SourceItem, adapter Adapter) map[string]struct{} {
	keys := make(map[string]struct{}, len(items))
	for _, item := range items {
		if key := adapter.SourceKey(item); key != "" {
			keys[key] = struct{}{}
		}
	}
	return keys
}
