package reconcile

import (
	"strings"

	"github.com/samber/lo"
)

// Dedupe drops records with an empty key and keeps the first occurrence of
// every other key, preserving upstream order.
func Dedupe(items []SourceItem, adapter Adapter) []SourceItem {
	keyed := lo.Filter(items, func(item SourceItem, _ int) bool {
		return adapter.SourceKey(item) != ""
	})
	return lo.UniqBy(keyed, adapter.SourceKey)
}

// BuildPlan computes the upserts that bring local in line with source.
// It is pure: the same snapshots always yield the same plan.
// Local records absent from source are counted but never planned for removal.
func BuildPlan(source []SourceItem, local map[string]LocalItem, adapter Adapter) *SyncPlan {
	unique := Dedupe(source, adapter)

	plan := &SyncPlan{
		Actions: make([]Action, 0, len(unique)),
		Summary: PlanSummary{
			Fetched:    len(source),
			Unique:     len(unique),
			Duplicates: len(source) - len(unique),
		},
	}

	seen := make(map[string]struct{}, len(unique))
	for _, item := range unique {
		key := adapter.SourceKey(item)
		seen[key] = struct{}{}

		existing, ok := local[key]
		if !ok {
			plan.Actions = append(plan.Actions, Action{
				Type:   ActionCreate,
				Key:    key,
				Reason: "missing locally",
				Item:   item,
			})
			plan.Summary.Create++
			continue
		}

		mismatches := adapter.CompareFields(item, existing)
		if len(mismatches) == 0 {
			plan.Summary.Unchanged++
			continue
		}

		plan.Actions = append(plan.Actions, Action{
			Type:   ActionUpdate,
			Key:    key,
			Reason: strings.Join(mismatches, "; "),
			Item:   item,
		})
		plan.Summary.Update++
	}

	for key := range local {
		if _, ok := seen[key]; !ok {
			plan.Summary.LocalOnly++
		}
	}

	return plan
}
