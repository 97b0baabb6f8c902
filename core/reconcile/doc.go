// Package reconcile keeps a local record set in line with a paginated upstream
// catalog without ever losing locally-entered data.
//
// The package is category-agnostic. A caller describes one category with a
// Spec: a Source that pages through the upstream listing, a Store over the
// local rows and an Adapter that extracts keys and compares structural fields.
//
// # Sync
//
// Sync fetches every page first, then plans and applies upserts:
//
//   - a fetch failure on any page aborts before the first write
//   - duplicate source keys are dropped, the first occurrence wins
//   - existing records get only their structural fields rewritten
//   - records already identical are left alone, so a second run is a no-op
//   - local records absent upstream are counted, never removed
//
// # Orphans
//
// FindOrphans lists local records whose key is gone from the upstream
// snapshot. DeleteOrphans removes an explicit selection after the operator
// confirms, re-checking each key against the snapshot first. A SnapshotCache
// lets the audit reuse the key set fetched by the last sync.
//
// # Enrichment
//
// RunPass drives a Pass one record at a time, isolating failures:
//
//	result, err := reconcile.RunPass(ctx, pass, 50, func(cur, total int, label string) {
//	    log.Info("enrich", zap.Int("current", cur), zap.Int("total", total))
//	})
//
// A pass returning ErrMatchNotFound is counted as failed with NoMatch set.
package reconcile
