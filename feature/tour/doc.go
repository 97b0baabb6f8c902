// Package tour syncs the TourAPI catalog into the local tour tables and runs
// the follow-up enrichment and cleanup workflows.
//
// # Workflow
//
//   - Sync pages through a category and upserts structural fields. Local
//     enrichment is never overwritten and nothing is deleted.
//   - Enrich runs one pass (overview, intro, rooms, english, ai) over the
//     records still missing its field, one record at a time.
//   - FindOrphans lists records gone from the catalog; DeleteOrphans removes an
//     operator-confirmed selection, archiving it to object storage first.
//   - EnglishPicker and MapEnglish support manual English mapping for records
//     the automatic matcher could not resolve.
//
// Syncs and passes on the same category are serialized through a lock.Locker.
// Sync status, pass progress, the last orphan audit and the picker lists are
// held by a Tracker and served by the handler.
package tour
