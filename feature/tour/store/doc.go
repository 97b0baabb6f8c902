// Package store is the gorm accessor for the local tour tables.
//
// It exposes exactly four write/read shapes: Upsert keyed by
// (content_type_id, content_id) that rewrites structural columns only,
// Update with a partial field map, Delete by content ids, and Query with
// filter, sort and range. Get, All and ReferencedEnglishIDs are conveniences
// built on Query.
package store
