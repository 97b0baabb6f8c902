package reconcile

import (
	"context"
	"time"
)

// SourceItem is a record as returned by the upstream catalog.
// Adapters define the concrete type.
type SourceItem any

// LocalItem is a persisted record from the local store.
// Adapters define the concrete type.
type LocalItem any

// Page is one page of an upstream listing.
type Page struct {
	// Items holds the decoded records of this page.
	Items []SourceItem

	// TotalCount is the upstream's reported total, if any.
	TotalCount int
}

// Spec bundles everything needed to reconcile one category.
type Spec struct {
	// Category names the unit of work in errors, logs and cache keys.
	Category string

	// Source pages through the upstream catalog.
	Source Source

	// Store reads and writes the local record set.
	Store Store

	// Adapter extracts keys and compares records.
	Adapter Adapter

	// PageSize is the requested page size. Zero means DefaultPageSize.
	PageSize int
}

// DefaultPageSize is the page size used when Spec.PageSize is zero.
const DefaultPageSize = 100

func (s *Spec) pageSize() int {
	if s.PageSize <= 0 {
		return DefaultPageSize
	}
	return s.PageSize
}

// ActionType represents the type of write planned by a sync.
type ActionType string

const (
	// ActionCreate inserts a record that is not yet stored locally.
	ActionCreate ActionType = "create"
	// ActionUpdate rewrites the structural fields of an existing record.
	ActionUpdate ActionType = "update"
)

// Action represents a planned upsert.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the record's source id.
	Key string `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// Item is the source record to upsert.
	Item SourceItem `json:"-"`
}

// SyncPlan is the write-set computed from a source snapshot and a local snapshot.
type SyncPlan struct {
	// Actions lists upserts in first-seen source order.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a sync plan.
type PlanSummary struct {
	// Fetched is the number of source records before deduplication.
	Fetched int `json:"fetched"`

	// Unique is the number of distinct source keys.
	Unique int `json:"unique"`

	// Duplicates counts source records dropped by deduplication, including
	// records without a key.
	Duplicates int `json:"duplicates"`

	// Create counts records missing locally.
	Create int `json:"create"`

	// Update counts records whose structural fields differ.
	Update int `json:"update"`

	// Unchanged counts records already identical locally.
	Unchanged int `json:"unchanged"`

	// LocalOnly counts local records absent from the snapshot. They are never
	// touched by sync; see FindOrphans.
	LocalOnly int `json:"local_only"`
}

// SyncResult reports the outcome of one category sync.
type SyncResult struct {
	Category   string        `json:"category"`
	Pages      int           `json:"pages"`
	Fetched    int           `json:"fetched"`
	Created    int           `json:"created"`
	Updated    int           `json:"updated"`
	Unchanged  int           `json:"unchanged"`
	Duplicates int           `json:"duplicates"`
	LocalOnly  int           `json:"local_only"`
	Duration   time.Duration `json:"duration"`
}

// ProgressFunc receives progress from long-running loops. It is invoked
// synchronously from the loop, after each unit of work.
type ProgressFunc func(current, total int, label string)

// Orphan is a local record whose key is absent from the current source snapshot.
type Orphan struct {
	// Key is the record's source id.
	Key string `json:"key"`

	// Label is a display name (usually the title).
	Label string `json:"label"`

	// Enriched reports whether the record carries locally-entered enrichment
	// that would be lost on delete.
	Enriched bool `json:"enriched"`

	// Item is the full local record.
	Item LocalItem `json:"item"`
}

// DeleteOptions gates orphan deletion.
type DeleteOptions struct {
	// Confirmed indicates the operator confirmed the delete.
	// If false, DeleteOrphans returns ErrNotConfirmed.
	Confirmed bool

	// DryRun verifies the selection without deleting anything.
	DryRun bool

	// Archive, when set, receives the verified orphans before they are deleted.
	// An archive error aborts the delete.
	Archive func(ctx context.Context, orphans []Orphan) error
}

// DeleteResult reports the outcome of an orphan delete.
type DeleteResult struct {
	// Requested is the number of keys the operator selected.
	Requested int `json:"requested"`

	// Deleted is the number of rows actually removed. Keys already removed by
	// another session are not an error and simply do not count.
	Deleted int `json:"deleted"`

	// Skipped lists selected keys that are not orphans (present upstream or
	// unknown locally) and were therefore left alone.
	Skipped []string `json:"skipped"`

	// DryRun echoes the option.
	DryRun bool `json:"dry_run"`
}
