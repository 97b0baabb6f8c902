package tour

import (
	"sync"
	"time"

	"tour-admin/core/reconcile"
	"tour-admin/feature/tour/english"
)

// SyncStatus is the last known state of a category sync.
type SyncStatus struct {
	Category   string                `json:"category"`
	Running    bool                  `json:"running"`
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt *time.Time            `json:"finished_at,omitempty"`
	Result     *reconcile.SyncResult `json:"result,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// EnrichProgress is the live state of an enrichment pass over one category.
type EnrichProgress struct {
	Pass       string                  `json:"pass"`
	Category   string                  `json:"category"`
	Running    bool                    `json:"running"`
	Current    int                     `json:"current"`
	Total      int                     `json:"total"`
	Label      string                  `json:"label"`
	StartedAt  time.Time               `json:"started_at"`
	FinishedAt *time.Time              `json:"finished_at,omitempty"`
	Result     *reconcile.EnrichResult `json:"result,omitempty"`
	Error      string                  `json:"error,omitempty"`
}

// ProgressKey is the key of a pass run in Tracker.EnrichProgress.
func ProgressKey(pass, category string) string {
	return pass + ":" + category
}

// OrphanAudit is the last orphan audit of a category.
type OrphanAudit struct {
	Category  string             `json:"category"`
	AuditedAt time.Time          `json:"audited_at"`
	Orphans   []reconcile.Orphan `json:"orphans"`
}

// Tracker holds the per-area state exposed over HTTP. It is safe for
// concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	syncs   map[string]*SyncStatus
	enrich  map[string]*EnrichProgress
	audits  map[string]*OrphanAudit
	pickers map[string]*english.Picker
	nowFn   func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		syncs:   make(map[string]*SyncStatus),
		enrich:  make(map[string]*EnrichProgress),
		audits:  make(map[string]*OrphanAudit),
		pickers: make(map[string]*english.Picker),
		nowFn:   time.Now,
	}
}

func (t *Tracker) syncStarted(category string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.syncs[category] = &SyncStatus{Category: category, Running: true, StartedAt: t.nowFn()}
}

func (t *Tracker) syncFinished(category string, result *reconcile.SyncResult, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	status, ok := t.syncs[category]
	if !ok {
		status = &SyncStatus{Category: category}
		t.syncs[category] = status
	}
	now := t.nowFn()
	status.Running = false
	status.FinishedAt = &now
	status.Result = result
	status.Error = ""
	if err != nil {
		status.Error = err.Error()
	}
}

// SyncStatuses returns a copy of every known sync status.
func (t *Tracker) SyncStatuses() map[string]SyncStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]SyncStatus, len(t.syncs))
	for k, v := range t.syncs {
		out[k] = *v
	}
	return out
}

func (t *Tracker) enrichStarted(pass, category string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enrich[ProgressKey(pass, category)] = &EnrichProgress{Pass: pass, Category: category, Running: true, StartedAt: t.nowFn()}
}

func (t *Tracker) enrichProgress(pass, category string, current, total int, label string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.enrich[ProgressKey(pass, category)]
	if !ok {
		return
	}
	p.Current = current
	p.Total = total
	p.Label = label
}

func (t *Tracker) enrichFinished(pass, category string, result *reconcile.EnrichResult, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.enrich[ProgressKey(pass, category)]
	if !ok {
		return
	}
	now := t.nowFn()
	p.Running = false
	p.FinishedAt = &now
	p.Result = result
	p.Error = ""
	if err != nil {
		p.Error = err.Error()
	}
}

// EnrichProgress returns a copy of the progress of every pass run so far,
// keyed by ProgressKey.
func (t *Tracker) EnrichProgress() map[string]EnrichProgress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]EnrichProgress, len(t.enrich))
	for k, v := range t.enrich {
		out[k] = *v
	}
	return out
}

func (t *Tracker) setAudit(category string, orphans []reconcile.Orphan) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.audits[category] = &OrphanAudit{Category: category, AuditedAt: t.nowFn(), Orphans: orphans}
}

// forgetOrphans drops deleted keys from the last audit of category.
func (t *Tracker) forgetOrphans(category string, keys []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	audit, ok := t.audits[category]
	if !ok {
		return
	}
	gone := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		gone[k] = struct{}{}
	}
	kept := make([]reconcile.Orphan, 0, len(audit.Orphans))
	for _, o := range audit.Orphans {
		if _, deleted := gone[o.Key]; !deleted {
			kept = append(kept, o)
		}
	}
	audit.Orphans = kept
}

// Audit returns the last orphan audit of category.
func (t *Tracker) Audit(category string) (OrphanAudit, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	a, ok := t.audits[category]
	if !ok {
		return OrphanAudit{}, false
	}
	return *a, true
}

func (t *Tracker) picker(category string) *english.Picker {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pickers[category]
}

func (t *Tracker) setPicker(category string, p *english.Picker) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pickers[category] = p
}
