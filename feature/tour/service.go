package tour

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"tour-admin/core/lock"
	"tour-admin/core/metrics"
	"tour-admin/core/reconcile"
	"tour-admin/core/storage"
	"tour-admin/feature/tour/ai"
	"tour-admin/feature/tour/english"
	"tour-admin/feature/tour/models"
	"tour-admin/feature/tour/store"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

// ErrInvalidField is returned when a record patch names a field that cannot
// be edited by hand.
var ErrInvalidField = errors.New("field is not editable")

// ErrEnglishTaken is returned when an English record is already mapped to
// another Korean record of the same category.
var ErrEnglishTaken = errors.New("english record already mapped")

// Options configures a Service.
type Options struct {
	Store     *store.Store
	Catalog   Catalog
	Generator ai.Generator
	// Locker serializes syncs and passes. Defaults to an in-process locker.
	Locker lock.Locker
	// Archive receives orphans before deletion. Nil disables archiving.
	Archive       storage.Client
	Bucket        string
	ArchivePrefix string
	// Matcher picks English counterparts. Defaults to english.DefaultChain.
	Matcher english.Matcher
	Config  Config
	Logger  *zap.Logger
}

// Service runs the tour sync workflow: category sync, enrichment passes,
// orphan audit, English mapping and record maintenance.
type Service struct {
	store         *store.Store
	catalog       Catalog
	generator     ai.Generator
	locker        lock.Locker
	archive       storage.Client
	bucket        string
	archivePrefix string
	matcher       english.Matcher
	cfg           Config
	cache         *reconcile.SnapshotCache
	state         *Tracker
	logger        *zap.Logger
	nowFn         func() time.Time
}

// NewService creates a new tour service.
func NewService(opts Options) *Service {
	s := &Service{
		store:         opts.Store,
		catalog:       opts.Catalog,
		generator:     opts.Generator,
		locker:        opts.Locker,
		archive:       opts.Archive,
		bucket:        opts.Bucket,
		archivePrefix: opts.ArchivePrefix,
		matcher:       opts.Matcher,
		cfg:           opts.Config,
		cache:         reconcile.NewSnapshotCache(opts.Config.snapshotTTL()),
		state:         NewTracker(),
		logger:        opts.Logger,
		nowFn:         time.Now,
	}
	if s.locker == nil {
		s.locker = lock.NewMemoryLocker()
	}
	if s.matcher == nil {
		s.matcher = english.DefaultChain(nil)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// State returns the tracker holding sync, enrichment and audit state.
func (s *Service) State() *Tracker {
	return s.state
}

// Migrate creates or updates the tour tables.
func (s *Service) Migrate(ctx context.Context) error {
	return s.store.Migrate(ctx)
}

// Sync reconciles one category with the catalog. Local records are created
// or have their structural fields updated; nothing is deleted.
func (s *Service) Sync(ctx context.Context, category string, progress reconcile.ProgressFunc) (*reconcile.SyncResult, error) {
	cat, err := models.LookupCategory(category)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, "sync:"+cat.Name, s.cfg.lockTTL())
	if err != nil {
		return nil, fmt.Errorf("sync %s: %w", cat.Name, err)
	}
	defer release()

	s.state.syncStarted(cat.Name)
	s.logger.Info("Category sync started", zap.String("category", cat.Name))

	result, err := reconcile.Sync(ctx, s.spec(cat), s.cache, progress)
	s.state.syncFinished(cat.Name, result, err)
	s.recordSync(cat.Name, result, err)

	if err != nil {
		s.logger.Error("Category sync failed",
			zap.String("category", cat.Name),
			zap.Int("fetched", result.Fetched),
			zap.Int("pages", result.Pages),
			zap.Error(err),
		)
		return result, err
	}

	s.logger.Info("Category sync completed",
		zap.String("category", cat.Name),
		zap.Int("fetched", result.Fetched),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("unchanged", result.Unchanged),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("local_only", result.LocalOnly),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (s *Service) recordSync(category string, result *reconcile.SyncResult, err error) {
	if result != nil {
		metrics.SyncRecords.WithLabelValues(category, "created").Add(float64(result.Created))
		metrics.SyncRecords.WithLabelValues(category, "updated").Add(float64(result.Updated))
		metrics.SyncRecords.WithLabelValues(category, "unchanged").Add(float64(result.Unchanged))
		metrics.SyncRecords.WithLabelValues(category, "duplicate").Add(float64(result.Duplicates))
		metrics.SyncDuration.WithLabelValues(category).Observe(result.Duration.Seconds())
	}
	if err != nil {
		metrics.SyncErrors.WithLabelValues(category).Inc()
	}
}

// CategorySync is the outcome of one category within SyncAll.
type CategorySync struct {
	Category string                `json:"category"`
	Result   *reconcile.SyncResult `json:"result,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// SyncAll syncs every category. A failing category never stops the others.
// parallel bounds concurrent categories; zero uses the configured value.
// With parallel above one, progress may be invoked concurrently.
func (s *Service) SyncAll(ctx context.Context, parallel int, progress reconcile.ProgressFunc) []CategorySync {
	if parallel <= 0 {
		parallel = s.cfg.parallel()
	}

	cats := models.Categories()
	results := make([]CategorySync, len(cats))

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, cat := range cats {
		i, cat := i, cat
		g.Go(func() error {
			result, err := s.Sync(ctx, cat.Name, progress)
			results[i] = CategorySync{Category: cat.Name, Result: result}
			if err != nil {
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// EnrichSummary aggregates a pass over one or more categories.
type EnrichSummary struct {
	Pass       string                            `json:"pass"`
	Updated    int                               `json:"updated"`
	Failed     int                               `json:"failed"`
	NoMatch    int                               `json:"no_match"`
	Categories map[string]*reconcile.EnrichResult `json:"categories"`
	Errors     map[string]string                 `json:"errors,omitempty"`
}

// Enrich runs pass over category, or over every applicable category when
// category is empty or "all". limit caps records per category; zero means
// no cap. Each (pass, category) holds a lock for its duration.
func (s *Service) Enrich(ctx context.Context, pass, category string, limit int, progress reconcile.ProgressFunc) (*EnrichSummary, error) {
	if !lo.Contains(Passes, pass) {
		return nil, fmt.Errorf("%w %q", ErrUnknownPass, pass)
	}

	var cats []models.Category
	if category == "" || category == "all" {
		cats = lo.Filter(models.Categories(), func(c models.Category, _ int) bool { return applies(pass, c) })
	} else {
		cat, err := models.LookupCategory(category)
		if err != nil {
			return nil, err
		}
		if !applies(pass, cat) {
			return nil, fmt.Errorf("%w: %s on %s", ErrPassNotApplicable, pass, cat.Name)
		}
		cats = []models.Category{cat}
	}

	summary := &EnrichSummary{
		Pass:       pass,
		Categories: make(map[string]*reconcile.EnrichResult),
		Errors:     make(map[string]string),
	}

	for _, cat := range cats {
		result, err := s.enrichCategory(ctx, pass, cat, limit, progress)
		if result != nil {
			summary.Categories[cat.Name] = result
			summary.Updated += result.Updated
			summary.Failed += result.Failed
			summary.NoMatch += result.NoMatch
		}
		if err != nil {
			if len(cats) == 1 || ctx.Err() != nil {
				return summary, err
			}
			summary.Errors[cat.Name] = err.Error()
		}
	}

	s.logger.Info("Enrichment pass completed",
		zap.String("pass", pass),
		zap.Int("updated", summary.Updated),
		zap.Int("failed", summary.Failed),
		zap.Int("no_match", summary.NoMatch),
	)
	return summary, nil
}

func (s *Service) enrichCategory(ctx context.Context, pass string, cat models.Category, limit int, progress reconcile.ProgressFunc) (*reconcile.EnrichResult, error) {
	release, err := s.locker.Acquire(ctx, "enrich:"+pass+":"+cat.Name, s.cfg.lockTTL())
	if err != nil {
		return nil, fmt.Errorf("%s pass on %s: %w", pass, cat.Name, err)
	}
	defer release()

	p, err := s.newPass(pass, cat)
	if err != nil {
		return nil, err
	}

	s.state.enrichStarted(pass, cat.Name)
	result, err := reconcile.RunPass(ctx, p, limit, func(current, total int, label string) {
		s.state.enrichProgress(pass, cat.Name, current, total, label)
		if progress != nil {
			progress(current, total, cat.Name+": "+label)
		}
	})
	s.state.enrichFinished(pass, cat.Name, result, err)
	if result != nil {
		metrics.EnrichRecords.WithLabelValues(pass, "updated").Add(float64(result.Updated))
		metrics.EnrichRecords.WithLabelValues(pass, "failed").Add(float64(result.Failed - result.NoMatch))
		metrics.EnrichRecords.WithLabelValues(pass, "no_match").Add(float64(result.NoMatch))
		for _, f := range result.Failures {
			s.logger.Debug("Enrichment failed",
				zap.String("pass", pass),
				zap.String("category", cat.Name),
				zap.String("content_id", f.Key),
				zap.String("title", f.Label),
				zap.String("reason", f.Reason),
			)
		}
	}
	return result, err
}

// FindOrphans lists local records of category that are gone from the catalog.
// The result is kept as the category's current audit.
func (s *Service) FindOrphans(ctx context.Context, category string) ([]reconcile.Orphan, error) {
	cat, err := models.LookupCategory(category)
	if err != nil {
		return nil, err
	}

	orphans, err := reconcile.FindOrphans(ctx, s.spec(cat), s.cache)
	if err != nil {
		return nil, err
	}
	s.state.setAudit(cat.Name, orphans)

	s.logger.Info("Orphan audit completed",
		zap.String("category", cat.Name),
		zap.Int("orphans", len(orphans)),
		zap.Int("enriched", lo.CountBy(orphans, func(o reconcile.Orphan) bool { return o.Enriched })),
	)
	return orphans, nil
}

// DeleteRequest selects orphans for deletion.
type DeleteRequest struct {
	IDs       []string `json:"ids"`
	Confirmed bool     `json:"confirm"`
	DryRun    bool     `json:"dry_run"`
}

type archiveDocument struct {
	Category  string             `json:"category"`
	DeletedAt time.Time          `json:"deleted_at"`
	Orphans   []reconcile.Orphan `json:"orphans"`
}

// DeleteOrphans deletes the selected orphans after operator confirmation.
// Each id is re-checked against a fresh catalog listing; ids present upstream
// are skipped.
// When an archive is configured the orphans are written there first.
func (s *Service) DeleteOrphans(ctx context.Context, category string, req DeleteRequest) (*reconcile.DeleteResult, error) {
	cat, err := models.LookupCategory(category)
	if err != nil {
		return nil, err
	}
	if !req.Confirmed {
		return nil, reconcile.ErrNotConfirmed
	}

	release, err := s.locker.Acquire(ctx, "sync:"+cat.Name, s.cfg.lockTTL())
	if err != nil {
		return nil, fmt.Errorf("delete %s orphans: %w", cat.Name, err)
	}
	defer release()

	opts := reconcile.DeleteOptions{Confirmed: req.Confirmed, DryRun: req.DryRun}
	if s.archive != nil {
		opts.Archive = func(ctx context.Context, orphans []reconcile.Orphan) error {
			now := s.nowFn()
			object := path.Join(s.archivePrefix, cat.Name, fmt.Sprintf("%d.json", now.Unix()))
			return storage.PutJSON(ctx, s.archive, s.bucket, object, archiveDocument{
				Category:  cat.Name,
				DeletedAt: now,
				Orphans:   orphans,
			})
		}
	}

	result, err := reconcile.DeleteOrphans(ctx, s.spec(cat), s.cache, req.IDs, opts)
	if err != nil {
		return nil, err
	}

	if !result.DryRun {
		metrics.OrphansDeleted.WithLabelValues(cat.Name).Add(float64(result.Deleted))
		s.state.forgetOrphans(cat.Name, lo.Without(req.IDs, result.Skipped...))
	}

	s.logger.Info("Orphan delete completed",
		zap.String("category", cat.Name),
		zap.Int("requested", result.Requested),
		zap.Int("deleted", result.Deleted),
		zap.Int("skipped", len(result.Skipped)),
		zap.Bool("dry_run", result.DryRun),
	)
	return result, nil
}

// PickerView is the manual mapping screen of one category.
type PickerView struct {
	Category   string              `json:"category"`
	Unmapped   []english.Candidate `json:"unmapped"`
	Candidates []english.Candidate `json:"candidates"`
}

// EnglishPicker returns the unmapped Korean records and the unreferenced
// English records of category. The lists are built once and then kept until
// refresh is requested.
func (s *Service) EnglishPicker(ctx context.Context, category string, refresh bool) (*PickerView, error) {
	cat, err := models.LookupCategory(category)
	if err != nil {
		return nil, err
	}

	p := s.state.picker(cat.Name)
	if p == nil || refresh {
		p, err = s.buildPicker(ctx, cat)
		if err != nil {
			return nil, err
		}
		s.state.setPicker(cat.Name, p)
	}

	return &PickerView{Category: cat.Name, Unmapped: p.Unmapped(), Candidates: p.Candidates()}, nil
}

func (s *Service) buildPicker(ctx context.Context, cat models.Category) (*english.Picker, error) {
	page, err := s.store.Query(ctx, cat, store.Query{Missing: []string{"content_id_en"}, Sort: "title"})
	if err != nil {
		return nil, err
	}
	unmapped := lo.Map(page.Items, func(r models.Record, _ int) english.Candidate {
		return english.Candidate{ContentID: r.ContentID, Title: r.Title, Addr: r.Addr1}
	})

	candidates, err := s.englishCandidates(ctx, cat)
	if err != nil {
		return nil, err
	}
	referenced, err := s.store.ReferencedEnglishIDs(ctx, cat)
	if err != nil {
		return nil, err
	}

	return english.NewPicker(unmapped, candidates, referenced), nil
}

// MapEnglish links a Korean record to an English catalog record chosen by
// the operator and drops both from the picker's working lists.
func (s *Service) MapEnglish(ctx context.Context, category, contentID, contentIDEn string) error {
	cat, err := models.LookupCategory(category)
	if err != nil {
		return err
	}
	rec, err := s.store.Get(ctx, cat, contentID)
	if err != nil {
		return err
	}

	if rec.ContentIDEn == nil || *rec.ContentIDEn != contentIDEn {
		referenced, err := s.store.ReferencedEnglishIDs(ctx, cat)
		if err != nil {
			return err
		}
		if _, taken := referenced[contentIDEn]; taken {
			return fmt.Errorf("%w: %s in %s", ErrEnglishTaken, contentIDEn, cat.Name)
		}
	}

	if err := s.applyEnglish(ctx, cat, contentID, english.Candidate{ContentID: contentIDEn}); err != nil {
		return fmt.Errorf("map %s %s to %s: %w", cat.Name, contentID, contentIDEn, err)
	}

	if p := s.state.picker(cat.Name); p != nil {
		p.Remove(contentID, contentIDEn)
	}
	s.logger.Info("English mapping saved",
		zap.String("category", cat.Name),
		zap.String("content_id", contentID),
		zap.String("content_id_en", contentIDEn),
	)
	return nil
}

// QueryRecords lists the local records of category.
func (s *Service) QueryRecords(ctx context.Context, category string, q store.Query) (*store.Page, error) {
	cat, err := models.LookupCategory(category)
	if err != nil {
		return nil, err
	}
	return s.store.Query(ctx, cat, q)
}

var (
	editableText = []string{"overview", "homepage", "title_en", "addr_en", "overview_en", "content_id_en", "ai_description"}
	editableJSON = []string{"intro_info", "room_info"}
)

// UpdateRecord applies an operator patch to the enrichment fields of one
// record. A null value clears the field.
func (s *Service) UpdateRecord(ctx context.Context, category, contentID string, patch map[string]any) (*models.Record, error) {
	cat, err := models.LookupCategory(category)
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("%w: empty patch", ErrInvalidField)
	}

	fields := make(map[string]any, len(patch))
	for key, value := range patch {
		switch {
		case lo.Contains(editableText, key):
			if value == nil {
				fields[key] = nil
				continue
			}
			text, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidField, key)
			}
			fields[key] = text
		case lo.Contains(editableJSON, key):
			if value == nil {
				fields[key] = nil
				continue
			}
			raw, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidField, key, err)
			}
			fields[key] = datatypes.JSON(raw)
		default:
			return nil, fmt.Errorf("%w: %s", ErrInvalidField, key)
		}
	}

	if _, err := s.store.Get(ctx, cat, contentID); err != nil {
		return nil, err
	}
	if _, err := s.store.Update(ctx, cat, contentID, fields); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, cat, contentID)
}

// DeleteRecord removes one record. Deleting a record that is already gone
// succeeds and reports false.
func (s *Service) DeleteRecord(ctx context.Context, category, contentID string) (bool, error) {
	cat, err := models.LookupCategory(category)
	if err != nil {
		return false, err
	}
	n, err := s.store.Delete(ctx, cat, []string{contentID})
	if err != nil {
		return false, err
	}
	if n > 0 {
		s.logger.Info("Record deleted", zap.String("category", cat.Name), zap.String("content_id", contentID))
	}
	return n > 0, nil
}
