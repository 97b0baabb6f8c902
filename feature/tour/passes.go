package tour

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tour-admin/core/reconcile"
	"tour-admin/core/utils"
	"tour-admin/feature/tour/ai"
	"tour-admin/feature/tour/english"
	"tour-admin/feature/tour/models"
	"tour-admin/feature/tour/store"
	"tour-admin/feature/tour/tourapi"

	"github.com/samber/lo"
	"gorm.io/datatypes"
)

// Enrichment passes.
const (
	PassOverview = "overview"
	PassIntro    = "intro"
	PassRooms    = "rooms"
	PassEnglish  = "english"
	PassAI       = "ai"
)

// Passes lists every enrichment pass in the order an operator runs them.
var Passes = []string{PassOverview, PassIntro, PassRooms, PassEnglish, PassAI}

var (
	// ErrUnknownPass is returned for pass names outside Passes.
	ErrUnknownPass = errors.New("unknown enrichment pass")
	// ErrPassNotApplicable is returned when a pass does not apply to a category.
	ErrPassNotApplicable = errors.New("pass does not apply to category")
)

// fieldPass fills one field group for records selected by a missing-field query.
type fieldPass struct {
	name    string
	cat     models.Category
	store   *store.Store
	missing []string
	present []string
	// prepare runs once before the first record, only if any were selected.
	prepare func(ctx context.Context) error
	enrich  func(ctx context.Context, r models.Record) error
}

func (p *fieldPass) Name() string { return p.name }

func (p *fieldPass) Select(ctx context.Context, limit int) ([]reconcile.Target, error) {
	page, err := p.store.Query(ctx, p.cat, store.Query{
		Missing: p.missing,
		Present: p.present,
		Sort:    "id",
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	if len(page.Items) > 0 && p.prepare != nil {
		if err := p.prepare(ctx); err != nil {
			return nil, err
		}
	}
	return lo.Map(page.Items, func(r models.Record, _ int) reconcile.Target {
		return reconcile.Target{Key: r.ContentID, Label: r.Title, Item: r}
	}), nil
}

func (p *fieldPass) Enrich(ctx context.Context, t reconcile.Target) error {
	return p.enrich(ctx, t.Item.(models.Record))
}

func applies(pass string, cat models.Category) bool {
	return pass != PassRooms || cat.HasRooms()
}

// newPass builds the pass named name over category cat.
func (s *Service) newPass(name string, cat models.Category) (reconcile.Pass, error) {
	if !applies(name, cat) {
		return nil, fmt.Errorf("%w: %s on %s", ErrPassNotApplicable, name, cat.Name)
	}

	p := &fieldPass{name: name, cat: cat, store: s.store}
	switch name {
	case PassOverview:
		p.missing = []string{"overview"}
		p.enrich = func(ctx context.Context, r models.Record) error {
			return s.enrichOverview(ctx, cat, r)
		}
	case PassIntro:
		p.missing = []string{"intro_info"}
		p.enrich = func(ctx context.Context, r models.Record) error {
			intro, err := s.catalog.DetailIntro(ctx, r.ContentID, cat.ContentTypeID)
			if err != nil {
				return err
			}
			return s.updateJSON(ctx, cat, r.ContentID, "intro_info", intro)
		}
	case PassRooms:
		p.missing = []string{"room_info"}
		p.enrich = func(ctx context.Context, r models.Record) error {
			rooms, err := s.catalog.DetailRooms(ctx, r.ContentID, cat.ContentTypeID)
			if err != nil {
				return err
			}
			return s.updateJSON(ctx, cat, r.ContentID, "room_info", rooms)
		}
	case PassEnglish:
		return s.newEnglishPass(cat), nil
	case PassAI:
		if s.generator == nil {
			return nil, ai.ErrDisabled
		}
		p.missing = []string{"ai_description"}
		p.present = []string{"overview"}
		p.enrich = func(ctx context.Context, r models.Record) error {
			text, err := s.generator.Describe(ctx, ai.Input{
				Title:    r.Title,
				Category: cat.Label,
				Addr:     r.Addr1,
				Overview: utils.Deref(r.Overview),
			})
			if err != nil {
				return err
			}
			_, err = s.store.Update(ctx, cat, r.ContentID, map[string]any{
				"ai_description":  text,
				"ai_generated_at": s.nowFn(),
			})
			return err
		}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownPass, name)
	}
	return p, nil
}

func (s *Service) enrichOverview(ctx context.Context, cat models.Category, r models.Record) error {
	common, err := s.catalog.DetailCommon(ctx, r.ContentID, cat.ContentTypeID)
	if err != nil {
		return err
	}
	overview := strings.TrimSpace(common.Overview)
	if overview == "" {
		return errors.New("catalog has no overview")
	}

	fields := map[string]any{"overview": overview}
	if hp := strings.TrimSpace(common.Homepage); hp != "" && utils.IsBlank(r.Homepage) {
		fields["homepage"] = hp
	}
	_, err = s.store.Update(ctx, cat, r.ContentID, fields)
	return err
}

func (s *Service) updateJSON(ctx context.Context, cat models.Category, contentID, column string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", column, err)
	}
	_, err = s.store.Update(ctx, cat, contentID, map[string]any{column: datatypes.JSON(raw)})
	return err
}

// newEnglishPass matches records without an English id against the English
// catalog of the mapped category.
func (s *Service) newEnglishPass(cat models.Category) reconcile.Pass {
	var free []english.Candidate

	return &fieldPass{
		name:    PassEnglish,
		cat:     cat,
		store:   s.store,
		missing: []string{"content_id_en"},
		prepare: func(ctx context.Context) error {
			candidates, err := s.englishCandidates(ctx, cat)
			if err != nil {
				return err
			}
			referenced, err := s.store.ReferencedEnglishIDs(ctx, cat)
			if err != nil {
				return err
			}
			free = lo.Filter(candidates, func(c english.Candidate, _ int) bool {
				_, used := referenced[c.ContentID]
				return !used
			})
			return nil
		},
		enrich: func(ctx context.Context, r models.Record) error {
			ko := english.Candidate{ContentID: r.ContentID, Title: r.Title, Addr: r.Addr1}
			found, ok := s.matcher.Match(ko, free)
			if !ok {
				return fmt.Errorf("%s: %w", r.Title, reconcile.ErrMatchNotFound)
			}
			if err := s.applyEnglish(ctx, cat, r.ContentID, found); err != nil {
				return err
			}
			free = lo.Reject(free, func(c english.Candidate, _ int) bool { return c.ContentID == found.ContentID })
			return nil
		},
	}
}

// englishCandidates lists the English catalog of the category mapped from cat.
func (s *Service) englishCandidates(ctx context.Context, cat models.Category) ([]english.Candidate, error) {
	spec := s.englishSpec(cat)
	items, _, err := reconcile.FetchAll(ctx, spec, nil)
	if err != nil {
		return nil, err
	}
	return lo.Map(reconcile.Dedupe(items, spec.Adapter), func(item reconcile.SourceItem, _ int) english.Candidate {
		it := item.(tourapi.Item)
		return english.Candidate{ContentID: it.ContentID, Title: it.Title, Addr: it.Addr1}
	}), nil
}

// applyEnglish writes the English cross-reference fields of one record.
func (s *Service) applyEnglish(ctx context.Context, cat models.Category, contentID string, en english.Candidate) error {
	detail, err := s.catalog.DetailCommonEnglish(ctx, en.ContentID, cat.EnglishTypeID)
	if err != nil {
		return err
	}

	title := strings.TrimSpace(detail.Title)
	if title == "" {
		title = en.Title
	}
	fields := map[string]any{
		"content_id_en": en.ContentID,
		"title_en":      title,
	}
	if addr := strings.TrimSpace(detail.Addr1 + " " + detail.Addr2); addr != "" {
		fields["addr_en"] = addr
	}
	if overview := strings.TrimSpace(detail.Overview); overview != "" {
		fields["overview_en"] = overview
	}

	_, err = s.store.Update(ctx, cat, contentID, fields)
	return err
}
