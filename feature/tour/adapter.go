package tour

import (
	"context"
	"fmt"

	"tour-admin/core/reconcile"
	"tour-admin/feature/tour/models"
	"tour-admin/feature/tour/store"
	"tour-admin/feature/tour/tourapi"
)

// Catalog is the subset of the TourAPI client used by the service.
type Catalog interface {
	List(ctx context.Context, cat models.Category, pageNo, pageSize int) (*tourapi.ListPage, error)
	ListEnglish(ctx context.Context, cat models.Category, pageNo, pageSize int) (*tourapi.ListPage, error)
	DetailCommon(ctx context.Context, contentID string, contentTypeID int) (*tourapi.Common, error)
	DetailCommonEnglish(ctx context.Context, contentID string, contentTypeID int) (*tourapi.Common, error)
	DetailIntro(ctx context.Context, contentID string, contentTypeID int) (map[string]any, error)
	DetailRooms(ctx context.Context, contentID string, contentTypeID int) ([]map[string]any, error)
}

// catalogSource pages one category of the Korean or English catalog.
type catalogSource struct {
	catalog Catalog
	cat     models.Category
	english bool
}

func (s *catalogSource) FetchPage(ctx context.Context, pageNo, pageSize int) (reconcile.Page, error) {
	var (
		page *tourapi.ListPage
		err  error
	)
	if s.english {
		page, err = s.catalog.ListEnglish(ctx, s.cat, pageNo, pageSize)
	} else {
		page, err = s.catalog.List(ctx, s.cat, pageNo, pageSize)
	}
	if err != nil {
		return reconcile.Page{}, err
	}

	items := make([]reconcile.SourceItem, len(page.Items))
	for i, item := range page.Items {
		items[i] = item
	}
	return reconcile.Page{Items: items, TotalCount: page.TotalCount}, nil
}

// recordStore exposes one category of the local store to the reconciler.
type recordStore struct {
	store *store.Store
	cat   models.Category
}

func (s *recordStore) LoadIndex(ctx context.Context) (map[string]reconcile.LocalItem, error) {
	records, err := s.store.All(ctx, s.cat)
	if err != nil {
		return nil, err
	}
	index := make(map[string]reconcile.LocalItem, len(records))
	for _, r := range records {
		index[r.ContentID] = r
	}
	return index, nil
}

func (s *recordStore) Upsert(ctx context.Context, item reconcile.SourceItem) error {
	return s.store.Upsert(ctx, s.cat, []models.Record{recordFromItem(s.cat, item.(tourapi.Item))})
}

func (s *recordStore) DeleteKeys(ctx context.Context, keys []string) (int, error) {
	n, err := s.store.Delete(ctx, s.cat, keys)
	return int(n), err
}

// recordAdapter keys catalog items and local records by content id.
type recordAdapter struct {
	cat models.Category
}

func (a recordAdapter) SourceKey(item reconcile.SourceItem) string {
	return item.(tourapi.Item).ContentID
}

func (a recordAdapter) LocalKey(item reconcile.LocalItem) string {
	return item.(models.Record).ContentID
}

func (a recordAdapter) Label(item reconcile.LocalItem) string {
	return item.(models.Record).Title
}

func (a recordAdapter) HasEnrichment(item reconcile.LocalItem) bool {
	return item.(models.Record).Enrichment.HasAny()
}

func (a recordAdapter) CompareFields(src reconcile.SourceItem, local reconcile.LocalItem) []string {
	want := recordFromItem(a.cat, src.(tourapi.Item))
	got := local.(models.Record)

	var mismatches []string
	diff := func(label string, s, l any) {
		if s != l {
			mismatches = append(mismatches, fmt.Sprintf("%s: src=%v local=%v", label, s, l))
		}
	}

	diff("title", want.Title, got.Title)
	diff("addr1", want.Addr1, got.Addr1)
	diff("addr2", want.Addr2, got.Addr2)
	diff("zipcode", want.ZipCode, got.ZipCode)
	diff("tel", want.Tel, got.Tel)
	diff("mapx", want.MapX, got.MapX)
	diff("mapy", want.MapY, got.MapY)
	diff("first_image", want.FirstImage, got.FirstImage)
	diff("first_image2", want.FirstImage2, got.FirstImage2)
	diff("area_code", want.AreaCode, got.AreaCode)
	diff("sigungu_code", want.SigunguCode, got.SigunguCode)
	diff("cat1", want.Cat1, got.Cat1)
	diff("cat2", want.Cat2, got.Cat2)
	diff("cat3", want.Cat3, got.Cat3)
	diff("modified_time", want.ModifiedTime, got.ModifiedTime)
	if a.cat.IsEvent() {
		diff("event_start_date", want.EventStartDate, got.EventStartDate)
		diff("event_end_date", want.EventEndDate, got.EventEndDate)
	}

	return mismatches
}

// recordFromItem maps a catalog item onto the structural fields of a record.
func recordFromItem(cat models.Category, item tourapi.Item) models.Record {
	r := models.Record{
		ContentID:     item.ContentID,
		ContentTypeID: cat.ContentTypeID,
		Structural: models.Structural{
			Title:        item.Title,
			Addr1:        item.Addr1,
			Addr2:        item.Addr2,
			ZipCode:      item.ZipCode,
			Tel:          item.Tel,
			MapX:         item.MapX,
			MapY:         item.MapY,
			FirstImage:   item.FirstImage,
			FirstImage2:  item.FirstImage2,
			AreaCode:     item.AreaCode,
			SigunguCode:  item.SigunguCode,
			Cat1:         item.Cat1,
			Cat2:         item.Cat2,
			Cat3:         item.Cat3,
			ModifiedTime: item.ModifiedTime,
		},
	}
	if cat.IsEvent() {
		r.EventStartDate = item.EventStartDate
		r.EventEndDate = item.EventEndDate
	}
	return r
}

func (s *Service) spec(cat models.Category) *reconcile.Spec {
	return &reconcile.Spec{
		Category: cat.Name,
		Source:   &catalogSource{catalog: s.catalog, cat: cat},
		Store:    &recordStore{store: s.store, cat: cat},
		Adapter:  recordAdapter{cat: cat},
		PageSize: s.cfg.PageSize,
	}
}

func (s *Service) englishSpec(cat models.Category) *reconcile.Spec {
	return &reconcile.Spec{
		Category: cat.Name + ":en",
		Source:   &catalogSource{catalog: s.catalog, cat: cat, english: true},
		Adapter:  recordAdapter{cat: cat},
		PageSize: s.cfg.PageSize,
	}
}
