package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tour-admin/feature/tour/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidQuery is returned for unknown filter or sort columns.
	ErrInvalidQuery = errors.New("invalid query")
)

// deleteChunk bounds the IN list of a single DELETE.
const deleteChunk = 500

// textColumns are enrichment columns where an empty string counts as missing.
var textColumns = map[string]bool{
	"overview": true, "homepage": true, "title_en": true, "addr_en": true,
	"overview_en": true, "content_id_en": true, "ai_description": true,
}

// Store is the local record accessor. Every call is scoped to one category:
// its table and its content type.
type Store struct {
	db *gorm.DB
}

// New creates a store over db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates the tour tables.
func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(models.AllModels()...)
}

func (s *Store) scoped(ctx context.Context, cat models.Category) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(models.Model(cat)).
		Where("content_type_id = ?", cat.ContentTypeID)
}

// Upsert inserts records keyed by (content_type_id, content_id). On conflict
// only the structural columns are rewritten.
func (s *Store) Upsert(ctx context.Context, cat models.Category, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "content_type_id"}, {Name: "content_id"}},
		DoUpdates: clause.AssignmentColumns(models.StructuralColumns(cat)),
	}
	tx := s.db.WithContext(ctx).Clauses(onConflict)

	var err error
	if cat.IsEvent() {
		rows := lo.Map(records, func(r models.Record, _ int) models.TourEvent { return r.Event() })
		err = tx.Create(&rows).Error
	} else {
		rows := lo.Map(records, func(r models.Record, _ int) models.TourSpot { return r.Spot() })
		err = tx.Create(&rows).Error
	}
	if err != nil {
		return fmt.Errorf("upsert %s: %w", cat.Table, err)
	}
	return nil
}

// Update writes a partial field set to one record and returns the number of
// rows changed. Fields not present in the map are untouched.
func (s *Store) Update(ctx context.Context, cat models.Category, contentID string, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	res := s.scoped(ctx, cat).Where("content_id = ?", contentID).Updates(fields)
	if res.Error != nil {
		return 0, fmt.Errorf("update %s %s: %w", cat.Table, contentID, res.Error)
	}
	return res.RowsAffected, nil
}

// Delete removes the records with the given content ids and returns the
// number of rows removed. Ids already gone are ignored.
func (s *Store) Delete(ctx context.Context, cat models.Category, contentIDs []string) (int64, error) {
	var total int64
	for _, chunk := range lo.Chunk(lo.Uniq(contentIDs), deleteChunk) {
		res := s.db.WithContext(ctx).
			Where("content_type_id = ? AND content_id IN ?", cat.ContentTypeID, chunk).
			Delete(models.Model(cat))
		if res.Error != nil {
			return total, fmt.Errorf("delete %s: %w", cat.Table, res.Error)
		}
		total += res.RowsAffected
	}
	return total, nil
}

// Get loads one record by content id.
func (s *Store) Get(ctx context.Context, cat models.Category, contentID string) (*models.Record, error) {
	page, err := s.Query(ctx, cat, Query{ContentIDs: []string{contentID}, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		return nil, fmt.Errorf("%s %s: %w", cat.Name, contentID, ErrNotFound)
	}
	return &page.Items[0], nil
}

// All loads every record of a category.
func (s *Store) All(ctx context.Context, cat models.Category) ([]models.Record, error) {
	page, err := s.Query(ctx, cat, Query{})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Query filters a category.
type Query struct {
	// Search matches a case-insensitive substring of the title.
	Search string
	// ContentIDs restricts to the given ids.
	ContentIDs []string
	// Missing lists enrichment columns that must be empty.
	Missing []string
	// Present lists enrichment columns that must be set.
	Present []string
	// Sort is a column name, prefixed with "-" for descending order.
	Sort string
	// Offset and Limit select a range. A zero Limit means no limit.
	Offset int
	Limit  int
}

// Page is a query result with the total count before ranging.
type Page struct {
	Items []models.Record `json:"items"`
	Count int64           `json:"count"`
}

var sortable = map[string]bool{
	"id": true, "content_id": true, "title": true, "modified_time": true,
	"created_at": true, "updated_at": true, "event_start_date": true,
}

// Query returns the records of a category matching q.
func (s *Store) Query(ctx context.Context, cat models.Category, q Query) (*Page, error) {
	tx := s.scoped(ctx, cat)

	if q.Search != "" {
		tx = tx.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q.Search)+"%")
	}
	if len(q.ContentIDs) > 0 {
		tx = tx.Where("content_id IN ?", q.ContentIDs)
	}
	for _, col := range q.Missing {
		cond, err := missingCondition(col)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(cond)
	}
	for _, col := range q.Present {
		cond, err := missingCondition(col)
		if err != nil {
			return nil, err
		}
		tx = tx.Not(cond)
	}

	tx = tx.Session(&gorm.Session{})

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count %s: %w", cat.Table, err)
	}

	order, err := orderClause(cat, q.Sort)
	if err != nil {
		return nil, err
	}
	tx = tx.Order(order).Offset(q.Offset)
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var items []models.Record
	if cat.IsEvent() {
		var rows []models.TourEvent
		if err := tx.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("query %s: %w", cat.Table, err)
		}
		items = lo.Map(rows, func(r models.TourEvent, _ int) models.Record { return r.Record() })
	} else {
		var rows []models.TourSpot
		if err := tx.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("query %s: %w", cat.Table, err)
		}
		items = lo.Map(rows, func(r models.TourSpot, _ int) models.Record { return r.Record() })
	}

	return &Page{Items: items, Count: count}, nil
}

// ReferencedEnglishIDs returns the English ids already mapped in a category.
func (s *Store) ReferencedEnglishIDs(ctx context.Context, cat models.Category) (map[string]struct{}, error) {
	var ids []string
	err := s.scoped(ctx, cat).
		Where("content_id_en IS NOT NULL AND content_id_en <> ''").
		Pluck("content_id_en", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("referenced english ids: %w", err)
	}
	return lo.SliceToMap(ids, func(id string) (string, struct{}) { return id, struct{}{} }), nil
}

func missingCondition(col string) (string, error) {
	if !lo.Contains(models.EnrichmentColumns, col) {
		return "", fmt.Errorf("%w: unknown enrichment field %q", ErrInvalidQuery, col)
	}
	if textColumns[col] {
		return fmt.Sprintf("(%s IS NULL OR %s = '')", col, col), nil
	}
	return col + " IS NULL", nil
}

func orderClause(cat models.Category, sort string) (string, error) {
	if sort == "" {
		return "id ASC", nil
	}
	dir := "ASC"
	col := sort
	if strings.HasPrefix(sort, "-") {
		dir = "DESC"
		col = sort[1:]
	}
	if !sortable[col] || (col == "event_start_date" && !cat.IsEvent()) {
		return "", fmt.Errorf("%w: cannot sort by %q", ErrInvalidQuery, col)
	}
	return col + " " + dir, nil
}
