package models

import (
	"time"

	"gorm.io/datatypes"
)

// Local tables.
const (
	TableSpots  = "tour_spots"
	TableEvents = "tour_events"
)

// Structural holds the fields supplied by the catalog listing. Sync rewrites
// these and nothing else.
type Structural struct {
	Title        string  `gorm:"column:title;size:255;not null" json:"title"`
	Addr1        string  `gorm:"column:addr1;size:255" json:"addr1"`
	Addr2        string  `gorm:"column:addr2;size:255" json:"addr2"`
	ZipCode      string  `gorm:"column:zipcode;size:10" json:"zipcode"`
	Tel          string  `gorm:"column:tel;size:100" json:"tel"`
	MapX         float64 `gorm:"column:mapx" json:"mapx"`
	MapY         float64 `gorm:"column:mapy" json:"mapy"`
	FirstImage   string  `gorm:"column:first_image;size:500" json:"first_image"`
	FirstImage2  string  `gorm:"column:first_image2;size:500" json:"first_image2"`
	AreaCode     string  `gorm:"column:area_code;size:10" json:"area_code"`
	SigunguCode  string  `gorm:"column:sigungu_code;size:10" json:"sigungu_code"`
	Cat1         string  `gorm:"column:cat1;size:10" json:"cat1"`
	Cat2         string  `gorm:"column:cat2;size:10" json:"cat2"`
	Cat3         string  `gorm:"column:cat3;size:20" json:"cat3"`
	ModifiedTime string  `gorm:"column:modified_time;size:14" json:"modified_time"`
}

// Enrichment holds fields filled by enrichment passes or by hand.
// Sync never writes them.
type Enrichment struct {
	Overview      *string        `gorm:"column:overview;type:text" json:"overview"`
	Homepage      *string        `gorm:"column:homepage;type:text" json:"homepage"`
	IntroInfo     datatypes.JSON `gorm:"column:intro_info" json:"intro_info"`
	RoomInfo      datatypes.JSON `gorm:"column:room_info" json:"room_info"` // lodging only
	TitleEn       *string        `gorm:"column:title_en;size:255" json:"title_en"`
	AddrEn        *string        `gorm:"column:addr_en;size:255" json:"addr_en"`
	OverviewEn    *string        `gorm:"column:overview_en;type:text" json:"overview_en"`
	ContentIDEn   *string        `gorm:"column:content_id_en;size:20;index" json:"content_id_en"`
	AIDescription *string        `gorm:"column:ai_description;type:text" json:"ai_description"`
	AIGeneratedAt *time.Time     `gorm:"column:ai_generated_at" json:"ai_generated_at"`
}

// HasAny reports whether any enrichment field is set.
func (e Enrichment) HasAny() bool {
	return e.Overview != nil || e.Homepage != nil || len(e.IntroInfo) > 0 || len(e.RoomInfo) > 0 ||
		e.TitleEn != nil || e.AddrEn != nil || e.OverviewEn != nil || e.ContentIDEn != nil ||
		e.AIDescription != nil
}

// TourSpot is a non-event record (spots, culture, leisure, lodging, shopping, food).
type TourSpot struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ContentID     string `gorm:"column:content_id;size:20;not null;uniqueIndex:idx_tour_spots_type_content,priority:2" json:"content_id"`
	ContentTypeID int    `gorm:"column:content_type_id;not null;uniqueIndex:idx_tour_spots_type_content,priority:1" json:"content_type_id"`
	Structural
	Enrichment
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name.
func (TourSpot) TableName() string {
	return TableSpots
}

// TourEvent is an event/festival record.
type TourEvent struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ContentID      string `gorm:"column:content_id;size:20;not null;uniqueIndex:idx_tour_events_type_content,priority:2" json:"content_id"`
	ContentTypeID  int    `gorm:"column:content_type_id;not null;uniqueIndex:idx_tour_events_type_content,priority:1" json:"content_type_id"`
	EventStartDate string `gorm:"column:event_start_date;size:8;index" json:"event_start_date"`
	EventEndDate   string `gorm:"column:event_end_date;size:8" json:"event_end_date"`
	Structural
	Enrichment
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name.
func (TourEvent) TableName() string {
	return TableEvents
}

// Record is the table-independent view of a stored row.
type Record struct {
	ID             uint   `json:"id"`
	ContentID      string `json:"content_id"`
	ContentTypeID  int    `json:"content_type_id"`
	EventStartDate string `json:"event_start_date,omitempty"`
	EventEndDate   string `json:"event_end_date,omitempty"`
	Structural
	Enrichment
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record returns the table-independent view.
func (s TourSpot) Record() Record {
	return Record{
		ID:            s.ID,
		ContentID:     s.ContentID,
		ContentTypeID: s.ContentTypeID,
		Structural:    s.Structural,
		Enrichment:    s.Enrichment,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// Record returns the table-independent view.
func (e TourEvent) Record() Record {
	return Record{
		ID:             e.ID,
		ContentID:      e.ContentID,
		ContentTypeID:  e.ContentTypeID,
		EventStartDate: e.EventStartDate,
		EventEndDate:   e.EventEndDate,
		Structural:     e.Structural,
		Enrichment:     e.Enrichment,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// Spot converts r into a tour_spots row.
func (r Record) Spot() TourSpot {
	return TourSpot{
		ID:            r.ID,
		ContentID:     r.ContentID,
		ContentTypeID: r.ContentTypeID,
		Structural:    r.Structural,
		Enrichment:    r.Enrichment,
	}
}

// Event converts r into a tour_events row.
func (r Record) Event() TourEvent {
	return TourEvent{
		ID:             r.ID,
		ContentID:      r.ContentID,
		ContentTypeID:  r.ContentTypeID,
		EventStartDate: r.EventStartDate,
		EventEndDate:   r.EventEndDate,
		Structural:     r.Structural,
		Enrichment:     r.Enrichment,
	}
}

// Model returns an empty gorm model for the table of category c.
func Model(c Category) any {
	if c.IsEvent() {
		return &TourEvent{}
	}
	return &TourSpot{}
}

// StructuralColumns lists the columns sync may rewrite for category c.
func StructuralColumns(c Category) []string {
	cols := []string{
		"title", "addr1", "addr2", "zipcode", "tel", "mapx", "mapy",
		"first_image", "first_image2", "area_code", "sigungu_code",
		"cat1", "cat2", "cat3", "modified_time",
	}
	if c.IsEvent() {
		cols = append(cols, "event_start_date", "event_end_date")
	}
	return append(cols, "updated_at")
}

// EnrichmentColumns lists the columns an operator may edit by hand.
var EnrichmentColumns = []string{
	"overview", "homepage", "intro_info", "room_info",
	"title_en", "addr_en", "overview_en", "content_id_en",
	"ai_description", "ai_generated_at",
}

// AllModels returns every table model for migration.
func AllModels() []any {
	return []any{&TourSpot{}, &TourEvent{}}
}
