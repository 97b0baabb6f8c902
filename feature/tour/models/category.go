package models

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCategory is returned for names outside the closed category set.
var ErrUnknownCategory = errors.New("unknown category")

// TourAPI list operations.
const (
	OpAreaBasedList  = "areaBasedList1"
	OpSearchFestival = "searchFestival1"
)

// Category describes one TourAPI content type and where its records live.
type Category struct {
	// Name is the stable identifier used in URLs and CLI arguments.
	Name string `json:"name"`
	// Label is the Korean display name.
	Label string `json:"label"`
	// ContentTypeID is the KorService content type.
	ContentTypeID int `json:"content_type_id"`
	// EnglishTypeID is the matching EngService content type.
	EnglishTypeID int `json:"english_type_id"`
	// Table is the local table holding the records.
	Table string `json:"table"`
	// ListOperation is the TourAPI operation used to page the catalog.
	ListOperation string `json:"list_operation"`
}

// IsEvent reports whether records of this category live in the events table.
func (c Category) IsEvent() bool {
	return c.Table == TableEvents
}

// HasRooms reports whether the rooms pass applies.
func (c Category) HasRooms() bool {
	return c.ContentTypeID == 32
}

var categories = []Category{
	{Name: "spot", Label: "관광지", ContentTypeID: 12, EnglishTypeID: 76, Table: TableSpots, ListOperation: OpAreaBasedList},
	{Name: "cultural", Label: "문화시설", ContentTypeID: 14, EnglishTypeID: 78, Table: TableSpots, ListOperation: OpAreaBasedList},
	{Name: "event", Label: "행사/공연/축제", ContentTypeID: 15, EnglishTypeID: 85, Table: TableEvents, ListOperation: OpSearchFestival},
	{Name: "leisure", Label: "레포츠", ContentTypeID: 28, EnglishTypeID: 75, Table: TableSpots, ListOperation: OpAreaBasedList},
	{Name: "lodging", Label: "숙박", ContentTypeID: 32, EnglishTypeID: 80, Table: TableSpots, ListOperation: OpAreaBasedList},
	{Name: "shopping", Label: "쇼핑", ContentTypeID: 38, EnglishTypeID: 79, Table: TableSpots, ListOperation: OpAreaBasedList},
	{Name: "restaurant", Label: "음식점", ContentTypeID: 39, EnglishTypeID: 82, Table: TableSpots, ListOperation: OpAreaBasedList},
}

// Categories returns every category ordered by content type id.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	sort.Slice(out, func(i, j int) bool { return out[i].ContentTypeID < out[j].ContentTypeID })
	return out
}

// CategoryNames returns the names of every category.
func CategoryNames() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

// LookupCategory resolves a category by name.
func LookupCategory(name string) (Category, error) {
	for _, c := range categories {
		if c.Name == name {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w %q", ErrUnknownCategory, name)
}

// CategoryByContentType resolves a category by its KorService content type id.
func CategoryByContentType(id int) (Category, bool) {
	for _, c := range categories {
		if c.ContentTypeID == id {
			return c, true
		}
	}
	return Category{}, false
}
