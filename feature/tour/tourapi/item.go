package tourapi

import (
	"tour-admin/core/utils"
)

// Item is one catalog record from a list operation.
type Item struct {
	ContentID      string  `json:"contentid"`
	ContentTypeID  int     `json:"contenttypeid"`
	Title          string  `json:"title"`
	Addr1          string  `json:"addr1"`
	Addr2          string  `json:"addr2"`
	ZipCode        string  `json:"zipcode"`
	Tel            string  `json:"tel"`
	MapX           float64 `json:"mapx"`
	MapY           float64 `json:"mapy"`
	FirstImage     string  `json:"firstimage"`
	FirstImage2    string  `json:"firstimage2"`
	AreaCode       string  `json:"areacode"`
	SigunguCode    string  `json:"sigungucode"`
	Cat1           string  `json:"cat1"`
	Cat2           string  `json:"cat2"`
	Cat3           string  `json:"cat3"`
	ModifiedTime   string  `json:"modifiedtime"`
	EventStartDate string  `json:"eventstartdate,omitempty"`
	EventEndDate   string  `json:"eventenddate,omitempty"`
}

// Values arrive as strings or numbers depending on the field and service.
func itemFromMap(m map[string]any) Item {
	return Item{
		ContentID:      utils.ToString(m["contentid"]),
		ContentTypeID:  utils.ToInt(m["contenttypeid"]),
		Title:          utils.ToString(m["title"]),
		Addr1:          utils.ToString(m["addr1"]),
		Addr2:          utils.ToString(m["addr2"]),
		ZipCode:        utils.ToString(m["zipcode"]),
		Tel:            utils.ToString(m["tel"]),
		MapX:           utils.ToFloat(m["mapx"]),
		MapY:           utils.ToFloat(m["mapy"]),
		FirstImage:     utils.ToString(m["firstimage"]),
		FirstImage2:    utils.ToString(m["firstimage2"]),
		AreaCode:       utils.ToString(m["areacode"]),
		SigunguCode:    utils.ToString(m["sigungucode"]),
		Cat1:           utils.ToString(m["cat1"]),
		Cat2:           utils.ToString(m["cat2"]),
		Cat3:           utils.ToString(m["cat3"]),
		ModifiedTime:   utils.ToString(m["modifiedtime"]),
		EventStartDate: utils.ToString(m["eventstartdate"]),
		EventEndDate:   utils.ToString(m["eventenddate"]),
	}
}

// Common is the detailCommon1 payload used by enrichment.
type Common struct {
	ContentID string `json:"contentid"`
	Title     string `json:"title"`
	Addr1     string `json:"addr1"`
	Addr2     string `json:"addr2"`
	Overview  string `json:"overview"`
	Homepage  string `json:"homepage"`
}

func commonFromMap(m map[string]any) Common {
	return Common{
		ContentID: utils.ToString(m["contentid"]),
		Title:     utils.ToString(m["title"]),
		Addr1:     utils.ToString(m["addr1"]),
		Addr2:     utils.ToString(m["addr2"]),
		Overview:  utils.ToString(m["overview"]),
		Homepage:  utils.ToString(m["homepage"]),
	}
}

// ListPage is one page of a list operation.
type ListPage struct {
	Items      []Item
	TotalCount int
}
