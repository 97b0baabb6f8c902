package checks

import (
	"context"

	"tour-admin/feature/tour/models"
	"tour-admin/feature/tour/tourapi"
)

// Lister lists one catalog page of a category.
type Lister interface {
	List(ctx context.Context, cat models.Category, pageNo, pageSize int) (*tourapi.ListPage, error)
}

// CatalogReport is the reachability of one category's list operation.
type CatalogReport struct {
	Category   string `json:"category"`
	Reachable  bool   `json:"reachable"`
	TotalCount int    `json:"total_count"`
	Error      string `json:"error,omitempty"`
}

// CheckCatalog requests a single-row page of every category. It reports an
// invalid service key or an unreachable gateway before a sync finds it.
func CheckCatalog(ctx context.Context, lister Lister) []CatalogReport {
	reports := make([]CatalogReport, 0, len(models.Categories()))
	for _, cat := range models.Categories() {
		r := CatalogReport{Category: cat.Name}
		page, err := lister.List(ctx, cat, 1, 1)
		if err != nil {
			r.Error = err.Error()
		} else {
			r.Reachable = true
			r.TotalCount = page.TotalCount
		}
		reports = append(reports, r)
	}
	return reports
}
