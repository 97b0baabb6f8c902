package reconcile

import "context"

// maxPages bounds a listing whose upstream never returns a short page.
const maxPages = 10000

// FetchAll pages through spec.Source until a short or empty page and returns
// every item in upstream order together with the number of pages requested.
// Any page failure aborts the whole listing with a *FetchError.
func FetchAll(ctx context.Context, spec *Spec, progress ProgressFunc) ([]SourceItem, int, error) {
	size := spec.pageSize()
	var items []SourceItem
	pages := 0

	for pageNo := 1; pageNo <= maxPages; pageNo++ {
		if err := ctx.Err(); err != nil {
			return items, pages, &FetchError{Category: spec.Category, Page: pageNo, Err: err}
		}

		page, err := spec.Source.FetchPage(ctx, pageNo, size)
		pages++
		if err != nil {
			return items, pages, &FetchError{Category: spec.Category, Page: pageNo, Err: err}
		}

		items = append(items, page.Items...)
		if progress != nil {
			progress(len(items), page.TotalCount, spec.Category)
		}

		if len(page.Items) < size {
			break
		}
	}

	return items, pages, nil
}
