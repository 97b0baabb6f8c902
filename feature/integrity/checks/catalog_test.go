package checks

import (
	"context"
	"testing"

	"tour-admin/feature/tour/models"
	"tour-admin/feature/tour/tourapi"

	"github.com/stretchr/testify/assert"
)

type stubLister struct {
	fail string
}

func (s stubLister) List(_ context.Context, cat models.Category, _, _ int) (*tourapi.ListPage, error) {
	if cat.Name == s.fail {
		return nil, &tourapi.APIError{Code: "30", Message: "SERVICE_KEY_IS_NOT_REGISTERED_ERROR"}
	}
	return &tourapi.ListPage{TotalCount: cat.ContentTypeID * 10}, nil
}

func TestCheckCatalog(t *testing.T) {
	reports := CheckCatalog(context.Background(), stubLister{fail: "event"})
	assert.Len(t, reports, len(models.Categories()))

	for _, r := range reports {
		if r.Category == "event" {
			assert.False(t, r.Reachable)
			assert.Contains(t, r.Error, "SERVICE_KEY_IS_NOT_REGISTERED_ERROR")
			continue
		}
		assert.True(t, r.Reachable)
		assert.NotZero(t, r.TotalCount)
	}
}
