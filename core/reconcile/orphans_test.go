package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orphanFixture() (*fakeSource, *fakeStore) {
	src := &fakeSource{pages: [][]SourceItem{{
		record{ID: "1", Title: "one"},
		record{ID: "2", Title: "two"},
	}}}
	store := newFakeStore(
		&record{ID: "1", Title: "one"},
		&record{ID: "2", Title: "two"},
		&record{ID: "7", Title: "closed gallery", Overview: "curated notes"},
		&record{ID: "8", Title: "old market"},
	)
	return src, store
}

func TestFindOrphans(t *testing.T) {
	src, store := orphanFixture()

	orphans, err := FindOrphans(context.Background(), newSpec(src, store), nil)
	require.NoError(t, err)

	require.Len(t, orphans, 2)
	assert.Equal(t, "7", orphans[0].Key)
	assert.Equal(t, "closed gallery", orphans[0].Label)
	assert.True(t, orphans[0].Enriched)
	assert.Equal(t, "8", orphans[1].Key)
	assert.False(t, orphans[1].Enriched)

	assert.Len(t, store.rows, 4)
}

func TestFindOrphans_FetchErrorReturnsNothing(t *testing.T) {
	src, store := orphanFixture()
	src.failAt = 1

	orphans, err := FindOrphans(context.Background(), newSpec(src, store), nil)
	require.Error(t, err)
	assert.Nil(t, orphans)
}

func TestFindOrphans_EmptyWhenInSync(t *testing.T) {
	src := &fakeSource{pages: [][]SourceItem{{record{ID: "1", Title: "one"}}}}
	store := newFakeStore(&record{ID: "1", Title: "one"})

	orphans, err := FindOrphans(context.Background(), newSpec(src, store), nil)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestDeleteOrphans_RequiresConfirmation(t *testing.T) {
	src, store := orphanFixture()

	_, err := DeleteOrphans(context.Background(), newSpec(src, store), nil, []string{"7"}, DeleteOptions{})
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Len(t, store.rows, 4)
	assert.Equal(t, 0, src.calls)
}

func TestDeleteOrphans_DryRun(t *testing.T) {
	src, store := orphanFixture()

	result, err := DeleteOrphans(context.Background(), newSpec(src, store), nil, []string{"7", "8"}, DeleteOptions{
		Confirmed: true,
		DryRun:    true,
	})
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 0, result.Deleted)
	assert.Len(t, store.rows, 4)
}

func TestDeleteOrphans_SkipsRecordsPresentUpstream(t *testing.T) {
	src, store := orphanFixture()

	result, err := DeleteOrphans(context.Background(), newSpec(src, store), nil, []string{"1", "7", "404"}, DeleteOptions{
		Confirmed: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Requested)
	assert.Equal(t, 1, result.Deleted)
	assert.ElementsMatch(t, []string{"1", "404"}, result.Skipped)
	assert.Contains(t, store.rows, "1")
	assert.NotContains(t, store.rows, "7")
	assert.Contains(t, store.rows, "8")
}

func TestDeleteOrphans_ArchivesBeforeDelete(t *testing.T) {
	src, store := orphanFixture()
	var archived []Orphan

	result, err := DeleteOrphans(context.Background(), newSpec(src, store), nil, []string{"7", "7"}, DeleteOptions{
		Confirmed: true,
		Archive: func(_ context.Context, orphans []Orphan) error {
			assert.Contains(t, store.rows, "7")
			archived = orphans
			return nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Deleted)
	require.Len(t, archived, 1)
	assert.Equal(t, "7", archived[0].Key)
	assert.True(t, archived[0].Enriched)
}

func TestDeleteOrphans_ArchiveErrorAborts(t *testing.T) {
	src, store := orphanFixture()

	_, err := DeleteOrphans(context.Background(), newSpec(src, store), nil, []string{"7"}, DeleteOptions{
		Confirmed: true,
		Archive: func(context.Context, []Orphan) error {
			return errors.New("bucket unavailable")
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket unavailable")
	assert.Contains(t, store.rows, "7")
}

func TestDeleteOrphans_AlreadyDeletedIsNoop(t *testing.T) {
	src, store := orphanFixture()
	spec := newSpec(src, store)
	opts := DeleteOptions{Confirmed: true}

	first, err := DeleteOrphans(context.Background(), spec, nil, []string{"8"}, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Deleted)

	second, err := DeleteOrphans(context.Background(), spec, nil, []string{"8"}, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Deleted)
	assert.Equal(t, []string{"8"}, second.Skipped)
}

func TestDeleteOrphans_RelistsDespiteCachedSnapshot(t *testing.T) {
	src := &fakeSource{pages: [][]SourceItem{{record{ID: "1", Title: "one"}}}}
	store := newFakeStore(
		&record{ID: "1", Title: "one"},
		&record{ID: "2", Title: "two"},
	)
	spec := newSpec(src, store)
	cache := NewSnapshotCache(time.Hour)

	orphans, err := FindOrphans(context.Background(), spec, cache)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "2", orphans[0].Key)

	// "2" is listed again before the operator confirms.
	src.pages = [][]SourceItem{{record{ID: "1", Title: "one"}, record{ID: "2", Title: "two"}}}

	result, err := DeleteOrphans(context.Background(), spec, cache, []string{"2"}, DeleteOptions{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Deleted)
	assert.Equal(t, []string{"2"}, result.Skipped)
	assert.Contains(t, store.rows, "2")

	snap, err := cache.Get(context.Background(), spec)
	require.NoError(t, err)
	assert.True(t, snap.Has("2"))
}

func TestDeleteOrphans_FetchErrorDeletesNothing(t *testing.T) {
	src, store := orphanFixture()
	spec := newSpec(src, store)
	cache := NewSnapshotCache(time.Hour)

	_, err := FindOrphans(context.Background(), spec, cache)
	require.NoError(t, err)

	src.failAt = 1
	_, err = DeleteOrphans(context.Background(), spec, cache, []string{"7"}, DeleteOptions{Confirmed: true})
	require.Error(t, err)
	assert.Contains(t, store.rows, "7")
}
