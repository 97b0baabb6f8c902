package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record is the test item used on both sides.
type record struct {
	ID       string
	Title    string
	Overview string
}

// fakeSource serves pre-built pages and counts requests.
type fakeSource struct {
	pages  [][]SourceItem
	failAt int
	calls  int
}

func (s *fakeSource) FetchPage(_ context.Context, pageNo, _ int) (Page, error) {
	s.calls++
	if s.failAt == pageNo {
		return Page{}, errors.New("upstream unavailable")
	}
	if pageNo > len(s.pages) {
		return Page{}, nil
	}
	return Page{Items: s.pages[pageNo-1]}, nil
}

// fakeStore keeps records in memory and writes only structural fields on update.
type fakeStore struct {
	rows    map[string]*record
	upserts int
	loadErr error
	failKey string
}

func newFakeStore(rows ...*record) *fakeStore {
	s := &fakeStore{rows: make(map[string]*record)}
	for _, r := range rows {
		s.rows[r.ID] = r
	}
	return s
}

func (s *fakeStore) LoadIndex(context.Context) (map[string]LocalItem, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	index := make(map[string]LocalItem, len(s.rows))
	for k, v := range s.rows {
		copied := *v
		index[k] = &copied
	}
	return index, nil
}

func (s *fakeStore) Upsert(_ context.Context, item SourceItem) error {
	src := item.(record)
	if src.ID == s.failKey {
		return errors.New("constraint violation")
	}
	s.upserts++
	if existing, ok := s.rows[src.ID]; ok {
		existing.Title = src.Title
		return nil
	}
	s.rows[src.ID] = &record{ID: src.ID, Title: src.Title}
	return nil
}

func (s *fakeStore) DeleteKeys(_ context.Context, keys []string) (int, error) {
	n := 0
	for _, k := range keys {
		if _, ok := s.rows[k]; ok {
			delete(s.rows, k)
			n++
		}
	}
	return n, nil
}

type fakeAdapter struct{}

func (fakeAdapter) SourceKey(item SourceItem) string { return item.(record).ID }
func (fakeAdapter) LocalKey(item LocalItem) string   { return item.(*record).ID }
func (fakeAdapter) Label(item LocalItem) string      { return item.(*record).Title }

func (fakeAdapter) CompareFields(src SourceItem, local LocalItem) []string {
	s, l := src.(record), local.(*record)
	if s.Title != l.Title {
		return []string{fmt.Sprintf("title: src=%s local=%s", s.Title, l.Title)}
	}
	return nil
}

func (fakeAdapter) HasEnrichment(item LocalItem) bool { return item.(*record).Overview != "" }

func makePage(start, n int) []SourceItem {
	items := make([]SourceItem, n)
	for i := range items {
		id := fmt.Sprintf("%d", start+i)
		items[i] = record{ID: id, Title: "title " + id}
	}
	return items
}

func newSpec(src *fakeSource, store *fakeStore) *Spec {
	return &Spec{
		Category: "spot",
		Source:   src,
		Store:    store,
		Adapter:  fakeAdapter{},
		PageSize: 100,
	}
}

func TestSync_PagesUntilShortPage(t *testing.T) {
	src := &fakeSource{pages: [][]SourceItem{makePage(0, 100), makePage(100, 100), makePage(200, 50)}}
	store := newFakeStore()

	result, err := Sync(context.Background(), newSpec(src, store), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, src.calls)
	assert.Equal(t, 3, result.Pages)
	assert.Equal(t, 250, result.Fetched)
	assert.Equal(t, 250, result.Created)
	assert.Equal(t, 250, store.upserts)
	assert.Len(t, store.rows, 250)
}

func TestSync_EmptyPageEndsListing(t *testing.T) {
	src := &fakeSource{pages: [][]SourceItem{makePage(0, 100)}}
	store := newFakeStore()

	result, err := Sync(context.Background(), newSpec(src, store), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, src.calls)
	assert.Equal(t, 100, result.Created)
}

func TestSync_SecondRunIsNoop(t *testing.T) {
	src := &fakeSource{pages: [][]SourceItem{makePage(0, 30)}}
	store := newFakeStore()
	spec := newSpec(src, store)

	_, err := Sync(context.Background(), spec, nil, nil)
	require.NoError(t, err)
	before := len(store.rows)

	result, err := Sync(context.Background(), spec, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 30, result.Unchanged)
	assert.Equal(t, before, len(store.rows))
	assert.Equal(t, 30, store.upserts)
}

func TestSync_PreservesEnrichment(t *testing.T) {
	store := newFakeStore(&record{ID: "1", Title: "old", Overview: "hand written"})
	src := &fakeSource{pages: [][]SourceItem{{record{ID: "1", Title: "new"}}}}

	result, err := Sync(context.Background(), newSpec(src, store), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, "new", store.rows["1"].Title)
	assert.Equal(t, "hand written", store.rows["1"].Overview)
}

func TestSync_DuplicateKeysFirstWins(t *testing.T) {
	src := &fakeSource{pages: [][]SourceItem{{
		record{ID: "X", Title: "A"},
		record{ID: "X", Title: "B"},
	}}}
	store := newFakeStore()

	result, err := Sync(context.Background(), newSpec(src, store), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 1, result.Created)
	require.Contains(t, store.rows, "X")
	assert.Equal(t, "A", store.rows["X"].Title)
}

func TestSync_NeverDeletesLocalOnlyRecords(t *testing.T) {
	store := newFakeStore(&record{ID: "gone", Title: "closed museum", Overview: "notes"})
	src := &fakeSource{pages: [][]SourceItem{{record{ID: "1", Title: "one"}}}}

	result, err := Sync(context.Background(), newSpec(src, store), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.LocalOnly)
	assert.Contains(t, store.rows, "gone")
	assert.Equal(t, "notes", store.rows["gone"].Overview)
}

func TestSync_FetchFailureWritesNothing(t *testing.T) {
	src := &fakeSource{pages: [][]SourceItem{makePage(0, 100), makePage(100, 100)}, failAt: 2}
	store := newFakeStore()

	result, err := Sync(context.Background(), newSpec(src, store), nil, nil)
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "spot", fetchErr.Category)
	assert.Equal(t, 2, fetchErr.Page)
	assert.Equal(t, 100, result.Fetched)
	assert.Equal(t, 0, store.upserts)
	assert.Empty(t, store.rows)
}

func TestSync_StoreErrorStopsAndReportsProgress(t *testing.T) {
	src := &fakeSource{pages: [][]SourceItem{makePage(0, 5)}}
	store := newFakeStore()
	store.failKey = "2"

	result, err := Sync(context.Background(), newSpec(src, store), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert spot 2")
	assert.Equal(t, 2, result.Created)
}

func TestSync_LoadIndexError(t *testing.T) {
	src := &fakeSource{pages: [][]SourceItem{makePage(0, 5)}}
	store := newFakeStore()
	store.loadErr = errors.New("db down")

	_, err := Sync(context.Background(), newSpec(src, store), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.Equal(t, 0, store.upserts)
}

func TestSync_ReportsPageProgress(t *testing.T) {
	src := &fakeSource{pages: [][]SourceItem{makePage(0, 100), makePage(100, 20)}}
	var seen []int

	_, err := Sync(context.Background(), newSpec(src, newFakeStore()), nil, func(current, _ int, _ string) {
		seen = append(seen, current)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{100, 120}, seen)
}

func TestBuildPlan_IsDeterministic(t *testing.T) {
	source := []SourceItem{
		record{ID: "1", Title: "same"},
		record{ID: "2", Title: "changed"},
		record{ID: "3", Title: "new"},
		record{ID: "", Title: "no id"},
	}
	local := map[string]LocalItem{
		"1": &record{ID: "1", Title: "same"},
		"2": &record{ID: "2", Title: "before"},
		"9": &record{ID: "9", Title: "local only"},
	}

	first := BuildPlan(source, local, fakeAdapter{})
	second := BuildPlan(source, local, fakeAdapter{})
	assert.Equal(t, first, second)

	assert.Equal(t, PlanSummary{
		Fetched:    4,
		Unique:     3,
		Duplicates: 1,
		Create:     1,
		Update:     1,
		Unchanged:  1,
		LocalOnly:  1,
	}, first.Summary)

	require.Len(t, first.Actions, 2)
	assert.Equal(t, ActionUpdate, first.Actions[0].Type)
	assert.Equal(t, "title: src=changed local=before", first.Actions[0].Reason)
	assert.Equal(t, ActionCreate, first.Actions[1].Type)
	assert.Equal(t, "3", first.Actions[1].Key)
}

func TestSnapshotCache_HitAndExpiry(t *testing.T) {
	src := &fakeSource{pages: [][]SourceItem{makePage(0, 3)}}
	spec := newSpec(src, newFakeStore())

	now := time.Now()
	cache := NewSnapshotCache(time.Minute)
	cache.nowFn = func() time.Time { return now }

	snap, err := cache.Get(context.Background(), spec)
	require.NoError(t, err)
	assert.True(t, snap.Has("0"))
	assert.Equal(t, 1, src.calls)

	_, err = cache.Get(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)

	now = now.Add(2 * time.Minute)
	_, err = cache.Get(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)

	cache.Invalidate("spot")
	_, err = cache.Get(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 3, src.calls)
}

func TestSnapshotCache_ZeroTTLAlwaysRefetches(t *testing.T) {
	src := &fakeSource{pages: [][]SourceItem{makePage(0, 3)}}
	spec := newSpec(src, newFakeStore())
	cache := NewSnapshotCache(0)

	for i := 0; i < 3; i++ {
		_, err := cache.Get(context.Background(), spec)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, src.calls)
}

func TestSync_PopulatesSnapshotCache(t *testing.T) {
	src := &fakeSource{pages: [][]SourceItem{makePage(0, 3)}}
	spec := newSpec(src, newFakeStore())
	cache := NewSnapshotCache(time.Minute)

	_, err := Sync(context.Background(), spec, cache, nil)
	require.NoError(t, err)

	snap, err := cache.Get(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)

	keys := make([]string, 0, len(snap.Keys))
	for k := range snap.Keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"0", "1", "2"}, keys)
}
