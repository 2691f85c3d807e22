package dashboard

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/carevo/internal/catalog"
	"github.com/csheth/carevo/internal/view"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("toast-%d", n)
	}
}

func notesPage(t *testing.T) *Page {
	t.Helper()
	store, err := catalog.SeedNotes()
	require.NoError(t, err)
	return New(view.NotesSpec(), store, WithIDs(sequentialIDs()))
}

func lecturesPage(t *testing.T) *Page {
	t.Helper()
	store, err := catalog.SeedLectures()
	require.NoError(t, err)
	return New(view.LecturesSpec(), store, WithIDs(sequentialIDs()))
}

func section(t *testing.T, snap Snapshot, name string) view.Section {
	t.Helper()
	for _, s := range snap.Sections {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("section %q not visible in %v", name, snap.Sections)
	return view.Section{}
}

func TestSetFilterAndSortValidate(t *testing.T) {
	page := notesPage(t)

	require.NoError(t, page.SetFilter("Trending"))
	require.NoError(t, page.SetSort(view.SortLikesHigh))

	err := page.SetFilter("Live")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.ErrorIs(t, page.SetSort(view.SortViewsHigh), ErrValidation)

	snap := page.Snapshot()
	assert.Equal(t, view.Filter("Trending"), snap.Filter)
	assert.Equal(t, view.SortLikesHigh, snap.Sort)
}

func TestClearingQueryRestoresBrowsingState(t *testing.T) {
	page := notesPage(t)
	require.NoError(t, page.SetFilter("Recent"))
	require.NoError(t, page.SetSort(view.SortLikesLow))

	require.True(t, page.Type("dbms"))
	effect := page.Commit("dbms")
	require.IsType(t, SearchEffect{}, effect)
	assert.Equal(t, Searching, page.Snapshot().Mode)
	assert.True(t, page.Snapshot().Searching)

	assert.False(t, page.Type(""))

	snap := page.Snapshot()
	assert.Equal(t, Browsing, snap.Mode)
	assert.False(t, snap.Searching)
	assert.Equal(t, view.Filter("Recent"), snap.Filter)
	assert.Equal(t, view.SortLikesLow, snap.Sort)
	assert.Empty(t, snap.Results)
	require.Len(t, snap.Sections, 1)
	assert.Equal(t, "recent", snap.Sections[0].Name)
}

func TestCommitIgnoresSupersededInput(t *testing.T) {
	page := notesPage(t)

	page.Type("db")
	page.Type("dbms")

	assert.Nil(t, page.Commit("db"), "older debounce tick must not commit")
	assert.Equal(t, Browsing, page.Snapshot().Mode)

	effect := page.Commit("dbms")
	assert.Equal(t, SearchEffect{Query: "dbms"}, effect)
}

func TestCommitAfterClearDoesNothing(t *testing.T) {
	page := notesPage(t)

	page.Type("dbms")
	page.Type("   ")

	assert.Nil(t, page.Commit("dbms"))
	assert.Equal(t, Browsing, page.Snapshot().Mode)
}

func TestSearchMergesServerResultsFirst(t *testing.T) {
	page := notesPage(t)
	page.Type("dbms")
	page.Commit("dbms")

	page.ResolveSearch("dbms", []catalog.Item{
		{ID: 12, Title: "dbms", Author: "Server Author"},
		{ID: 13, Title: "DBMS Advanced"},
	}, nil)

	snap := page.Snapshot()
	assert.False(t, snap.Searching)
	require.Equal(t, 2, snap.ResultCount)
	assert.Equal(t, 12, snap.Results[0].ID)
	assert.Equal(t, 13, snap.Results[1].ID)
}

func TestFailedSearchFallsBackToLocal(t *testing.T) {
	page := notesPage(t)
	page.Type("dbms")
	page.Commit("dbms")

	page.ResolveSearch("dbms", nil, errors.New("connection refused"))

	snap := page.Snapshot()
	assert.False(t, snap.Searching)
	assert.Equal(t, Searching, snap.Mode)
	assert.Equal(t, 2, snap.ResultCount, "both seeded DBMS copies match locally")
	_, ok := page.Toast()
	assert.False(t, ok, "failed search is indistinguishable from an empty one")
}

func TestStaleSearchResponseIsStillApplied(t *testing.T) {
	page := notesPage(t)
	page.Type("ai")
	page.Commit("ai")
	page.Type("dbms")
	page.Commit("dbms")

	page.ResolveSearch("ai", []catalog.Item{{ID: 40, Title: "AI Ethics"}}, nil)

	snap := page.Snapshot()
	assert.Equal(t, "dbms", snap.Query)
	require.NotEmpty(t, snap.Results)
	assert.Equal(t, 40, snap.Results[0].ID)
	assert.True(t, snap.Searching, "the dbms request is still in flight")

	page.ResolveSearch("ai", nil, errors.New("timeout"))
	assert.True(t, page.Snapshot().Searching)

	page.ResolveSearch("dbms", nil, nil)
	assert.False(t, page.Snapshot().Searching)
}

func TestLectureSearchIsLocalAndSorted(t *testing.T) {
	page := lecturesPage(t)
	require.NoError(t, page.SetSort(view.SortLikesHigh))

	page.Type("dr.")
	effect := page.Commit("dr.")
	assert.Nil(t, effect)

	snap := page.Snapshot()
	assert.False(t, snap.Searching)
	require.NotEmpty(t, snap.Results)
	for i := 1; i < len(snap.Results); i++ {
		assert.GreaterOrEqual(t, snap.Results[i-1].Likes, snap.Results[i].Likes)
	}
	for _, item := range snap.Results {
		assert.NotEqual(t, catalog.Upcoming, item.Category, "upcoming lectures are not searched")
	}
}

func TestStarPropagatesServerValue(t *testing.T) {
	store := catalog.NewStore(catalog.NoteOrder...)
	shared := catalog.Item{ID: 5, Title: "Mathematics II"}
	require.NoError(t, store.Load(catalog.Trending, []catalog.Item{shared}))
	require.NoError(t, store.Load(catalog.Recent, []catalog.Item{shared}))
	page := New(view.NotesSpec(), store, WithIDs(sequentialIDs()))

	effect := page.ToggleStar(shared.Key())
	star, ok := effect.(StarEffect)
	require.True(t, ok)
	assert.True(t, star.Starred)
	assert.Equal(t, 5, star.ID)

	// The server refused the star.
	page.ResolveStar(star, false, nil)
	for _, item := range store.All() {
		assert.False(t, item.Starred)
	}

	page.ResolveStar(star, true, nil)
	important := section(t, page.Snapshot(), "important")
	assert.Equal(t, 2, important.Total)

	toast, ok := page.Toast()
	require.True(t, ok)
	assert.Equal(t, "Starred", toast.Message)
}

func TestFailedStarAppliesRequestedState(t *testing.T) {
	store := catalog.NewStore(catalog.NoteOrder...)
	require.NoError(t, store.Load(catalog.Recent, []catalog.Item{{ID: 2, Title: "OS", Starred: true}}))
	page := New(view.NotesSpec(), store)

	effect := page.ToggleStar(catalog.Item{ID: 2}.Key()).(StarEffect)
	page.ResolveStar(effect, true, errors.New("timeout"))

	item, _ := store.Lookup(catalog.Item{ID: 2}.Key())
	assert.False(t, item.Starred)
}

func TestUnsavedStarAppliesImmediately(t *testing.T) {
	page := notesPage(t)
	key := catalog.Item{Title: "DBMS"}.Key()

	assert.Nil(t, page.ToggleStar(key))

	important := section(t, page.Snapshot(), "important")
	var dbms int
	for _, item := range important.Items {
		if item.Title == "DBMS" {
			dbms++
		}
	}
	assert.Equal(t, 2, dbms, "both trending copies share the title key")
	assert.Equal(t, 6, important.Total)
	assert.True(t, important.Capped)

	toast, ok := page.Toast()
	require.True(t, ok)
	assert.Equal(t, "Starred", toast.Message)
}

func TestFailedLikeFlipsByOne(t *testing.T) {
	store := catalog.NewStore(catalog.NoteOrder...)
	require.NoError(t, store.Load(catalog.Trending, []catalog.Item{{ID: 3, Title: "DBMS", Likes: 10}}))
	page := New(view.NotesSpec(), store)
	key := catalog.Item{ID: 3}.Key()

	effect, ok := page.ToggleLike(key).(LikeEffect)
	require.True(t, ok)
	page.ResolveLike(effect, LikeResult{}, errors.New("503 Service Unavailable"))

	item, _ := store.Lookup(key)
	assert.True(t, item.Liked)
	assert.Equal(t, 11, item.Likes)
}

func TestOverlappingLikesApplyInArrivalOrder(t *testing.T) {
	store := catalog.NewStore(catalog.NoteOrder...)
	require.NoError(t, store.Load(catalog.Trending, []catalog.Item{{ID: 3, Title: "DBMS", Likes: 10}}))
	page := New(view.NotesSpec(), store)
	key := catalog.Item{ID: 3}.Key()

	first := page.ToggleLike(key).(LikeEffect)
	second := page.ToggleLike(key).(LikeEffect)

	page.ResolveLike(second, LikeResult{Liked: false, Likes: 10}, nil)
	page.ResolveLike(first, LikeResult{Liked: true, Likes: 11}, nil)

	item, _ := store.Lookup(key)
	assert.True(t, item.Liked)
	assert.Equal(t, 11, item.Likes)
}

func TestLikeUpdatesServerResults(t *testing.T) {
	page := notesPage(t)
	page.Type("signals")
	page.Commit("signals")
	page.ResolveSearch("signals", []catalog.Item{{ID: 77, Title: "Signals", Likes: 1}}, nil)

	effect, ok := page.ToggleLike(catalog.Item{ID: 77}.Key()).(LikeEffect)
	require.True(t, ok)
	page.ResolveLike(effect, LikeResult{Liked: true, Likes: 2}, nil)

	snap := page.Snapshot()
	require.Equal(t, 1, snap.ResultCount)
	assert.Equal(t, 2, snap.Results[0].Likes)
	assert.True(t, snap.Results[0].Liked)
}

func TestLectureLikesAreLocal(t *testing.T) {
	page := lecturesPage(t)
	live := section(t, page.Snapshot(), "live").Items[0]

	assert.Nil(t, page.ToggleLike(live.Key()))

	after := section(t, page.Snapshot(), "live").Items[0]
	assert.Equal(t, live.Likes+1, after.Likes)
	assert.True(t, after.Liked)
}

func TestUploadValidation(t *testing.T) {
	page := notesPage(t)

	effect, err := page.Upload(Draft{Title: "X", Link: "   "})
	require.ErrorIs(t, err, ErrValidation)
	assert.Nil(t, effect)

	toast, ok := page.Toast()
	require.True(t, ok)
	assert.Equal(t, ToastError, toast.Kind)
	assert.Equal(t, "Title and Drive link are required", toast.Message)

	_, err = lecturesPage(t).Upload(Draft{Title: "X", Link: "http://drive/x"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUploadLandsAtHeadOfItsCategoryOnly(t *testing.T) {
	page := notesPage(t)
	draft := Draft{Title: "X", Link: "http://drive.example/x", Category: catalog.Trending}

	effect, err := page.Upload(draft)
	require.NoError(t, err)
	upload := effect.(UploadEffect)

	created := upload.Draft.Item()
	created.ID = 101
	page.ResolveUpload(created, nil)

	require.NoError(t, page.SetFilter("Trending"))
	trending := section(t, page.Snapshot(), "trending")
	assert.Equal(t, "X", trending.Items[0].Title)

	count := 0
	for _, item := range page.store.All() {
		if item.Title == "X" {
			count++
			assert.Equal(t, catalog.Trending, item.Category)
		}
	}
	assert.Equal(t, 1, count)

	toast, _ := page.Toast()
	assert.Equal(t, "Note uploaded", toast.Message)
}

func TestUploadUnknownCategoryDefaultsToRecent(t *testing.T) {
	page := notesPage(t)

	page.ResolveUpload(catalog.Item{ID: 9, Title: "Y", Link: "http://y", Category: "archive"}, nil)

	assert.Equal(t, "Y", page.store.Items(catalog.Recent)[0].Title)
}

func TestFailedUploadToasts(t *testing.T) {
	page := notesPage(t)
	before := page.store.Len()

	page.ResolveUpload(catalog.Item{}, errors.New("boom"))

	assert.Equal(t, before, page.store.Len())
	toast, ok := page.Toast()
	require.True(t, ok)
	assert.Equal(t, "Upload failed", toast.Message)
}

func TestDismissToastOnlyClearsCurrent(t *testing.T) {
	page := notesPage(t)
	page.ResolveUpload(catalog.Item{}, errors.New("first"))
	first, _ := page.Toast()
	page.ResolveUpload(catalog.Item{}, errors.New("second"))

	assert.False(t, page.DismissToast(first.ID))
	_, ok := page.Toast()
	assert.True(t, ok)

	current, _ := page.Toast()
	assert.True(t, page.DismissToast(current.ID))
	assert.Nil(t, page.Snapshot().Toast)
}

func TestDismissToastIgnoresReplacedToast(t *testing.T) {
	page := notesPage(t)

	_, err := page.Upload(Draft{})
	require.ErrorIs(t, err, ErrValidation)
	_, err = page.Upload(Draft{Title: "Networks"})
	require.ErrorIs(t, err, ErrValidation)

	toast, ok := page.Toast()
	require.True(t, ok)
	assert.Equal(t, "toast-2", toast.ID)
	assert.Equal(t, "Title and Drive link are required", toast.Message)

	assert.False(t, page.DismissToast("toast-1"), "expired timer of a replaced toast")
	_, ok = page.Toast()
	assert.True(t, ok)

	assert.True(t, page.DismissToast("toast-2"))
	_, ok = page.Toast()
	assert.False(t, ok)
	assert.False(t, page.DismissToast("toast-2"))
}
