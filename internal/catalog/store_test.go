package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

func TestItemKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item Item
		want Key
	}{
		{"persisted", Item{ID: 7, Title: "DBMS"}, "id:7"},
		{"unsaved", Item{Title: "DBMS"}, "title:DBMS"},
		{"title is case sensitive", Item{Title: "dbms"}, "title:dbms"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.item.Key())
		})
	}
}

func TestStoreAddPrependsToCategoryOnly(t *testing.T) {
	store := NewStore(NoteOrder...)
	require.NoError(t, store.Load(Trending, []Item{{Title: "A"}, {Title: "B"}}))
	require.NoError(t, store.Load(Recent, []Item{{Title: "C"}}))

	require.NoError(t, store.Add(Trending, Item{Title: "X", Link: "http://drive/x"}))

	assert.Equal(t, []string{"X", "A", "B"}, titles(store.Items(Trending)))
	assert.Equal(t, []string{"C"}, titles(store.Items(Recent)))
	assert.Empty(t, store.Items(Recommended))
	assert.Equal(t, 1, store.Count(Item{Title: "X"}.Key()))
	assert.Equal(t, Trending, store.Items(Trending)[0].Category)
}

func TestStoreAddRejectsUnknownCategory(t *testing.T) {
	store := NewStore(NoteOrder...)
	err := store.Add(Live, Item{Title: "X"})
	require.Error(t, err)
	assert.Zero(t, store.Len())
}

func TestStoreAllFollowsStoreOrder(t *testing.T) {
	store := NewStore(NoteOrder...)
	require.NoError(t, store.Load(Recommended, []Item{{Title: "R"}}))
	require.NoError(t, store.Load(Recent, []Item{{Title: "C"}}))
	require.NoError(t, store.Load(Trending, []Item{{Title: "T"}}))

	if diff := cmp.Diff([]string{"T", "C", "R"}, titles(store.All())); diff != "" {
		t.Fatalf("All() order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"R", "T"}, titles(store.Union(Recommended, Trending))); diff != "" {
		t.Fatalf("Union() order mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreIndexSurvivesPrepends(t *testing.T) {
	store := NewStore(NoteOrder...)
	require.NoError(t, store.Load(Trending, []Item{{Title: "Shared"}, {Title: "Other"}}))
	require.NoError(t, store.Load(Recent, []Item{{Title: "Shared"}}))

	require.NoError(t, store.Add(Trending, Item{Title: "New 1"}))
	require.NoError(t, store.Add(Trending, Item{Title: "New 2"}))

	touched := store.Apply(Item{Title: "Shared"}.Key(), ConfirmedStar{Starred: true})
	assert.Equal(t, 2, touched)

	for _, item := range store.All() {
		if item.Title == "Shared" {
			assert.True(t, item.Starred, "copy in %s not starred", item.Category)
		} else {
			assert.False(t, item.Starred, "%s starred by mistake", item.Title)
		}
	}
}

func TestStoreItemsReturnsCopy(t *testing.T) {
	store := NewStore(NoteOrder...)
	require.NoError(t, store.Load(Trending, []Item{{Title: "A"}}))

	items := store.Items(Trending)
	items[0].Title = "mutated"

	assert.Equal(t, "A", store.Items(Trending)[0].Title)
}

func TestSeedNotes(t *testing.T) {
	store, err := SeedNotes()
	require.NoError(t, err)

	assert.Len(t, store.Items(Trending), 8)
	assert.Len(t, store.Items(Recent), 10)
	assert.Len(t, store.Items(Recommended), 8)
	assert.Equal(t, "Mathematics II", store.Items(Trending)[0].Title)
	assert.True(t, store.Items(Trending)[0].Starred)
	assert.Equal(t, Recent, store.Items(Recent)[0].Category)
}

func TestSeedLectures(t *testing.T) {
	store, err := SeedLectures()
	require.NoError(t, err)

	live := store.Items(Live)
	require.Len(t, live, 2)
	assert.Equal(t, 45, live[0].Likes)
	assert.True(t, live[0].Live)
	assert.Equal(t, "Database Management", live[0].Subtitle)
	assert.Equal(t, "Dr. Priya Sharma", live[0].Author)

	recent := store.Items(Recent)
	require.Len(t, recent, 4)
	assert.Equal(t, "1.2K", recent[0].Views)

	upcoming := store.Items(Upcoming)
	require.Len(t, upcoming, 4)
	assert.Equal(t, "In 2 hours", upcoming[0].Schedule)
	assert.Len(t, store.Items(Popular), 4)
}

func TestParseCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 156, ParseCount("156"))
	assert.Equal(t, 1024, ParseCount("1,024"))
	assert.Equal(t, 12, ParseCount("1.2K"))
	assert.Equal(t, 0, ParseCount("n/a"))
}

func TestParseNoteCategory(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Trending, ParseNoteCategory(" Trending "))
	assert.Equal(t, Recommended, ParseNoteCategory("recommended"))
	assert.Equal(t, Recent, ParseNoteCategory(""))
	assert.Equal(t, Recent, ParseNoteCategory("archive"))
}
